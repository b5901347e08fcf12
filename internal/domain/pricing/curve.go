package pricing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// Curve is a validated, immutable piecewise-linear price curve.
type Curve struct {
	points []PricePoint
}

func NewCurve(anchors []PricePoint) (Curve, error) {
	if len(anchors) < 2 {
		return Curve{}, fmt.Errorf("%w: at least two anchors required, got %d", ErrInvalidConfiguration, len(anchors))
	}

	points := make([]PricePoint, len(anchors))
	copy(points, anchors)

	for i, p := range points {
		if math.IsNaN(p.Hours) || math.IsInf(p.Hours, 0) || p.Hours < 0 {
			return Curve{}, fmt.Errorf("%w: anchor %d has invalid hours %v", ErrInvalidConfiguration, i, p.Hours)
		}
		if !p.Multiplier.IsPositive() {
			return Curve{}, fmt.Errorf("%w: anchor %d multiplier must be positive", ErrInvalidConfiguration, i)
		}
		if i > 0 && p.Hours <= points[i-1].Hours {
			return Curve{}, fmt.Errorf("%w: anchors must be sorted ascending by hours (%v after %v)",
				ErrInvalidConfiguration, p.Hours, points[i-1].Hours)
		}
	}

	return Curve{points: points}, nil
}

func (c Curve) Points() []PricePoint {
	out := make([]PricePoint, len(c.points))
	copy(out, c.points)
	return out
}

// Multiplier interpolates the curve at hours. Values below the first
// anchor (and NaN) clamp to the first multiplier, values above the last
// anchor clamp to the last one.
func (c Curve) Multiplier(hours float64) decimal.Decimal {
	first, last := c.points[0], c.points[len(c.points)-1]

	switch {
	case math.IsNaN(hours) || hours <= first.Hours:
		return first.Multiplier
	case hours >= last.Hours:
		return last.Multiplier
	}

	h := decimal.NewFromFloat(hours)
	for i := 1; i < len(c.points); i++ {
		a, b := c.points[i-1], c.points[i]
		if hours > b.Hours {
			continue
		}
		if hours == b.Hours {
			return b.Multiplier
		}

		aHours := decimal.NewFromFloat(a.Hours)
		frac := h.Sub(aHours).Div(decimal.NewFromFloat(b.Hours).Sub(aHours))
		return a.Multiplier.Add(b.Multiplier.Sub(a.Multiplier).Mul(frac))
	}

	return last.Multiplier
}
