package wheel

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidConfiguration = errors.New("invalid wheel configuration")
	ErrInvalidInput         = errors.New("invalid spin input")
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrLimitExceeded        = errors.New("spend limit exceeded")
	ErrInvalidTransition    = errors.New("invalid spin state transition")
)

// ProbabilityTolerance bounds how far the segment probabilities may drift from 1.
const ProbabilityTolerance = 1e-9

type Segment struct {
	ID          string
	Label       string
	Multiplier  decimal.Decimal
	ColorToken  string
	Probability float64
}

func (s Segment) IsWin() bool {
	return s.Multiplier.IsPositive()
}

// Wheel is an ordered, validated set of segments. The order is the draw order.
type Wheel struct {
	segments []Segment
}

func NewWheel(segments []Segment) (Wheel, error) {
	if len(segments) == 0 {
		return Wheel{}, fmt.Errorf("%w: wheel has no segments", ErrInvalidConfiguration)
	}

	seen := make(map[string]struct{}, len(segments))
	sum := 0.0
	for i, s := range segments {
		if s.ID == "" {
			return Wheel{}, fmt.Errorf("%w: segment %d has no id", ErrInvalidConfiguration, i)
		}
		if _, dup := seen[s.ID]; dup {
			return Wheel{}, fmt.Errorf("%w: duplicate segment id %q", ErrInvalidConfiguration, s.ID)
		}
		seen[s.ID] = struct{}{}

		if s.Multiplier.IsNegative() {
			return Wheel{}, fmt.Errorf("%w: segment %q multiplier must not be negative", ErrInvalidConfiguration, s.ID)
		}
		if math.IsNaN(s.Probability) || s.Probability <= 0 || s.Probability > 1 {
			return Wheel{}, fmt.Errorf("%w: segment %q probability %v outside (0,1]", ErrInvalidConfiguration, s.ID, s.Probability)
		}
		sum += s.Probability
	}

	if math.Abs(sum-1) > ProbabilityTolerance {
		return Wheel{}, fmt.Errorf("%w: segment probabilities sum to %v, want 1", ErrInvalidConfiguration, sum)
	}

	out := make([]Segment, len(segments))
	copy(out, segments)
	return Wheel{segments: out}, nil
}

func (w Wheel) Segments() []Segment {
	out := make([]Segment, len(w.segments))
	copy(out, w.segments)
	return out
}

// ExpectedMultiplier is the probability-weighted payout multiplier before loyalty bonuses.
func (w Wheel) ExpectedMultiplier() float64 {
	total := 0.0
	for _, s := range w.segments {
		m, _ := s.Multiplier.Float64()
		total += m * s.Probability
	}
	return total
}

func DefaultSegments() []Segment {
	return []Segment{
		{ID: "x2", Label: "2x", Multiplier: decimal.NewFromInt(2), ColorToken: "emerald", Probability: 0.15},
		{ID: "lose-1", Label: "LOSE", Multiplier: decimal.Zero, ColorToken: "slate", Probability: 0.25},
		{ID: "x1_5", Label: "1.5x", Multiplier: decimal.RequireFromString("1.5"), ColorToken: "sky", Probability: 0.20},
		{ID: "x5", Label: "5x", Multiplier: decimal.NewFromInt(5), ColorToken: "violet", Probability: 0.05},
		{ID: "lose-2", Label: "LOSE", Multiplier: decimal.Zero, ColorToken: "slate", Probability: 0.15},
		{ID: "x3", Label: "3x", Multiplier: decimal.NewFromInt(3), ColorToken: "amber", Probability: 0.08},
		{ID: "x0_5", Label: "0.5x", Multiplier: decimal.RequireFromString("0.5"), ColorToken: "rose", Probability: 0.10},
		{ID: "x10", Label: "10x", Multiplier: decimal.NewFromInt(10), ColorToken: "gold", Probability: 0.02},
	}
}
