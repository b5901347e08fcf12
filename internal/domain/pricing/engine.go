package pricing

import (
	"fmt"
	"math"

	"washday/internal/pkg/patch"

	"github.com/shopspring/decimal"
)

var (
	expressThreshold = decimal.RequireFromString("2.0")
	fastThreshold    = decimal.RequireFromString("1.5")
	normalThreshold  = decimal.RequireFromString("1.0")
)

type Engine struct {
	curve Curve
	cfg   Config
}

func NewEngine(cfg Config) (*Engine, error) {
	curve, err := NewCurve(cfg.Anchors)
	if err != nil {
		return nil, err
	}
	if !isFinite(cfg.MaxHoursCeiling) || cfg.MaxHoursCeiling <= 0 {
		return nil, fmt.Errorf("%w: hours ceiling must be positive, got %v", ErrInvalidConfiguration, cfg.MaxHoursCeiling)
	}
	if cfg.MinHoursFloor < 0 || cfg.MaxHoursCeiling < cfg.MinHoursFloor {
		return nil, fmt.Errorf("%w: hours floor %v and ceiling %v out of order",
			ErrInvalidConfiguration, cfg.MinHoursFloor, cfg.MaxHoursCeiling)
	}
	if !isFinite(cfg.DefaultItemProcessingHours) || cfg.DefaultItemProcessingHours <= 0 {
		return nil, fmt.Errorf("%w: default item processing hours must be positive", ErrInvalidConfiguration)
	}

	cfg.Anchors = curve.Points()
	return &Engine{curve: curve, cfg: cfg}, nil
}

func NewDefaultEngine() *Engine {
	e, err := NewEngine(DefaultConfig())
	if err != nil {
		panic(err)
	}
	return e
}

func (e *Engine) Config() Config {
	cfg := e.cfg
	cfg.Anchors = e.curve.Points()
	return cfg
}

// MinimumLeadTimeHours returns the slowest item's processing time
// (per-item time multiplied by quantity), clamped into [floor, ceiling].
// Items are not summed: the slowest item gates the whole order.
func (e *Engine) MinimumLeadTimeHours(items []CartItem) float64 {
	if len(items) == 0 {
		return e.cfg.MinHoursFloor
	}

	longest := 0.0
	for _, item := range items {
		processing := patch.Coalesce(item.ProcessingTimeHours, e.cfg.DefaultItemProcessingHours)
		if !isFinite(processing) {
			processing = e.cfg.DefaultItemProcessingHours
		}
		qty := max(item.Quantity, 1)
		longest = max(longest, processing*float64(qty))
	}

	return e.clampHours(longest)
}

func (e *Engine) PriceMultiplier(hours float64) decimal.Decimal {
	return e.curve.Multiplier(hours)
}

func ClassifySpeedLabel(multiplier decimal.Decimal) SpeedLabel {
	switch {
	case multiplier.GreaterThanOrEqual(expressThreshold):
		return SpeedExpress
	case multiplier.GreaterThanOrEqual(fastThreshold):
		return SpeedFast
	case multiplier.GreaterThanOrEqual(normalThreshold):
		return SpeedNormal
	default:
		return SpeedEconomy
	}
}

// Quote prices a cart for the requested delivery window. The window is
// stretched to the cart's minimum lead time when it is shorter.
func (e *Engine) Quote(items []CartItem, requestedHours float64) (DeliveryQuote, error) {
	if !isFinite(requestedHours) || requestedHours < 0 {
		return DeliveryQuote{}, fmt.Errorf("%w: requested hours must be a non-negative number", ErrInvalidInput)
	}
	if err := ValidateItems(items); err != nil {
		return DeliveryQuote{}, err
	}

	minLead := e.MinimumLeadTimeHours(items)
	effective := max(requestedHours, minLead)
	multiplier := e.PriceMultiplier(effective)

	base := decimal.Zero
	for _, item := range items {
		base = base.Add(item.LineTotal())
	}

	return DeliveryQuote{
		Hours:                effective,
		MinimumLeadTimeHours: minLead,
		Multiplier:           multiplier,
		BaseTotal:            base,
		FinalTotal:           base.Mul(multiplier).Round(2),
		SpeedLabel:           ClassifySpeedLabel(multiplier),
	}, nil
}

func ValidateItems(items []CartItem) error {
	for i, item := range items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %d quantity must be at least 1", ErrInvalidInput, i)
		}
		if item.Price.IsNegative() {
			return fmt.Errorf("%w: item %d price must not be negative", ErrInvalidInput, i)
		}
		if item.ProcessingTimeHours != nil {
			h := *item.ProcessingTimeHours
			if !isFinite(h) || h < 0 {
				return fmt.Errorf("%w: item %d processing time must be a non-negative number", ErrInvalidInput, i)
			}
		}
	}
	return nil
}

func (e *Engine) clampHours(h float64) float64 {
	return min(max(h, e.cfg.MinHoursFloor), e.cfg.MaxHoursCeiling)
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
