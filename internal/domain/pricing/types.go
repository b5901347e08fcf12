package pricing

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidConfiguration = errors.New("invalid pricing configuration")
	ErrInvalidInput         = errors.New("invalid pricing input")
)

type SpeedLabel string

const (
	SpeedExpress SpeedLabel = "Express"
	SpeedFast    SpeedLabel = "Fast"
	SpeedNormal  SpeedLabel = "Normal"
	SpeedEconomy SpeedLabel = "Economy"
)

func (l SpeedLabel) String() string {
	return string(l)
}

// PricePoint is one anchor of the delivery price curve.
type PricePoint struct {
	Hours      float64
	Multiplier decimal.Decimal
}

// CartItem is a priced line in the customer's cart.
// A nil ProcessingTimeHours falls back to Config.DefaultItemProcessingHours.
type CartItem struct {
	ID                  string
	Price               decimal.Decimal
	Quantity            int
	ProcessingTimeHours *float64
}

func (i CartItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

type DeliveryQuote struct {
	Hours                float64
	MinimumLeadTimeHours float64
	Multiplier           decimal.Decimal
	BaseTotal            decimal.Decimal
	FinalTotal           decimal.Decimal
	SpeedLabel           SpeedLabel
}

type Config struct {
	Anchors                    []PricePoint
	MinHoursFloor              float64
	MaxHoursCeiling            float64
	DefaultItemProcessingHours float64
}

func DefaultAnchors() []PricePoint {
	return []PricePoint{
		{Hours: 6, Multiplier: decimal.RequireFromString("2.0")},
		{Hours: 12, Multiplier: decimal.RequireFromString("1.6")},
		{Hours: 24, Multiplier: decimal.RequireFromString("1.3")},
		{Hours: 36, Multiplier: decimal.RequireFromString("1.1")},
		{Hours: 48, Multiplier: decimal.RequireFromString("1.0")},
		{Hours: 72, Multiplier: decimal.RequireFromString("0.7")},
	}
}

func DefaultConfig() Config {
	return Config{
		Anchors:                    DefaultAnchors(),
		MinHoursFloor:              6,
		MaxHoursCeiling:            72,
		DefaultItemProcessingHours: 12,
	}
}
