package order

import (
	"washday/internal/domain/pricing"
	"washday/internal/pkg/clock"

	"github.com/google/uuid"
)

type Factory struct {
	Clock   clock.Clock
	Pricing *pricing.Engine
}

func NewFactory(clock clock.Clock, engine *pricing.Engine) *Factory {
	return &Factory{
		Clock:   clock,
		Pricing: engine,
	}
}

// CreateOrder prices the cart for the requested turnaround and fixes the
// promised delivery time from the effective (clamped) hours.
func (f *Factory) CreateOrder(userID uuid.UUID, cart []pricing.CartItem, requestedHours float64) (*Order, error) {
	quote, err := f.Pricing.Quote(cart, requestedHours)
	if err != nil {
		return nil, err
	}

	defaultHours := f.Pricing.Config().DefaultItemProcessingHours
	items := make([]Item, 0, len(cart))
	for _, c := range cart {
		hours := defaultHours
		if c.ProcessingTimeHours != nil {
			hours = *c.ProcessingTimeHours
		}
		items = append(items, Item{
			SKU:                 c.ID,
			UnitPrice:           c.Price,
			Quantity:            c.Quantity,
			ProcessingTimeHours: hours,
		})
	}

	return NewOrder(userID, items, requestedHours, quote, f.Clock.Now())
}
