package request

import (
	"washday/internal/domain/pricing"

	"github.com/shopspring/decimal"
)

// CartItemRequest is one cart line as the storefront sends it.
// A missing or zero quantity means one piece.
type CartItemRequest struct {
	ID                  string          `json:"id" binding:"required,max=64"`
	Price               decimal.Decimal `json:"price"`
	Quantity            *int            `json:"quantity,omitempty"`
	ProcessingTimeHours *float64        `json:"processingTimeHours,omitempty"`
}

func (r CartItemRequest) ToDomain() pricing.CartItem {
	qty := 1
	if r.Quantity != nil && *r.Quantity != 0 {
		qty = *r.Quantity
	}
	return pricing.CartItem{
		ID:                  r.ID,
		Price:               r.Price,
		Quantity:            qty,
		ProcessingTimeHours: r.ProcessingTimeHours,
	}
}

type QuoteRequest struct {
	Items          []CartItemRequest `json:"items" binding:"max=100,dive"`
	RequestedHours float64           `json:"requestedHours"`
}

func (r QuoteRequest) CartItems() []pricing.CartItem {
	return toCartItems(r.Items)
}

type CreateOrderRequest struct {
	Items          []CartItemRequest `json:"items" binding:"required,min=1,max=100,dive"`
	RequestedHours float64           `json:"requestedHours"`
}

func (r CreateOrderRequest) CartItems() []pricing.CartItem {
	return toCartItems(r.Items)
}

func toCartItems(items []CartItemRequest) []pricing.CartItem {
	out := make([]pricing.CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, it.ToDomain())
	}
	return out
}
