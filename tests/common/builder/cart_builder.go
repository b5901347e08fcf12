//go:build unit || e2e

package builder

import (
	"washday/internal/domain/pricing"
	reqdto "washday/internal/handler/dto/request"
	"washday/internal/pkg/ptr"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CartItemBuilder struct {
	ID              string
	Price           string
	Quantity        int
	ProcessingHours *float64
}

func NewCartItemBuilder() *CartItemBuilder {
	return &CartItemBuilder{
		ID:              "shirt-" + uuid.NewString()[:8],
		Price:           "150",
		Quantity:        1,
		ProcessingHours: ptr.Of(12.0),
	}
}

func (b *CartItemBuilder) WithPrice(price string) *CartItemBuilder {
	b.Price = price
	return b
}

func (b *CartItemBuilder) WithQuantity(qty int) *CartItemBuilder {
	b.Quantity = qty
	return b
}

func (b *CartItemBuilder) WithProcessingHours(hours *float64) *CartItemBuilder {
	b.ProcessingHours = hours
	return b
}

func (b *CartItemBuilder) Build() pricing.CartItem {
	return pricing.CartItem{
		ID:                  b.ID,
		Price:               decimal.RequireFromString(b.Price),
		Quantity:            b.Quantity,
		ProcessingTimeHours: b.ProcessingHours,
	}
}

func (b *CartItemBuilder) BuildRequestDTO() reqdto.CartItemRequest {
	qty := b.Quantity
	return reqdto.CartItemRequest{
		ID:                  b.ID,
		Price:               decimal.RequireFromString(b.Price),
		Quantity:            &qty,
		ProcessingTimeHours: b.ProcessingHours,
	}
}
