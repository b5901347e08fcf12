//go:build unit || e2e

package builder

import (
	"time"

	reqdto "washday/internal/handler/dto/request"
	"washday/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderBuilder struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Items          []*CartItemBuilder
	RequestedHours float64
	PlacedAt       time.Time
}

func NewOrderBuilder() *OrderBuilder {
	return &OrderBuilder{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Items:          []*CartItemBuilder{NewCartItemBuilder()},
		RequestedHours: 24,
		PlacedAt:       time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC),
	}
}

func (b *OrderBuilder) WithUserID(id uuid.UUID) *OrderBuilder {
	b.UserID = id
	return b
}

func (b *OrderBuilder) WithItems(items ...*CartItemBuilder) *OrderBuilder {
	b.Items = items
	return b
}

func (b *OrderBuilder) WithRequestedHours(h float64) *OrderBuilder {
	b.RequestedHours = h
	return b
}

func (b *OrderBuilder) BuildCreateRequestDTO() reqdto.CreateOrderRequest {
	items := make([]reqdto.CartItemRequest, 0, len(b.Items))
	for _, it := range b.Items {
		items = append(items, it.BuildRequestDTO())
	}
	return reqdto.CreateOrderRequest{Items: items, RequestedHours: b.RequestedHours}
}

func (b *OrderBuilder) BuildQuoteRequestDTO() reqdto.QuoteRequest {
	req := b.BuildCreateRequestDTO()
	return reqdto.QuoteRequest{Items: req.Items, RequestedHours: req.RequestedHours}
}

// BuildView returns a persisted view priced at the Normal (1.3x) rate.
func (b *OrderBuilder) BuildView() *queries.OrderView {
	base := decimal.Zero
	items := make([]queries.OrderItemView, 0, len(b.Items))
	for _, it := range b.Items {
		line := it.Build()
		base = base.Add(line.LineTotal())
		hours := 0.0
		if line.ProcessingTimeHours != nil {
			hours = *line.ProcessingTimeHours
		}
		items = append(items, queries.OrderItemView{
			SKU:                 line.ID,
			UnitPrice:           line.Price,
			Quantity:            line.Quantity,
			ProcessingTimeHours: hours,
		})
	}
	multiplier := decimal.RequireFromString("1.3")

	return &queries.OrderView{
		ID:             b.ID,
		UserID:         b.UserID,
		Status:         "placed",
		RequestedHours: b.RequestedHours,
		EffectiveHours: b.RequestedHours,
		MinLeadHours:   12,
		Multiplier:     multiplier,
		SpeedLabel:     "Normal",
		BaseTotal:      base,
		FinalTotal:     base.Mul(multiplier).Round(2),
		Items:          items,
		PlacedAt:       b.PlacedAt,
		PromisedAt:     b.PlacedAt.Add(time.Duration(b.RequestedHours * float64(time.Hour))),
	}
}
