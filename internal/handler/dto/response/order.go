package response

import (
	"time"

	"washday/internal/domain/pricing"
	"washday/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type QuoteResponse struct {
	RequestedHours float64         `json:"requestedHours"`
	EffectiveHours float64         `json:"effectiveHours"`
	MinLeadHours   float64         `json:"minLeadHours"`
	Multiplier     decimal.Decimal `json:"multiplier"`
	SpeedLabel     string          `json:"speedLabel"`
	BaseTotal      string          `json:"baseTotal"`
	FinalTotal     string          `json:"finalTotal"`
	Currency       string          `json:"currency"`
}

type CurvePointResponse struct {
	Hours      float64         `json:"hours"`
	Multiplier decimal.Decimal `json:"multiplier"`
}

type OrderItemResponse struct {
	SKU                 string  `json:"sku"`
	UnitPrice           string  `json:"unitPrice"`
	Quantity            int     `json:"quantity"`
	ProcessingTimeHours float64 `json:"processingTimeHours"`
}

type OrderResponse struct {
	ID             uuid.UUID           `json:"id"`
	UserID         uuid.UUID           `json:"userId"`
	Status         string              `json:"status"`
	RequestedHours float64             `json:"requestedHours"`
	EffectiveHours float64             `json:"effectiveHours"`
	MinLeadHours   float64             `json:"minLeadHours"`
	Multiplier     decimal.Decimal     `json:"multiplier"`
	SpeedLabel     string              `json:"speedLabel"`
	BaseTotal      string              `json:"baseTotal"`
	FinalTotal     string              `json:"finalTotal"`
	Items          []OrderItemResponse `json:"items"`
	PlacedAt       time.Time           `json:"placedAt"`
	PromisedAt     time.Time           `json:"promisedAt"`
}

type OrderListItemResponse struct {
	ID         uuid.UUID `json:"id"`
	Status     string    `json:"status"`
	SpeedLabel string    `json:"speedLabel"`
	FinalTotal string    `json:"finalTotal"`
	ItemCount  int       `json:"itemCount"`
	PlacedAt   time.Time `json:"placedAt"`
	PromisedAt time.Time `json:"promisedAt"`
}

type OrderListResponse struct {
	Orders     []OrderListItemResponse `json:"orders"`
	NextCursor *string                 `json:"nextCursor,omitempty"`
}

func FromQuoteView(v *queries.QuoteView) (*QuoteResponse, error) {
	var out QuoteResponse
	if err := copyInto(&out, v); err != nil {
		return nil, err
	}
	return &out, nil
}

func FromCurve(points []pricing.PricePoint) []CurvePointResponse {
	out := make([]CurvePointResponse, 0, len(points))
	for _, p := range points {
		out = append(out, CurvePointResponse{Hours: p.Hours, Multiplier: p.Multiplier})
	}
	return out
}

func FromOrderView(v *queries.OrderView) (*OrderResponse, error) {
	var out OrderResponse
	if err := copyInto(&out, v); err != nil {
		return nil, err
	}
	if out.Items == nil {
		out.Items = []OrderItemResponse{}
	}
	return &out, nil
}

func FromOrderList(items []*queries.OrderListItem, next *queries.Cursor) (*OrderListResponse, error) {
	out := &OrderListResponse{Orders: make([]OrderListItemResponse, 0, len(items))}
	for _, it := range items {
		var row OrderListItemResponse
		if err := copyInto(&row, it); err != nil {
			return nil, err
		}
		out.Orders = append(out.Orders, row)
	}
	if next != nil {
		out.NextCursor = &next.After
	}
	return out, nil
}
