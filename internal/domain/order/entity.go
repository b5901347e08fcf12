package order

import (
	"errors"
	"time"

	"washday/internal/domain/pricing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrder     = errors.New("order must contain at least one item")
	ErrInvalidStatus  = errors.New("invalid order status")
	ErrInvalidItemRef = errors.New("order item id is required")
)

type Status string

const (
	StatusPlaced    Status = "placed"
	StatusInProcess Status = "in_process"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusPlaced, StatusInProcess, StatusDelivered, StatusCancelled:
		return true
	default:
		return false
	}
}

type Item struct {
	SKU                 string
	UnitPrice           decimal.Decimal
	Quantity            int
	ProcessingTimeHours float64
}

func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a laundry order whose price and ETA were fixed by a delivery quote.
type Order struct {
	id         uuid.UUID
	userID     uuid.UUID
	items      []Item
	requested  float64
	quote      pricing.DeliveryQuote
	status     Status
	placedAt   time.Time
	promisedAt time.Time
}

func NewOrder(userID uuid.UUID, items []Item, requestedHours float64, quote pricing.DeliveryQuote, placedAt time.Time) (*Order, error) {
	if len(items) == 0 {
		return nil, ErrEmptyOrder
	}
	for _, it := range items {
		if it.SKU == "" {
			return nil, ErrInvalidItemRef
		}
	}

	promisedAt := placedAt.Add(time.Duration(quote.Hours * float64(time.Hour)))
	return &Order{
		id:         uuid.New(),
		userID:     userID,
		items:      items,
		requested:  requestedHours,
		quote:      quote,
		status:     StatusPlaced,
		placedAt:   placedAt,
		promisedAt: promisedAt,
	}, nil
}

func (o *Order) ID() uuid.UUID                { return o.id }
func (o *Order) UserID() uuid.UUID            { return o.userID }
func (o *Order) Items() []Item                { return o.items }
func (o *Order) Quote() pricing.DeliveryQuote { return o.quote }
func (o *Order) RequestedHours() float64      { return o.requested }
func (o *Order) Status() Status               { return o.status }
func (o *Order) PlacedAt() time.Time          { return o.placedAt }
func (o *Order) PromisedAt() time.Time        { return o.promisedAt }
