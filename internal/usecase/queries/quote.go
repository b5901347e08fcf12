package queries

import (
	"washday/internal/domain/pricing"
	"washday/internal/pkg/errs"
	"washday/internal/pkg/metrics"
)

// QuoteQueries prices a cart without persisting anything.
type QuoteQueries interface {
	Preview(items []pricing.CartItem, requestedHours float64) (*QuoteView, error)
	Curve() []pricing.PricePoint
}

type quoteQueriesImpl struct {
	engine   *pricing.Engine
	currency string
	metrics  *metrics.Metrics
}

func NewQuoteQueries(engine *pricing.Engine, currency string, m *metrics.Metrics) QuoteQueries {
	return &quoteQueriesImpl{engine: engine, currency: currency, metrics: m}
}

// Preview quotes the cart. A zero window asks for the fastest delivery the
// cart allows.
func (q *quoteQueriesImpl) Preview(items []pricing.CartItem, requestedHours float64) (*QuoteView, error) {
	quote, err := q.engine.Quote(items, requestedHours)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrInvalidOrder)
	}
	q.metrics.Quotes.WithLabelValues(quote.SpeedLabel.String()).Inc()

	return &QuoteView{
		RequestedHours: requestedHours,
		EffectiveHours: quote.Hours,
		MinLeadHours:   quote.MinimumLeadTimeHours,
		Multiplier:     quote.Multiplier,
		SpeedLabel:     quote.SpeedLabel.String(),
		BaseTotal:      quote.BaseTotal,
		FinalTotal:     quote.FinalTotal,
		Currency:       q.currency,
	}, nil
}

func (q *quoteQueriesImpl) Curve() []pricing.PricePoint {
	return q.engine.Config().Anchors
}
