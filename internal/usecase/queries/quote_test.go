//go:build unit

package queries_test

import (
	"testing"

	"washday/internal/domain/pricing"
	"washday/internal/domain/wheel"
	"washday/internal/pkg/errs"
	"washday/internal/pkg/metrics"
	"washday/internal/usecase/queries"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteQueries_Preview(t *testing.T) {
	six := 6.0
	items := []pricing.CartItem{
		{ID: "shirt", Price: decimal.NewFromInt(200), Quantity: 4, ProcessingTimeHours: &six},
		{ID: "duvet", Price: decimal.NewFromInt(400), Quantity: 1},
	}

	t.Run("requested window shorter than lead time is stretched", func(t *testing.T) {
		m := metrics.NewNop()
		q := queries.NewQuoteQueries(pricing.NewDefaultEngine(), "KES", m)

		view, err := q.Preview(items, 6)

		require.NoError(t, err)
		assert.InDelta(t, 6, view.RequestedHours, 0)
		assert.InDelta(t, 24, view.EffectiveHours, 0)
		assert.True(t, view.Multiplier.Equal(decimal.RequireFromString("1.3")))
		assert.Equal(t, "1560.00", view.FinalTotal.StringFixed(2))
		assert.Equal(t, "Normal", view.SpeedLabel)
		assert.Equal(t, "KES", view.Currency)
		assert.InDelta(t, 1, testutil.ToFloat64(m.Quotes.WithLabelValues("Normal")), 0)
	})

	t.Run("empty cart quotes the floor", func(t *testing.T) {
		q := queries.NewQuoteQueries(pricing.NewDefaultEngine(), "KES", metrics.NewNop())

		view, err := q.Preview(nil, 0)

		require.NoError(t, err)
		assert.InDelta(t, 6, view.EffectiveHours, 0)
		assert.Equal(t, "Express", view.SpeedLabel)
		assert.True(t, view.FinalTotal.IsZero())
	})

	t.Run("invalid item", func(t *testing.T) {
		q := queries.NewQuoteQueries(pricing.NewDefaultEngine(), "KES", metrics.NewNop())

		_, err := q.Preview([]pricing.CartItem{{ID: "x", Price: decimal.NewFromInt(1), Quantity: 0}}, 12)

		assert.ErrorIs(t, err, errs.ErrInvalidOrder)
		assert.ErrorIs(t, err, pricing.ErrInvalidInput)
	})

	t.Run("curve exposes anchors", func(t *testing.T) {
		q := queries.NewQuoteQueries(pricing.NewDefaultEngine(), "KES", metrics.NewNop())
		assert.Len(t, q.Curve(), len(pricing.DefaultAnchors()))
	})
}

func TestWheelQueries_Describe(t *testing.T) {
	view := queries.NewWheelQueries(wheel.NewDefaultEngine(), "KES").Describe()

	require.Len(t, view.Segments, 8)
	assert.Equal(t, "x2", view.Segments[0].ID)
	assert.Equal(t, "emerald", view.Segments[0].ColorToken)
	require.Len(t, view.Tiers, 4)
	assert.Equal(t, "Bronze", view.Tiers[0].Name)
	assert.Equal(t, "1000", view.DailyLimit.String())
	assert.Equal(t, "5000", view.WeeklyLimit.String())
	assert.InDelta(t, 1.34, view.ExpectedMultiplier, 1e-9)
}
