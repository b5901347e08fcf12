package queries

import (
	"washday/internal/domain/wheel"
)

type WheelQueries interface {
	Describe() *WheelView
}

type wheelQueriesImpl struct {
	engine   *wheel.Engine
	currency string
}

func NewWheelQueries(engine *wheel.Engine, currency string) WheelQueries {
	return &wheelQueriesImpl{engine: engine, currency: currency}
}

func (q *wheelQueriesImpl) Describe() *WheelView {
	segments := q.engine.Wheel().Segments()
	view := &WheelView{
		Segments:           make([]SegmentView, 0, len(segments)),
		Tiers:              make([]TierView, 0, len(q.engine.Tiers().All())),
		DailyLimit:         q.engine.Limits().Daily,
		WeeklyLimit:        q.engine.Limits().Weekly,
		ExpectedMultiplier: q.engine.Wheel().ExpectedMultiplier(),
		Currency:           q.currency,
	}
	for _, s := range segments {
		view.Segments = append(view.Segments, SegmentView{
			ID:          s.ID,
			Label:       s.Label,
			Multiplier:  s.Multiplier,
			ColorToken:  s.ColorToken,
			Probability: s.Probability,
		})
	}
	for _, t := range q.engine.Tiers().All() {
		view.Tiers = append(view.Tiers, toTierView(t))
	}
	return view
}

func toTierView(t wheel.LoyaltyTier) TierView {
	return TierView{Name: t.Name, MinSpins: t.MinSpins, BonusPercent: t.BonusPercent}
}
