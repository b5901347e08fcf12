package wheel

import (
	"time"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type SpinResult struct {
	Segment             Segment
	Tier                LoyaltyTier
	WagerAmount         decimal.Decimal
	GrossWinnings       decimal.Decimal
	LoyaltyBonusApplied decimal.Decimal
	FinalWinnings       decimal.Decimal
	NetWinnings         decimal.Decimal
}

// SpinRecord is one entry of the append-only spin history.
type SpinRecord struct {
	SequenceNumber int
	Result         SpinResult
	Draw           float64
	Timestamp      time.Time
}

// ResolveOutcome walks the segments in order and returns the first whose
// cumulative probability reaches u. If rounding leaves the cumulative sum
// short of u, the last segment is returned.
func ResolveOutcome(w Wheel, u float64) Segment {
	cumulative := 0.0
	for _, s := range w.segments {
		cumulative += s.Probability
		if u <= cumulative {
			return s
		}
	}
	return w.segments[len(w.segments)-1]
}

// Settle computes the payout for a wager landing on segment. The loyalty
// bonus applies to winning segments only. Amounts are rounded to cents.
func Settle(segment Segment, wager decimal.Decimal, tier LoyaltyTier) SpinResult {
	gross := wager.Mul(segment.Multiplier).Round(2)

	bonus := decimal.Zero
	if segment.IsWin() {
		bonus = gross.Mul(tier.BonusPercent).Div(hundred).Round(2)
	}

	final := gross.Add(bonus)
	return SpinResult{
		Segment:             segment,
		Tier:                tier,
		WagerAmount:         wager,
		GrossWinnings:       gross,
		LoyaltyBonusApplied: bonus,
		FinalWinnings:       final,
		NetWinnings:         final.Sub(wager),
	}
}
