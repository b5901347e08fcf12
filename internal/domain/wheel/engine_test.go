//go:build unit

package wheel_test

import (
	"errors"
	"testing"
	"time"

	"washday/internal/domain/wheel"
	"washday/internal/pkg/rng"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func today() *time.Time {
	d := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, eat)
	return &d
}

func TestCheckSpendingLimits(t *testing.T) {
	limits := wheel.DefaultLimits()

	t.Run("daily limit just breached", func(t *testing.T) {
		ledger := wheel.SpendLedger{
			DailySpend:   limits.Daily.Sub(dec("5")),
			WeeklySpend:  limits.Daily.Sub(dec("5")),
			LastPlayDate: today(),
		}

		decision := wheel.CheckSpendingLimits(ledger, dec("10"), limits, now)

		assert.False(t, decision.Allowed)
		assert.Equal(t, wheel.ReasonDailyLimit, decision.Reason)
		assert.True(t, decision.Limit.Equal(limits.Daily))
		assert.Equal(t, time.Date(2026, 10, 15, 0, 0, 0, 0, eat), decision.ResetsAt)
		assert.Equal(t, now, decision.CheckedAt)

		var limitErr *wheel.LimitError
		require.ErrorAs(t, decision.Err(), &limitErr)
		assert.Equal(t, 13*time.Hour+30*time.Minute, limitErr.RetryAfter())
	})

	t.Run("exactly at the daily limit is allowed", func(t *testing.T) {
		ledger := wheel.SpendLedger{DailySpend: dec("990"), WeeklySpend: dec("990"), LastPlayDate: today()}

		assert.True(t, wheel.CheckSpendingLimits(ledger, dec("10"), limits, now).Allowed)
	})

	t.Run("daily spend from yesterday is ignored", func(t *testing.T) {
		yesterday := today().AddDate(0, 0, -1)
		ledger := wheel.SpendLedger{DailySpend: dec("1000"), WeeklySpend: dec("1000"), LastPlayDate: &yesterday}

		assert.True(t, wheel.CheckSpendingLimits(ledger, dec("10"), limits, now).Allowed)
	})

	t.Run("weekly limit", func(t *testing.T) {
		monday := today().AddDate(0, 0, -2)
		ledger := wheel.SpendLedger{DailySpend: dec("0"), WeeklySpend: dec("4995"), LastPlayDate: &monday}

		decision := wheel.CheckSpendingLimits(ledger, dec("10"), limits, now)

		assert.False(t, decision.Allowed)
		assert.Equal(t, wheel.ReasonWeeklyLimit, decision.Reason)
		assert.Equal(t, time.Date(2026, 10, 19, 0, 0, 0, 0, eat), decision.ResetsAt)
	})

	t.Run("weekly spend from last week is ignored", func(t *testing.T) {
		lastWeek := today().AddDate(0, 0, -7)
		ledger := wheel.SpendLedger{WeeklySpend: dec("5000"), LastPlayDate: &lastWeek}

		assert.True(t, wheel.CheckSpendingLimits(ledger, dec("10"), limits, now).Allowed)
	})

	t.Run("daily is reported before weekly", func(t *testing.T) {
		ledger := wheel.SpendLedger{DailySpend: dec("1000"), WeeklySpend: dec("5000"), LastPlayDate: today()}

		decision := wheel.CheckSpendingLimits(ledger, dec("1"), limits, now)
		assert.Equal(t, wheel.ReasonDailyLimit, decision.Reason)
	})

	t.Run("decision error carries the limit", func(t *testing.T) {
		ledger := wheel.SpendLedger{DailySpend: dec("995"), LastPlayDate: today()}

		err := wheel.CheckSpendingLimits(ledger, dec("10"), limits, now).Err()
		require.ErrorIs(t, err, wheel.ErrLimitExceeded)

		var limitErr *wheel.LimitError
		require.True(t, errors.As(err, &limitErr))
		assert.Equal(t, wheel.ReasonDailyLimit, limitErr.Reason)
		assert.Contains(t, err.Error(), "daily limit exceeded")
	})
}

func TestNextWeeklyReset(t *testing.T) {
	sunday := time.Date(2026, 10, 18, 23, 59, 0, 0, eat)
	monday := time.Date(2026, 10, 19, 0, 0, 0, 0, eat)

	assert.Equal(t, monday, wheel.NextWeeklyReset(sunday))
	assert.Equal(t, monday.AddDate(0, 0, 7), wheel.NextWeeklyReset(monday))
}

func TestRemaining(t *testing.T) {
	limits := wheel.DefaultLimits()
	ledger := wheel.SpendLedger{DailySpend: dec("250"), WeeklySpend: dec("4900"), LastPlayDate: today()}

	daily, weekly := limits.Remaining(ledger, now)
	assert.True(t, daily.Equal(dec("750")))
	assert.True(t, weekly.Equal(dec("100")))
}

func TestRoundStateMachine(t *testing.T) {
	engine := wheel.NewDefaultEngine()
	wallet := wheel.Wallet{Balance: dec("100")}

	t.Run("happy path walks every state", func(t *testing.T) {
		round := engine.NewRound(wallet, dec("20"))
		assert.Equal(t, wheel.StateIdle, round.State())

		require.NoError(t, round.Validate(now))
		assert.Equal(t, wheel.StateWagerValidated, round.State())

		segment, err := round.Resolve(rng.NewSequence(0.85))
		require.NoError(t, err)
		assert.Equal(t, "x3", segment.ID)
		assert.Equal(t, wheel.StateOutcomeResolved, round.State())

		record, next, err := round.Settle(now)
		require.NoError(t, err)
		assert.Equal(t, wheel.StateSettlementApplied, round.State())
		assert.Equal(t, 1, record.SequenceNumber)
		assert.True(t, next.Balance.Equal(dec("140")))

		round.Reset()
		assert.Equal(t, wheel.StateIdle, round.State())
	})

	t.Run("out of order transitions are rejected", func(t *testing.T) {
		round := engine.NewRound(wallet, dec("20"))

		_, err := round.Resolve(rng.NewSequence(0.1))
		require.ErrorIs(t, err, wheel.ErrInvalidTransition)

		_, _, err = round.Settle(now)
		require.ErrorIs(t, err, wheel.ErrInvalidTransition)

		require.NoError(t, round.Validate(now))
		require.ErrorIs(t, round.Validate(now), wheel.ErrInvalidTransition)
	})

	t.Run("rejected wager stays idle", func(t *testing.T) {
		round := engine.NewRound(wallet, dec("200"))

		require.ErrorIs(t, round.Validate(now), wheel.ErrInsufficientFunds)
		assert.Equal(t, wheel.StateIdle, round.State())
	})

	t.Run("out of range draw is rejected", func(t *testing.T) {
		round := engine.NewRound(wallet, dec("20"))
		require.NoError(t, round.Validate(now))

		_, err := round.Resolve(rng.NewSequence(1.5))
		require.ErrorIs(t, err, wheel.ErrInvalidInput)
		assert.Equal(t, wheel.StateWagerValidated, round.State())
	})
}

func TestSpin(t *testing.T) {
	engine := wheel.NewDefaultEngine()

	t.Run("settles winnings and ledger", func(t *testing.T) {
		wallet := wheel.Wallet{
			Balance: dec("100"),
			Ledger:  wheel.SpendLedger{DailySpend: dec("30"), WeeklySpend: dec("80"), LastPlayDate: today(), LifetimeSpins: 200},
		}

		record, next, err := engine.Spin(wallet, dec("20"), now, rng.NewSequence(0.85))
		require.NoError(t, err)

		assert.Equal(t, "3x", record.Result.Segment.Label)
		assert.Equal(t, "Gold", record.Result.Tier.Name)
		assert.True(t, record.Result.FinalWinnings.Equal(dec("63")))
		assert.True(t, record.Result.NetWinnings.Equal(dec("43")))
		assert.Equal(t, 201, record.SequenceNumber)
		assert.Equal(t, now, record.Timestamp)

		want := wheel.Wallet{
			Balance: dec("143"),
			Ledger: wheel.SpendLedger{
				DailySpend:    dec("50"),
				WeeklySpend:   dec("100"),
				LastPlayDate:  today(),
				LifetimeSpins: 201,
			},
		}
		if diff := cmp.Diff(want, next, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
			t.Errorf("wallet mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("first play of the day resets daily spend", func(t *testing.T) {
		yesterday := today().AddDate(0, 0, -1)
		wallet := wheel.Wallet{
			Balance: dec("100"),
			Ledger:  wheel.SpendLedger{DailySpend: dec("700"), WeeklySpend: dec("700"), LastPlayDate: &yesterday},
		}

		_, next, err := engine.Spin(wallet, dec("10"), now, rng.NewSequence(0.3))
		require.NoError(t, err)

		assert.True(t, next.Ledger.DailySpend.Equal(dec("10")))
		assert.True(t, next.Ledger.WeeklySpend.Equal(dec("710")))
		assert.True(t, next.Balance.Equal(dec("90")))
	})

	t.Run("rejections leave wallet untouched", func(t *testing.T) {
		wallet := wheel.Wallet{Balance: dec("50"), Ledger: wheel.SpendLedger{DailySpend: dec("995"), LastPlayDate: today()}}

		tests := []struct {
			name  string
			wager string
			errIs error
		}{
			{name: "negative wager", wager: "-5", errIs: wheel.ErrInvalidInput},
			{name: "zero wager", wager: "0", errIs: wheel.ErrInvalidInput},
			{name: "sub-cent wager", wager: "1.005", errIs: wheel.ErrInvalidInput},
			{name: "over balance", wager: "60", errIs: wheel.ErrInsufficientFunds},
			{name: "over daily limit", wager: "10", errIs: wheel.ErrLimitExceeded},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, next, err := engine.Spin(wallet, dec(tt.wager), now, rng.NewSequence(0.1))
				require.ErrorIs(t, err, tt.errIs)
				assert.Equal(t, wallet, next)
			})
		}
	})
}

func TestSpinBatch(t *testing.T) {
	engine := wheel.NewDefaultEngine()

	t.Run("tier lookup sees previous settlement", func(t *testing.T) {
		wallet := wheel.Wallet{Balance: dec("100"), Ledger: wheel.SpendLedger{LifetimeSpins: 49}}

		records, next, err := engine.SpinBatch(wallet, dec("20"), 2, now, rng.NewSequence(0.85, 0.85))
		require.NoError(t, err)
		require.Len(t, records, 2)

		assert.Equal(t, "Bronze", records[0].Result.Tier.Name)
		assert.True(t, records[0].Result.LoyaltyBonusApplied.IsZero())
		assert.Equal(t, "Silver", records[1].Result.Tier.Name)
		assert.True(t, records[1].Result.LoyaltyBonusApplied.Equal(dec("1.2")))

		assert.Equal(t, []int{50, 51}, []int{records[0].SequenceNumber, records[1].SequenceNumber})
		assert.Equal(t, 51, next.Ledger.LifetimeSpins)
		assert.True(t, next.Balance.Equal(dec("100").Add(dec("40")).Add(dec("41.2"))))
	})

	t.Run("total cost is validated up front", func(t *testing.T) {
		tests := []struct {
			name   string
			wallet wheel.Wallet
			count  int
			errIs  error
		}{
			{
				name:   "balance covers some spins but not the batch",
				wallet: wheel.Wallet{Balance: dec("100")},
				count:  6,
				errIs:  wheel.ErrInsufficientFunds,
			},
			{
				name:   "batch would cross the daily limit",
				wallet: wheel.Wallet{Balance: dec("10000"), Ledger: wheel.SpendLedger{DailySpend: dec("900"), LastPlayDate: today()}},
				count:  6,
				errIs:  wheel.ErrLimitExceeded,
			},
			{
				name:   "empty batch",
				wallet: wheel.Wallet{Balance: dec("100")},
				count:  0,
				errIs:  wheel.ErrInvalidInput,
			},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				records, next, err := engine.SpinBatch(tt.wallet, dec("20"), tt.count, now, rng.NewSequence(0.3))
				require.ErrorIs(t, err, tt.errIs)
				assert.Empty(t, records)
				assert.Equal(t, tt.wallet, next)
			})
		}
	})

	t.Run("seeded batches are reproducible", func(t *testing.T) {
		wallet := wheel.Wallet{Balance: dec("1000")}

		a, _, err := engine.SpinBatch(wallet, dec("10"), 20, now, rng.NewSeeded(99))
		require.NoError(t, err)
		b, _, err := engine.SpinBatch(wallet, dec("10"), 20, now, rng.NewSeeded(99))
		require.NoError(t, err)

		for i := range a {
			assert.Equal(t, a[i].Result.Segment.ID, b[i].Result.Segment.ID)
		}
	})
}
