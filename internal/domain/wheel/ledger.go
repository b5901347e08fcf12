package wheel

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Limits struct {
	Daily  decimal.Decimal
	Weekly decimal.Decimal
}

func NewLimits(daily, weekly decimal.Decimal) (Limits, error) {
	if !daily.IsPositive() || !weekly.IsPositive() {
		return Limits{}, fmt.Errorf("%w: spend limits must be positive", ErrInvalidConfiguration)
	}
	return Limits{Daily: daily, Weekly: weekly}, nil
}

func DefaultLimits() Limits {
	return Limits{Daily: decimal.NewFromInt(1000), Weekly: decimal.NewFromInt(5000)}
}

// SpendLedger tracks responsible-gaming totals for one player.
// LastPlayDate is a civil date: only its year, month and day are read.
type SpendLedger struct {
	DailySpend    decimal.Decimal
	WeeklySpend   decimal.Decimal
	LastPlayDate  *time.Time
	LifetimeSpins int
}

func (l SpendLedger) PlayedToday(now time.Time) bool {
	if l.LastPlayDate == nil {
		return false
	}
	ly, lm, ld := l.LastPlayDate.Date()
	ny, nm, nd := now.Date()
	return ly == ny && lm == nm && ld == nd
}

func (l SpendLedger) PlayedThisWeek(now time.Time) bool {
	if l.LastPlayDate == nil {
		return false
	}
	ly, lw := civilDate(*l.LastPlayDate, now.Location()).ISOWeek()
	ny, nw := now.ISOWeek()
	return ly == ny && lw == nw
}

// Normalize zeroes the daily total when the last play was on another day,
// and the weekly total when it was in another ISO week.
func (l SpendLedger) Normalize(now time.Time) SpendLedger {
	out := l
	if !l.PlayedToday(now) {
		out.DailySpend = decimal.Zero
	}
	if !l.PlayedThisWeek(now) {
		out.WeeklySpend = decimal.Zero
	}
	return out
}

// Record applies one settled wager to the ledger.
func (l SpendLedger) Record(wager decimal.Decimal, now time.Time) SpendLedger {
	out := l.Normalize(now)
	out.DailySpend = out.DailySpend.Add(wager)
	out.WeeklySpend = out.WeeklySpend.Add(wager)
	out.LifetimeSpins++
	today := startOfDay(now)
	out.LastPlayDate = &today
	return out
}

type LimitReason string

const (
	ReasonDailyLimit  LimitReason = "daily limit"
	ReasonWeeklyLimit LimitReason = "weekly limit"
)

type LimitDecision struct {
	Allowed   bool
	Reason    LimitReason
	Limit     decimal.Decimal
	Spent     decimal.Decimal
	ResetsAt  time.Time
	CheckedAt time.Time
}

func (d LimitDecision) Err() error {
	if d.Allowed {
		return nil
	}
	return &LimitError{Reason: d.Reason, Limit: d.Limit, Spent: d.Spent, ResetsAt: d.ResetsAt, CheckedAt: d.CheckedAt}
}

// LimitError reports which cap a wager would breach and when it resets.
type LimitError struct {
	Reason   LimitReason
	Limit    decimal.Decimal
	Spent    decimal.Decimal
	ResetsAt time.Time
	// CheckedAt is the clock reading the decision was made against.
	CheckedAt time.Time
}

func (e *LimitError) Error() string {
	return fmt.Sprintf("%s exceeded: spent %s of %s, resets at %s",
		e.Reason, e.Spent.StringFixed(2), e.Limit.StringFixed(2), e.ResetsAt.Format(time.RFC3339))
}

// RetryAfter is how long until the breached cap resets, measured from CheckedAt.
func (e *LimitError) RetryAfter() time.Duration {
	return max(e.ResetsAt.Sub(e.CheckedAt), 0)
}

func (e *LimitError) Is(target error) bool {
	return target == ErrLimitExceeded
}

// CheckSpendingLimits decides whether wager fits under both caps. Daily is checked first.
func CheckSpendingLimits(ledger SpendLedger, wager decimal.Decimal, limits Limits, now time.Time) LimitDecision {
	current := ledger.Normalize(now)

	if current.DailySpend.Add(wager).GreaterThan(limits.Daily) {
		return LimitDecision{
			Reason:    ReasonDailyLimit,
			Limit:     limits.Daily,
			Spent:     current.DailySpend,
			ResetsAt:  NextDailyReset(now),
			CheckedAt: now,
		}
	}
	if current.WeeklySpend.Add(wager).GreaterThan(limits.Weekly) {
		return LimitDecision{
			Reason:    ReasonWeeklyLimit,
			Limit:     limits.Weekly,
			Spent:     current.WeeklySpend,
			ResetsAt:  NextWeeklyReset(now),
			CheckedAt: now,
		}
	}
	return LimitDecision{Allowed: true}
}

// Remaining returns how much may still be wagered today and this week.
func (l Limits) Remaining(ledger SpendLedger, now time.Time) (daily, weekly decimal.Decimal) {
	current := ledger.Normalize(now)
	daily = decimal.Max(l.Daily.Sub(current.DailySpend), decimal.Zero)
	weekly = decimal.Max(l.Weekly.Sub(current.WeeklySpend), decimal.Zero)
	return daily, weekly
}

func NextDailyReset(now time.Time) time.Time {
	return startOfDay(now).AddDate(0, 0, 1)
}

// NextWeeklyReset is the next Monday midnight in now's location.
func NextWeeklyReset(now time.Time) time.Time {
	isoWeekday := int(now.Weekday())
	if isoWeekday == 0 {
		isoWeekday = 7
	}
	return startOfDay(now).AddDate(0, 0, 8-isoWeekday)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func civilDate(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, loc)
}
