package wheel

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// RandomSource yields uniform draws on [0,1).
type RandomSource interface {
	Float64() float64
}

type State int

const (
	StateIdle State = iota
	StateWagerValidated
	StateOutcomeResolved
	StateSettlementApplied
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWagerValidated:
		return "wager_validated"
	case StateOutcomeResolved:
		return "outcome_resolved"
	case StateSettlementApplied:
		return "settlement_applied"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Wallet is the snapshot a spin reads and returns: balance plus ledger.
type Wallet struct {
	Balance decimal.Decimal
	Ledger  SpendLedger
}

type Engine struct {
	wheel  Wheel
	tiers  LoyaltyTiers
	limits Limits
}

func NewEngine(w Wheel, tiers LoyaltyTiers, limits Limits) *Engine {
	return &Engine{wheel: w, tiers: tiers, limits: limits}
}

func NewDefaultEngine() *Engine {
	w, err := NewWheel(DefaultSegments())
	if err != nil {
		panic(err)
	}
	tiers, err := NewLoyaltyTiers(DefaultLoyaltyTiers())
	if err != nil {
		panic(err)
	}
	return NewEngine(w, tiers, DefaultLimits())
}

func (e *Engine) Wheel() Wheel        { return e.wheel }
func (e *Engine) Tiers() LoyaltyTiers { return e.tiers }
func (e *Engine) Limits() Limits      { return e.limits }

func (e *Engine) CheckSpendingLimits(ledger SpendLedger, wager decimal.Decimal, now time.Time) LimitDecision {
	return CheckSpendingLimits(ledger, wager, e.limits, now)
}

func ValidateWager(wager decimal.Decimal) error {
	if !wager.IsPositive() {
		return fmt.Errorf("%w: wager must be positive", ErrInvalidInput)
	}
	if !wager.Round(2).Equal(wager) {
		return fmt.Errorf("%w: wager has more than two decimal places", ErrInvalidInput)
	}
	return nil
}

// Round drives one spin through Idle -> WagerValidated -> OutcomeResolved
// -> SettlementApplied -> Idle. A rejected step leaves the state unchanged.
type Round struct {
	engine  *Engine
	state   State
	wallet  Wallet
	wager   decimal.Decimal
	draw    float64
	segment Segment
}

func (e *Engine) NewRound(w Wallet, wager decimal.Decimal) *Round {
	return &Round{engine: e, state: StateIdle, wallet: w, wager: wager}
}

func (r *Round) State() State {
	return r.state
}

func (r *Round) Validate(now time.Time) error {
	if r.state != StateIdle {
		return fmt.Errorf("%w: validate from %s", ErrInvalidTransition, r.state)
	}
	if err := r.engine.checkAffordable(r.wallet, r.wager, now); err != nil {
		return err
	}
	r.state = StateWagerValidated
	return nil
}

func (r *Round) Resolve(rng RandomSource) (Segment, error) {
	if r.state != StateWagerValidated {
		return Segment{}, fmt.Errorf("%w: resolve from %s", ErrInvalidTransition, r.state)
	}
	u := rng.Float64()
	if math.IsNaN(u) || u < 0 || u > 1 {
		return Segment{}, fmt.Errorf("%w: random draw %v outside [0,1)", ErrInvalidInput, u)
	}
	r.draw = u
	r.segment = ResolveOutcome(r.engine.wheel, u)
	r.state = StateOutcomeResolved
	return r.segment, nil
}

func (r *Round) Settle(now time.Time) (SpinRecord, Wallet, error) {
	if r.state != StateOutcomeResolved {
		return SpinRecord{}, r.wallet, fmt.Errorf("%w: settle from %s", ErrInvalidTransition, r.state)
	}

	tier := r.engine.tiers.ResolveLoyaltyTier(r.wallet.Ledger.LifetimeSpins)
	result := Settle(r.segment, r.wager, tier)

	next := Wallet{
		Balance: r.wallet.Balance.Sub(r.wager).Add(result.FinalWinnings),
		Ledger:  r.wallet.Ledger.Record(r.wager, now),
	}
	record := SpinRecord{
		SequenceNumber: next.Ledger.LifetimeSpins,
		Result:         result,
		Draw:           r.draw,
		Timestamp:      now,
	}

	r.wallet = next
	r.state = StateSettlementApplied
	return record, next, nil
}

func (r *Round) Reset() {
	if r.state == StateSettlementApplied {
		r.state = StateIdle
	}
}

// Spin runs one full round. On rejection the input wallet is returned untouched.
func (e *Engine) Spin(w Wallet, wager decimal.Decimal, now time.Time, rng RandomSource) (SpinRecord, Wallet, error) {
	round := e.NewRound(w, wager)
	if err := round.Validate(now); err != nil {
		return SpinRecord{}, w, err
	}
	if _, err := round.Resolve(rng); err != nil {
		return SpinRecord{}, w, err
	}
	record, next, err := round.Settle(now)
	if err != nil {
		return SpinRecord{}, w, err
	}
	round.Reset()
	return record, next, nil
}

// ValidateBatch checks count x wager against the balance and both spend
// limits before any spin of the batch is drawn.
func (e *Engine) ValidateBatch(w Wallet, wager decimal.Decimal, count int, now time.Time) error {
	if count < 1 {
		return fmt.Errorf("%w: batch size must be at least 1", ErrInvalidInput)
	}
	if err := ValidateWager(wager); err != nil {
		return err
	}
	return e.checkAffordable(w, wager.Mul(decimal.NewFromInt(int64(count))), now)
}

// SpinBatch settles count spins strictly in sequence so that each spin's
// loyalty tier sees the lifetime count left by the previous one.
func (e *Engine) SpinBatch(w Wallet, wager decimal.Decimal, count int, now time.Time, rng RandomSource) ([]SpinRecord, Wallet, error) {
	if err := e.ValidateBatch(w, wager, count, now); err != nil {
		return nil, w, err
	}

	records := make([]SpinRecord, 0, count)
	current := w
	for range count {
		record, next, err := e.Spin(current, wager, now, rng)
		if err != nil {
			return records, current, err
		}
		records = append(records, record)
		current = next
	}
	return records, current, nil
}

func (e *Engine) checkAffordable(w Wallet, amount decimal.Decimal, now time.Time) error {
	if err := ValidateWager(amount); err != nil {
		return err
	}
	if w.Balance.LessThan(amount) {
		return fmt.Errorf("%w: balance %s is below %s", ErrInsufficientFunds, w.Balance.StringFixed(2), amount.StringFixed(2))
	}
	return e.CheckSpendingLimits(w.Ledger, amount, now).Err()
}
