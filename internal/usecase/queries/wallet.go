package queries

import (
	"context"

	"washday/internal/domain/wheel"
	"washday/internal/pkg/clock"
	"washday/internal/pkg/errs"

	"github.com/google/uuid"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type WalletReadStore interface {
	Load(ctx context.Context, playerID uuid.UUID) (wheel.Wallet, error)
	History(ctx context.Context, playerID uuid.UUID, limit int) ([]wheel.SpinRecord, error)
}

type WalletQueries interface {
	GetWallet(ctx context.Context, playerID uuid.UUID) (*WalletView, error)
	History(ctx context.Context, playerID uuid.UUID, limit int) ([]SpinView, error)
	// Snapshot renders a wallet the caller already holds, e.g. right after a spin.
	Snapshot(playerID uuid.UUID, w wheel.Wallet) *WalletView
}

type walletQueriesImpl struct {
	store  WalletReadStore
	engine *wheel.Engine
	clock  clock.Clock
}

func NewWalletQueries(store WalletReadStore, engine *wheel.Engine, clock clock.Clock) WalletQueries {
	return &walletQueriesImpl{store: store, engine: engine, clock: clock}
}

// GetWallet reports spend totals as of now, so a stale daily or weekly
// total from an earlier period reads as zero.
func (q *walletQueriesImpl) GetWallet(ctx context.Context, playerID uuid.UUID) (*WalletView, error) {
	w, err := q.store.Load(ctx, playerID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}
	return BuildWalletView(playerID, w, q.engine, q.clock), nil
}

func (q *walletQueriesImpl) Snapshot(playerID uuid.UUID, w wheel.Wallet) *WalletView {
	return BuildWalletView(playerID, w, q.engine, q.clock)
}

func (q *walletQueriesImpl) History(ctx context.Context, playerID uuid.UUID, limit int) ([]SpinView, error) {
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	records, err := q.store.History(ctx, playerID, limit)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreOperationFailed)
	}

	out := make([]SpinView, 0, len(records))
	for _, r := range records {
		out = append(out, ToSpinView(r))
	}
	return out, nil
}

func BuildWalletView(playerID uuid.UUID, w wheel.Wallet, engine *wheel.Engine, clk clock.Clock) *WalletView {
	now := clk.Now()
	ledger := w.Ledger.Normalize(now)
	daily, weekly := engine.Limits().Remaining(w.Ledger, now)

	view := &WalletView{
		PlayerID:        playerID,
		Balance:         w.Balance,
		DailySpend:      ledger.DailySpend,
		WeeklySpend:     ledger.WeeklySpend,
		DailyRemaining:  daily,
		WeeklyRemaining: weekly,
		DailyResetsAt:   wheel.NextDailyReset(now),
		WeeklyResetsAt:  wheel.NextWeeklyReset(now),
		LifetimeSpins:   ledger.LifetimeSpins,
		Tier:            toTierView(engine.Tiers().ResolveLoyaltyTier(ledger.LifetimeSpins)),
	}
	if ledger.LastPlayDate != nil {
		d := ledger.LastPlayDate.Format("2006-01-02")
		view.LastPlayDate = &d
	}
	if next, ok := engine.Tiers().Next(ledger.LifetimeSpins); ok {
		tv := toTierView(next)
		view.NextTier = &tv
		view.SpinsToNextTier = next.MinSpins - ledger.LifetimeSpins
	}
	return view
}

func ToSpinView(r wheel.SpinRecord) SpinView {
	return SpinView{
		SequenceNumber:      r.SequenceNumber,
		SegmentID:           r.Result.Segment.ID,
		SegmentLabel:        r.Result.Segment.Label,
		Multiplier:          r.Result.Segment.Multiplier,
		Tier:                r.Result.Tier.Name,
		WagerAmount:         r.Result.WagerAmount,
		GrossWinnings:       r.Result.GrossWinnings,
		LoyaltyBonusApplied: r.Result.LoyaltyBonusApplied,
		FinalWinnings:       r.Result.FinalWinnings,
		NetWinnings:         r.Result.NetWinnings,
		Timestamp:           r.Timestamp,
	}
}
