package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"washday/internal/domain/wheel"
	"washday/internal/infra"
	"washday/internal/pkg/clock"
	"washday/internal/pkg/errs"
	"washday/internal/pkg/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const archiveTimeout = 2 * time.Second

type SpinOutcome struct {
	Record wheel.SpinRecord
	Wallet wheel.Wallet
}

type BatchOutcome struct {
	Records   []wheel.SpinRecord
	Wallet    wheel.Wallet
	Requested int
	// Interrupted is set when fewer than Requested spins settled. The
	// settled prefix is already debited and persisted.
	Interrupted bool
}

type SpinCommands interface {
	Spin(ctx context.Context, playerID uuid.UUID, wager decimal.Decimal) (*SpinOutcome, error)
	SpinBatch(ctx context.Context, playerID uuid.UUID, wager decimal.Decimal, count int) (*BatchOutcome, error)
	Credit(ctx context.Context, playerID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}

type SpinConfig struct {
	MaxBatchSize int
}

type spinUseCaseImpl struct {
	engine  *wheel.Engine
	wallets WalletStore
	locker  WalletLocker
	archive SpinArchive
	rng     wheel.RandomSource
	clock   clock.Clock
	metrics *metrics.Metrics
	cfg     SpinConfig
}

func NewSpinUseCase(
	engine *wheel.Engine,
	wallets WalletStore,
	locker WalletLocker,
	archive SpinArchive,
	rng wheel.RandomSource,
	clock clock.Clock,
	m *metrics.Metrics,
	cfg SpinConfig,
) SpinCommands {
	if cfg.MaxBatchSize <= 0 {
		cfg.MaxBatchSize = 50
	}
	return &spinUseCaseImpl{
		engine:  engine,
		wallets: wallets,
		locker:  locker,
		archive: archive,
		rng:     rng,
		clock:   clock,
		metrics: m,
		cfg:     cfg,
	}
}

func (u *spinUseCaseImpl) Spin(ctx context.Context, playerID uuid.UUID, wager decimal.Decimal) (*SpinOutcome, error) {
	if err := wheel.ValidateWager(wager); err != nil {
		u.reject("invalid wager")
		return nil, errs.Mark(err, errs.ErrInvalidWager)
	}

	release, err := u.lock(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer u.unlock(ctx, playerID, release)

	wallet, err := u.wallets.Load(ctx, playerID)
	if err != nil {
		return nil, errs.WrapMark(err, errs.ErrStoreOperationFailed, "load wallet")
	}

	record, next, err := u.settle(ctx, playerID, wallet, wager, u.clock.Now())
	if err != nil {
		return nil, err
	}

	return &SpinOutcome{Record: record, Wallet: next}, nil
}

// SpinBatch validates count x wager up front, then settles the spins one at
// a time so each sees the loyalty tier left by the previous one. Every spin
// is persisted on its own. Once one spin has settled, any later failure ends
// the batch and returns the settled prefix marked Interrupted.
func (u *spinUseCaseImpl) SpinBatch(ctx context.Context, playerID uuid.UUID, wager decimal.Decimal, count int) (*BatchOutcome, error) {
	if count < 1 || count > u.cfg.MaxBatchSize {
		u.reject("invalid batch size")
		return nil, errs.Mark(errs.New("batch size out of range"), errs.ErrInvalidWager)
	}
	if err := wheel.ValidateWager(wager); err != nil {
		u.reject("invalid wager")
		return nil, errs.Mark(err, errs.ErrInvalidWager)
	}

	release, err := u.lock(ctx, playerID)
	if err != nil {
		return nil, err
	}
	defer u.unlock(ctx, playerID, release)

	wallet, err := u.wallets.Load(ctx, playerID)
	if err != nil {
		return nil, errs.WrapMark(err, errs.ErrStoreOperationFailed, "load wallet")
	}

	now := u.clock.Now()
	if err := u.engine.ValidateBatch(wallet, wager, count, now); err != nil {
		return nil, u.mapEngineErr(err)
	}

	out := &BatchOutcome{
		Records:   make([]wheel.SpinRecord, 0, count),
		Wallet:    wallet,
		Requested: count,
	}
	for range count {
		if ctx.Err() != nil {
			out.Interrupted = true
			slog.Info("spin batch interrupted",
				"player_id", playerID,
				"settled", len(out.Records),
				"requested", count)
			break
		}

		record, next, err := u.settle(ctx, playerID, out.Wallet, wager, now)
		if err != nil {
			if len(out.Records) == 0 {
				return nil, err
			}
			out.Interrupted = true
			slog.Warn("spin batch stopped after partial settlement",
				"player_id", playerID,
				"settled", len(out.Records),
				"requested", count,
				"error", err.Error())
			break
		}
		out.Records = append(out.Records, record)
		out.Wallet = next
	}

	return out, nil
}

func (u *spinUseCaseImpl) Credit(ctx context.Context, playerID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() || !amount.Round(2).Equal(amount) {
		return decimal.Zero, errs.ErrInvalidCredit
	}

	balance, err := u.wallets.Credit(ctx, playerID, amount)
	if err != nil {
		return decimal.Zero, errs.WrapMark(err, errs.ErrStoreOperationFailed, "credit wallet")
	}

	u.metrics.WalletCredits.Inc()
	slog.Info("wallet credited",
		"player_id", playerID,
		"amount", amount.StringFixed(2),
		"balance", balance.StringFixed(2))
	return balance, nil
}

// settle runs one spin on the engine and persists it. The caller holds the lock.
func (u *spinUseCaseImpl) settle(ctx context.Context, playerID uuid.UUID, wallet wheel.Wallet, wager decimal.Decimal, now time.Time) (wheel.SpinRecord, wheel.Wallet, error) {
	record, next, err := u.engine.Spin(wallet, wager, now, u.rng)
	if err != nil {
		return wheel.SpinRecord{}, wallet, u.mapEngineErr(err)
	}

	balance, err := u.wallets.ApplySpin(ctx, playerID, wallet, record, next)
	if err != nil {
		if infra.IsKind(err, infra.KindConflict) {
			return wheel.SpinRecord{}, wallet, errs.Mark(err, errs.ErrWalletConflict)
		}
		return wheel.SpinRecord{}, wallet, errs.WrapMark(err, errs.ErrStoreOperationFailed, "apply spin")
	}
	next.Balance = balance

	u.metrics.Spins.WithLabelValues(record.Result.Segment.ID).Inc()
	u.archiveSpin(ctx, playerID, record)

	return record, next, nil
}

// archiveSpin copies the record to PostgreSQL. Failures are logged and
// counted; the wallet in Redis stays authoritative.
func (u *spinUseCaseImpl) archiveSpin(ctx context.Context, playerID uuid.UUID, record wheel.SpinRecord) {
	if u.archive == nil {
		return
	}
	actx, cancel := context.WithTimeout(context.WithoutCancel(ctx), archiveTimeout)
	defer cancel()

	if err := u.archive.Archive(actx, playerID, record); err != nil {
		u.metrics.ArchiveFailures.Inc()
		slog.Warn("failed to archive spin",
			"player_id", playerID,
			"sequence", record.SequenceNumber,
			"error", err.Error())
	}
}

func (u *spinUseCaseImpl) mapEngineErr(err error) error {
	var limitErr *wheel.LimitError
	switch {
	case errors.As(err, &limitErr):
		u.reject(string(limitErr.Reason))
		return errs.Mark(err, errs.ErrLimitExceeded)
	case errs.Is(err, wheel.ErrInsufficientFunds):
		u.reject("insufficient funds")
		return errs.Mark(err, errs.ErrInsufficientFunds)
	case errs.Is(err, wheel.ErrInvalidInput):
		u.reject("invalid wager")
		return errs.Mark(err, errs.ErrInvalidWager)
	default:
		return errs.Wrap(err, "spin engine")
	}
}

func (u *spinUseCaseImpl) lock(ctx context.Context, playerID uuid.UUID) (func(context.Context) error, error) {
	release, err := u.locker.Acquire(ctx, playerID)
	if err != nil {
		if infra.IsKind(err, infra.KindLocked) {
			u.reject("wallet busy")
			return nil, errs.Mark(err, errs.ErrWalletBusy)
		}
		return nil, errs.WrapMark(err, errs.ErrStoreOperationFailed, "acquire wallet lock")
	}
	return release, nil
}

func (u *spinUseCaseImpl) unlock(ctx context.Context, playerID uuid.UUID, release func(context.Context) error) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		slog.Warn("failed to release wallet lock", "player_id", playerID, "error", err.Error())
	}
}

func (u *spinUseCaseImpl) reject(reason string) {
	u.metrics.SpinRejections.WithLabelValues(reason).Inc()
}
