package shared

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"washday/internal/infra/db"
	"washday/internal/pkg/errs"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrTransactionBegin   = errs.New("failed to begin transaction")
	ErrTransactionCommit  = errs.New("failed to commit transaction")
	ErrMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

const (
	defaultMaxRetries   = 3
	defaultInitialDelay = 100 * time.Millisecond
)

// TxRunner runs fn inside one database transaction, retrying on
// serialization failures and deadlocks.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error
}

// TxBeginner is the part of *pgxpool.Pool the runner needs.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

type PoolTxRunner struct {
	pool         TxBeginner
	maxRetries   uint64
	initialDelay time.Duration
}

func NewTxRunner(pool *pgxpool.Pool) TxRunner {
	return NewTxRunnerWith(pool, defaultMaxRetries, defaultInitialDelay)
}

func NewTxRunnerWith(pool TxBeginner, maxRetries uint64, initialDelay time.Duration) *PoolTxRunner {
	return &PoolTxRunner{pool: pool, maxRetries: maxRetries, initialDelay: initialDelay}
}

func (r *PoolTxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	attempts := 0
	op := func() error {
		attempts++
		err := r.runOnce(ctx, fn)
		if err != nil && !IsRetryableError(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	notify := func(err error, wait time.Duration) {
		slog.Warn("retrying transaction", "attempt", attempts, "wait", wait, "error", err)
	}

	err := backoff.RetryNotify(op, backoff.WithContext(r.policy(), ctx), notify)
	if err != nil && IsRetryableError(err) {
		slog.Error("transaction failed after max retries", "attempts", attempts, "error", err)
		return errs.Mark(err, ErrMaxRetriesExceeded)
	}
	return err
}

func (r *PoolTxRunner) policy() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialDelay
	b.MaxElapsedTime = 0
	return backoff.WithMaxRetries(b, r.maxRetries)
}

func (r *PoolTxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errs.Mark(err, ErrTransactionBegin)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			slog.Warn("failed to rollback transaction", "error", rbErr)
		}
	}()

	if err := fn(ctx, tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return errs.Mark(err, ErrTransactionCommit)
	}
	return nil
}

// IsRetryableError reports PostgreSQL serialization failures (40001) and
// deadlocks (40P01).
func IsRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == "40001" || pgErr.Code == "40P01"
}
