package commands

import (
	"context"
	"time"

	"washday/internal/domain/order"
	"washday/internal/domain/wheel"
	"washday/internal/infra/db"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Write-side snapshots prevent dependency on Read-side query types (CQRS separation)
type IdempotencyRecord struct {
	Key           uuid.UUID
	UserID        uuid.UUID
	Status        string
	RequestHash   string
	ResultOrderID *uuid.UUID
	ExpiresAt     time.Time
}

const (
	idempotencyStatusProcessing = "processing"
	idempotencyStatusCompleted  = "completed"
)

type OrderRepository interface {
	Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error)
}

type IdempotencyRepository interface {
	TryInsert(ctx context.Context, key uuid.UUID, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error)
	Get(ctx context.Context, key uuid.UUID, userID uuid.UUID) (*IdempotencyRecord, error)
	UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, userID uuid.UUID, resultOrderID uuid.UUID) error
	Release(ctx context.Context, key uuid.UUID, userID uuid.UUID) error
}

type ExpiredKeyDeleter interface {
	DeleteExpired(ctx context.Context) (int64, error)
}

// WalletStore owns balances, spend ledgers and spin history.
type WalletStore interface {
	Load(ctx context.Context, playerID uuid.UUID) (wheel.Wallet, error)
	ApplySpin(ctx context.Context, playerID uuid.UUID, prev wheel.Wallet, rec wheel.SpinRecord, next wheel.Wallet) (decimal.Decimal, error)
	Credit(ctx context.Context, playerID uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error)
}

// WalletLocker grants exclusive access to one player's wallet.
type WalletLocker interface {
	Acquire(ctx context.Context, playerID uuid.UUID) (func(context.Context) error, error)
}

type SpinArchive interface {
	Archive(ctx context.Context, playerID uuid.UUID, rec wheel.SpinRecord) error
}
