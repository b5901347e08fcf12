package repository

import (
	"context"
	"time"

	"washday/internal/infra"
	"washday/internal/infra/db"
	"washday/internal/infra/readstore"
	"washday/internal/pkg/pgconv"
	"washday/internal/usecase/commands"

	"github.com/google/uuid"
)

const (
	tryInsertIdempotencyKeySQL = `
INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at)
VALUES ($1, $2, $3, $4, 'processing', $5)
ON CONFLICT (key, user_id) DO UPDATE
    SET endpoint = EXCLUDED.endpoint,
        request_hash = EXCLUDED.request_hash,
        status = 'processing',
        result_order_id = NULL,
        expires_at = EXCLUDED.expires_at,
        updated_at = now()
    WHERE idempotency_keys.expires_at < now()`

	completeIdempotencyKeySQL = `
UPDATE idempotency_keys
SET status = 'completed', result_order_id = $3, updated_at = now()
WHERE key = $1 AND user_id = $2`

	releaseIdempotencyKeySQL = `
DELETE FROM idempotency_keys
WHERE key = $1 AND user_id = $2 AND status = 'processing'`

	deleteExpiredIdempotencyKeysSQL = `
DELETE FROM idempotency_keys WHERE expires_at < now()`
)

type IdempotencyRepository struct {
	db    db.DBTX
	reads *readstore.IdempotencyReadStore
}

func NewIdempotencyRepository(pool db.DBTX) *IdempotencyRepository {
	return &IdempotencyRepository{
		db:    pool,
		reads: readstore.NewIdempotencyReadStore(pool),
	}
}

// TryInsert claims key for userID and reports whether the claim succeeded.
// An existing unexpired row is left as is so the caller can inspect it; an
// expired one is taken over.
func (r *IdempotencyRepository) TryInsert(ctx context.Context, key uuid.UUID, userID uuid.UUID, endpoint, requestHash string, expiresAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx, tryInsertIdempotencyKeySQL,
		pgconv.UUIDToPgtype(key),
		pgconv.UUIDToPgtype(userID),
		endpoint,
		requestHash,
		pgconv.TimeToPgtype(expiresAt),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to try insert idempotency key", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Get returns the write-side snapshot of an unexpired key.
func (r *IdempotencyRepository) Get(ctx context.Context, key uuid.UUID, userID uuid.UUID) (*commands.IdempotencyRecord, error) {
	view, err := r.reads.Get(ctx, key, userID)
	if err != nil {
		return nil, err
	}

	return &commands.IdempotencyRecord{
		Key:           view.Key,
		UserID:        view.UserID,
		Status:        view.Status,
		RequestHash:   view.RequestHash,
		ResultOrderID: view.ResultOrderID,
		ExpiresAt:     view.ExpiresAt,
	}, nil
}

func (r *IdempotencyRepository) UpdateStatusCompleted(ctx context.Context, tx db.DBTX, key uuid.UUID, userID uuid.UUID, resultOrderID uuid.UUID) error {
	_, err := tx.Exec(ctx, completeIdempotencyKeySQL,
		pgconv.UUIDToPgtype(key),
		pgconv.UUIDToPgtype(userID),
		pgconv.UUIDToPgtype(resultOrderID),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to update idempotency key status", err)
	}

	return nil
}

// Release drops a claim that never completed so the client may retry.
func (r *IdempotencyRepository) Release(ctx context.Context, key uuid.UUID, userID uuid.UUID) error {
	_, err := r.db.Exec(ctx, releaseIdempotencyKeySQL, pgconv.UUIDToPgtype(key), pgconv.UUIDToPgtype(userID))
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := r.db.Exec(ctx, deleteExpiredIdempotencyKeysSQL)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}

	return tag.RowsAffected(), nil
}
