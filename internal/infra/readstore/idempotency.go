package readstore

import (
	"context"
	"time"

	"washday/internal/infra"
	"washday/internal/infra/db"
	"washday/internal/pkg/pgconv"
	"washday/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const getIdempotencyKeySQL = `
SELECT key, user_id, endpoint, request_hash, status, result_order_id, expires_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2`

type IdempotencyReadStore struct {
	db db.DBTX
}

func NewIdempotencyReadStore(pool db.DBTX) *IdempotencyReadStore {
	return &IdempotencyReadStore{
		db: pool,
	}
}

func (r *IdempotencyReadStore) Get(ctx context.Context, key uuid.UUID, userID uuid.UUID) (*queries.IdempotencyKeyView, error) {
	var (
		view                 queries.IdempotencyKeyView
		rawKey, rawUser, res pgtype.UUID
		expiresAt            pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, getIdempotencyKeySQL, pgconv.UUIDToPgtype(key), pgconv.UUIDToPgtype(userID)).Scan(
		&rawKey, &rawUser, &view.Endpoint, &view.RequestHash, &view.Status, &res, &expiresAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	view.Key = uuid.UUID(rawKey.Bytes)
	view.UserID = uuid.UUID(rawUser.Bytes)
	view.ResultOrderID = pgconv.UUIDPtrFromPgtype(res)
	view.ExpiresAt = pgconv.TimeFromPgtype(expiresAt)

	if time.Now().After(view.ExpiresAt) {
		return nil, infra.WrapRepoErr("idempotency key expired", nil, infra.KindNotFound)
	}

	return &view, nil
}
