package queries

import (
	"context"
	"time"

	"washday/internal/domain/user"
	"washday/internal/infra"
	"washday/internal/pkg/errs"

	"github.com/google/uuid"
)

type OrderReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OrderView, error)
	FindByUserIDFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*OrderListItem, error)
	FindByUserIDKeyset(ctx context.Context, userID uuid.UUID, lastPlacedAt time.Time, lastID uuid.UUID, limit int32) ([]*OrderListItem, error)
}

type OrderQueries interface {
	GetByID(ctx context.Context, id uuid.UUID, actor user.Principal) (*OrderView, error)
	// GetByIDSystem skips the ownership check. Only write-side flows call it.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListByUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error)
}

type orderQueriesImpl struct {
	repo OrderReadStore
}

func NewOrderQueries(repo OrderReadStore) OrderQueries {
	return &orderQueriesImpl{repo: repo}
}

func (q *orderQueriesImpl) GetByID(ctx context.Context, id uuid.UUID, actor user.Principal) (*OrderView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}

	// A foreign order reads as missing.
	if !actor.CanRead(view.UserID) {
		return nil, errs.Mark(ErrOrderAccess, errs.ErrOrderNotFound)
	}
	return view, nil
}

func (q *orderQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	view, err := q.repo.FindByID(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrOrderNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return view, nil
}

func (q *orderQueriesImpl) ListByUser(ctx context.Context, userID uuid.UUID, cursor *Cursor, limit int) ([]*OrderListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var (
		rows []*OrderListItem
		err  error
	)
	if cursor == nil || cursor.After == "" {
		rows, err = q.repo.FindByUserIDFirstPage(ctx, userID, int32(limit+1))
	} else {
		pos, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return nil, nil, derr
		}
		rows, err = q.repo.FindByUserIDKeyset(ctx, userID, pos.PlacedAt, pos.ID, int32(limit+1))
	}
	if err != nil {
		return nil, nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(OrderPosition{PlacedAt: last.PlacedAt, ID: last.ID})}
		rows = rows[:limit]
	}
	return rows, next, nil
}
