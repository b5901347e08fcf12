package readstore

import (
	"context"
	"time"

	"washday/internal/infra"
	"washday/internal/infra/db"
	"washday/internal/pkg/pgconv"
	"washday/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const (
	getOrderByIDSQL = `
SELECT id, user_id, status, requested_hours, effective_hours, min_lead_hours,
       multiplier, speed_label, base_total, final_total, placed_at, promised_at
FROM orders
WHERE id = $1`

	getOrderItemsSQL = `
SELECT sku, unit_price, quantity, processing_time_hours
FROM order_items
WHERE order_id = $1
ORDER BY line_no`

	listOrdersFirstPageSQL = `
SELECT o.id, o.status, o.speed_label, o.final_total, o.placed_at, o.promised_at,
       (SELECT count(*) FROM order_items i WHERE i.order_id = o.id) AS item_count
FROM orders o
WHERE o.user_id = $1
ORDER BY o.placed_at DESC, o.id DESC
LIMIT $2`

	listOrdersKeysetSQL = `
SELECT o.id, o.status, o.speed_label, o.final_total, o.placed_at, o.promised_at,
       (SELECT count(*) FROM order_items i WHERE i.order_id = o.id) AS item_count
FROM orders o
WHERE o.user_id = $1 AND (o.placed_at, o.id) < ($2, $3)
ORDER BY o.placed_at DESC, o.id DESC
LIMIT $4`
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(pool db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: pool}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var (
		view                              queries.OrderView
		rawID, rawUser                    pgtype.UUID
		multiplier, baseTotal, finalTotal pgtype.Numeric
		placedAt, promisedAt              pgtype.Timestamptz
	)

	err := r.db.QueryRow(ctx, getOrderByIDSQL, pgconv.UUIDToPgtype(id)).Scan(
		&rawID, &rawUser, &view.Status, &view.RequestedHours, &view.EffectiveHours, &view.MinLeadHours,
		&multiplier, &view.SpeedLabel, &baseTotal, &finalTotal, &placedAt, &promisedAt,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order by ID", err)
	}

	view.ID = uuid.UUID(rawID.Bytes)
	view.UserID = uuid.UUID(rawUser.Bytes)
	view.PlacedAt = pgconv.TimeFromPgtype(placedAt)
	view.PromisedAt = pgconv.TimeFromPgtype(promisedAt)
	if view.Multiplier, err = pgconv.DecimalFromNumeric(multiplier); err != nil {
		return nil, infra.WrapRepoErr("invalid order multiplier", err)
	}
	if view.BaseTotal, err = pgconv.DecimalFromNumeric(baseTotal); err != nil {
		return nil, infra.WrapRepoErr("invalid order base total", err)
	}
	if view.FinalTotal, err = pgconv.DecimalFromNumeric(finalTotal); err != nil {
		return nil, infra.WrapRepoErr("invalid order final total", err)
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	view.Items = items

	return &view, nil
}

func (r *OrderReadStore) findItems(ctx context.Context, orderID uuid.UUID) ([]queries.OrderItemView, error) {
	rows, err := r.db.Query(ctx, getOrderItemsSQL, pgconv.UUIDToPgtype(orderID))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load order items", err)
	}

	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (queries.OrderItemView, error) {
		var (
			item  queries.OrderItemView
			price pgtype.Numeric
		)
		if err := row.Scan(&item.SKU, &price, &item.Quantity, &item.ProcessingTimeHours); err != nil {
			return item, err
		}
		unitPrice, convErr := pgconv.DecimalFromNumeric(price)
		item.UnitPrice = unitPrice
		return item, convErr
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan order items", err)
	}
	return items, nil
}

func (r *OrderReadStore) FindByUserIDFirstPage(ctx context.Context, userID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	rows, err := r.db.Query(ctx, listOrdersFirstPageSQL, pgconv.UUIDToPgtype(userID), limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find orders first page", err)
	}
	return collectOrderListItems(rows)
}

func (r *OrderReadStore) FindByUserIDKeyset(ctx context.Context, userID uuid.UUID, lastPlacedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.OrderListItem, error) {
	rows, err := r.db.Query(ctx, listOrdersKeysetSQL,
		pgconv.UUIDToPgtype(userID),
		pgconv.TimeToPgtype(lastPlacedAt),
		pgconv.UUIDToPgtype(lastID),
		limit,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find orders keyset", err)
	}
	return collectOrderListItems(rows)
}

func collectOrderListItems(rows pgx.Rows) ([]*queries.OrderListItem, error) {
	items, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*queries.OrderListItem, error) {
		var (
			item                 queries.OrderListItem
			rawID                pgtype.UUID
			total                pgtype.Numeric
			placedAt, promisedAt pgtype.Timestamptz
			count                int64
		)
		if err := row.Scan(&rawID, &item.Status, &item.SpeedLabel, &total, &placedAt, &promisedAt, &count); err != nil {
			return nil, err
		}
		finalTotal, err := pgconv.DecimalFromNumeric(total)
		if err != nil {
			return nil, err
		}
		item.ID = uuid.UUID(rawID.Bytes)
		item.FinalTotal = finalTotal
		item.ItemCount = int(count)
		item.PlacedAt = pgconv.TimeFromPgtype(placedAt)
		item.PromisedAt = pgconv.TimeFromPgtype(promisedAt)
		return &item, nil
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to scan orders", err)
	}
	return items, nil
}
