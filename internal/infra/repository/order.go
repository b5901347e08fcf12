package repository

import (
	"context"

	"washday/internal/domain/order"
	"washday/internal/infra"
	"washday/internal/infra/db"
	"washday/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	insertOrderSQL = `
INSERT INTO orders (
    id, user_id, status, requested_hours, effective_hours, min_lead_hours,
    multiplier, speed_label, base_total, final_total, placed_at, promised_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	insertOrderItemSQL = `
INSERT INTO order_items (order_id, line_no, sku, unit_price, quantity, processing_time_hours)
VALUES ($1, $2, $3, $4, $5, $6)`
)

type OrderRepository struct{}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{}
}

// Create writes the order and its items. Callers pass a transaction so that
// both land together.
func (r *OrderRepository) Create(ctx context.Context, tx db.DBTX, o *order.Order) (uuid.UUID, error) {
	q := o.Quote()
	_, err := tx.Exec(ctx, insertOrderSQL,
		pgconv.UUIDToPgtype(o.ID()),
		pgconv.UUIDToPgtype(o.UserID()),
		string(o.Status()),
		o.RequestedHours(),
		q.Hours,
		q.MinimumLeadTimeHours,
		pgconv.DecimalToNumeric(q.Multiplier),
		q.SpeedLabel.String(),
		pgconv.DecimalToNumeric(q.BaseTotal),
		pgconv.DecimalToNumeric(q.FinalTotal),
		pgconv.TimeToPgtype(o.PlacedAt()),
		pgconv.TimeToPgtype(o.PromisedAt()),
	)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order", err)
	}

	batch := &pgx.Batch{}
	for i, it := range o.Items() {
		batch.Queue(insertOrderItemSQL,
			pgconv.UUIDToPgtype(o.ID()),
			i+1,
			it.SKU,
			pgconv.DecimalToNumeric(it.UnitPrice),
			it.Quantity,
			it.ProcessingTimeHours,
		)
	}
	if err := sendBatch(ctx, tx, batch); err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create order items", err)
	}

	return o.ID(), nil
}

type batchSender interface {
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

// sendBatch uses a pipelined batch when the handle supports it and falls
// back to one Exec per statement otherwise.
func sendBatch(ctx context.Context, tx db.DBTX, batch *pgx.Batch) error {
	if bs, ok := tx.(batchSender); ok {
		return bs.SendBatch(ctx, batch).Close()
	}
	for _, q := range batch.QueuedQueries {
		if _, err := tx.Exec(ctx, q.SQL, q.Arguments...); err != nil {
			return err
		}
	}
	return nil
}
