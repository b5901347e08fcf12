package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"time"

	"washday/internal/domain/order"
	"washday/internal/domain/pricing"
	reqdto "washday/internal/handler/dto/request"
	"washday/internal/infra"
	"washday/internal/infra/db"
	"washday/internal/pkg/clock"
	"washday/internal/pkg/errs"
	"washday/internal/pkg/metrics"
	"washday/internal/usecase/queries"
	"washday/internal/usecase/shared"

	"github.com/google/uuid"
)

const (
	createOrderEndpoint = "POST /api/orders"
	idempotencyTTL      = 24 * time.Hour
)

type CreateOrderResult struct {
	Order      *queries.OrderView
	IsReplayed bool
}

type OrderCommands interface {
	CreateOrder(ctx context.Context, req reqdto.CreateOrderRequest, userID uuid.UUID, idempotencyKey uuid.UUID) (*CreateOrderResult, error)
}

type orderUseCaseImpl struct {
	orderRepo       OrderRepository
	idempotencyRepo IdempotencyRepository
	orderFactory    *order.Factory
	orderQueries    queries.OrderQueries
	tx              shared.TxRunner
	clock           clock.Clock
	metrics         *metrics.Metrics
}

func NewOrderUseCase(
	orderRepo OrderRepository,
	idempotencyRepo IdempotencyRepository,
	orderFactory *order.Factory,
	orderQueries queries.OrderQueries,
	tx shared.TxRunner,
	clock clock.Clock,
	m *metrics.Metrics,
) OrderCommands {
	return &orderUseCaseImpl{
		orderRepo:       orderRepo,
		idempotencyRepo: idempotencyRepo,
		orderFactory:    orderFactory,
		orderQueries:    orderQueries,
		tx:              tx,
		clock:           clock,
		metrics:         m,
	}
}

func (u *orderUseCaseImpl) CreateOrder(
	ctx context.Context,
	req reqdto.CreateOrderRequest,
	userID uuid.UUID,
	idempotencyKey uuid.UUID,
) (*CreateOrderResult, error) {
	if idempotencyKey == uuid.Nil {
		return nil, errs.ErrIdempotencyKeyRequired
	}

	requestHash := u.calculateRequestHash(req)
	expiresAt := u.clock.Now().Add(idempotencyTTL)

	existing, err := u.handleIdempotency(ctx, idempotencyKey, userID, requestHash, expiresAt)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return &CreateOrderResult{Order: existing, IsReplayed: true}, nil
	}

	view, err := u.createNewOrder(ctx, req, userID, idempotencyKey)
	if err != nil {
		// Free the key so the client can fix the request and retry.
		if releaseErr := u.idempotencyRepo.Release(context.WithoutCancel(ctx), idempotencyKey, userID); releaseErr != nil {
			slog.Warn("failed to release idempotency key", "key", idempotencyKey, "error", releaseErr.Error())
		}
		return nil, err
	}
	return &CreateOrderResult{Order: view, IsReplayed: false}, nil
}

// handleIdempotency claims the key. A nil view with nil error means the
// caller owns the key and must create the order.
func (u *orderUseCaseImpl) handleIdempotency(
	ctx context.Context,
	idempotencyKey, userID uuid.UUID,
	requestHash string,
	expiresAt time.Time,
) (*queries.OrderView, error) {
	inserted, err := u.idempotencyRepo.TryInsert(ctx, idempotencyKey, userID, createOrderEndpoint, requestHash, expiresAt)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if inserted {
		return nil, nil
	}

	existing, err := u.idempotencyRepo.Get(ctx, idempotencyKey, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}

	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyReused
	}

	switch existing.Status {
	case idempotencyStatusCompleted:
		if existing.ResultOrderID != nil {
			return u.orderQueries.GetByIDSystem(ctx, *existing.ResultOrderID)
		}
		return nil, errs.New("completed request missing result order ID")

	case idempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress

	default:
		return nil, errs.New("invalid idempotency key status")
	}
}

func (u *orderUseCaseImpl) createNewOrder(
	ctx context.Context,
	req reqdto.CreateOrderRequest,
	userID, idempotencyKey uuid.UUID,
) (*queries.OrderView, error) {
	orderEntity, err := u.orderFactory.CreateOrder(userID, req.CartItems(), req.RequestedHours)
	if err != nil {
		if errs.Is(err, pricing.ErrInvalidInput) || errs.Is(err, order.ErrEmptyOrder) || errs.Is(err, order.ErrInvalidItemRef) {
			return nil, errs.Mark(err, errs.ErrInvalidOrder)
		}
		return nil, errs.Mark(err, errs.ErrDomainValidation)
	}

	err = u.tx.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		orderID, err := u.orderRepo.Create(ctx, tx, orderEntity)
		if err != nil {
			return err
		}
		return u.idempotencyRepo.UpdateStatusCompleted(ctx, tx, idempotencyKey, userID, orderID)
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil, errs.Mark(err, errs.ErrIdempotencyInProgress)
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}

	u.metrics.Orders.Inc()
	u.metrics.Quotes.WithLabelValues(orderEntity.Quote().SpeedLabel.String()).Inc()

	return u.orderQueries.GetByIDSystem(ctx, orderEntity.ID())
}

func (u *orderUseCaseImpl) calculateRequestHash(req reqdto.CreateOrderRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}
