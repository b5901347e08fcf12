package api

import (
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"time"

	"washday/internal/domain/pricing"
	"washday/internal/domain/wheel"
	"washday/internal/handler/httperr"
	"washday/internal/pkg/errs"
	"washday/internal/usecase/queries"

	"github.com/gin-gonic/gin"
)

// LimitDetail accompanies a 429 so the client can show when play resumes.
type LimitDetail struct {
	Reason   string    `json:"reason"`
	Limit    string    `json:"limit"`
	Spent    string    `json:"spent"`
	ResetsAt time.Time `json:"resetsAt"`
}

func abortWithUseCaseError(c *gin.Context, err error) {
	var limitErr *wheel.LimitError
	switch {
	case errors.As(err, &limitErr):
		retryAfter := int(math.Ceil(limitErr.RetryAfter().Seconds()))
		if retryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(retryAfter))
		}
		httperr.AbortWithError(c, http.StatusTooManyRequests, err, "Spending limit reached", LimitDetail{
			Reason:   string(limitErr.Reason),
			Limit:    limitErr.Limit.StringFixed(2),
			Spent:    limitErr.Spent.StringFixed(2),
			ResetsAt: limitErr.ResetsAt,
		})

	case errs.Is(err, errs.ErrInsufficientFunds):
		httperr.AbortWithError(c, http.StatusPaymentRequired, err, "Insufficient funds", nil)

	case errs.Is(err, errs.ErrInvalidWager):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid wager", nil)
	case errs.Is(err, errs.ErrInvalidOrder):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid order", nil)
	case errs.Is(err, errs.ErrInvalidCredit):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid credit amount", nil)
	case errs.Is(err, errs.ErrIdempotencyKeyRequired):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Idempotency-Key header required", nil)
	case errs.Is(err, queries.ErrInvalidCursor):
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid cursor", nil)

	case errs.Is(err, errs.ErrIdempotencyKeyReused):
		httperr.AbortWithError(c, http.StatusConflict, err, "Idempotency key reused with a different request", nil)
	case errs.Is(err, errs.ErrIdempotencyInProgress):
		httperr.AbortWithError(c, http.StatusConflict, err, "Request is already being processed", nil)
	case errs.Is(err, errs.ErrWalletBusy), errs.Is(err, errs.ErrWalletConflict):
		httperr.AbortWithError(c, http.StatusConflict, err, "Wallet is busy, retry shortly", nil)

	case errs.Is(err, errs.ErrOrderNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Order not found", nil)
	case errs.Is(err, errs.ErrWalletNotFound):
		httperr.AbortWithError(c, http.StatusNotFound, err, "Wallet not found", nil)

	case errs.Is(err, pricing.ErrInvalidConfiguration), errs.Is(err, wheel.ErrInvalidConfiguration):
		httperr.AbortWithError(c, http.StatusUnprocessableEntity, err, "Invalid configuration", nil)

	default:
		slog.Error("unhandled usecase error",
			"path", c.FullPath(),
			"error", err.Error(),
			"stack", errs.ExtractStackLines(err, 8))
		httperr.AbortWithError(c, http.StatusInternalServerError, err, "Internal server error", nil)
	}
}

func parseLimit(c *gin.Context) int {
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return 0
}
