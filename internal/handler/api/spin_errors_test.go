//go:build unit

package api_test

import (
	"context"
	"net/http"
	"testing"

	"washday/internal/domain/user"
	"washday/internal/domain/wheel"
	"washday/internal/handler/api"
	"washday/internal/handler/middleware"
	"washday/internal/infra"
	"washday/internal/pkg/clock"
	"washday/internal/pkg/metrics"
	"washday/internal/pkg/rng"
	"washday/internal/usecase/commands"
	"washday/tests/common/httptest"
	commandsmock "washday/tests/mock/commands"
	queriesmock "washday/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

// Drives the real spin use case so the statuses cover errors exactly as the
// use case marks them.
func TestGameHandler_SpinUseCaseErrorStatuses(t *testing.T) {
	gin.SetMode(gin.TestMode)
	playerID := uuid.New()

	newRouter := func(t *testing.T) (*gin.Engine, *commandsmock.MockWalletStore, *commandsmock.MockWalletLocker) {
		ctrl := gomock.NewController(t)
		store := commandsmock.NewMockWalletStore(ctrl)
		locker := commandsmock.NewMockWalletLocker(ctrl)
		uc := commands.NewSpinUseCase(
			wheel.NewDefaultEngine(),
			store,
			locker,
			commandsmock.NewMockSpinArchive(ctrl),
			rng.NewSequence(0.10),
			clock.NewMockClock(spunAt),
			metrics.NewNop(),
			commands.SpinConfig{MaxBatchSize: 50},
		)
		h := api.NewGameHandler(uc, queriesmock.NewMockWalletQueries(ctrl), queriesmock.NewMockWheelQueries(ctrl))

		r := gin.New()
		r.POST("/api/spins", func(c *gin.Context) {
			middleware.SetPrincipal(c, user.Principal{PlayerID: playerID, Role: user.RolePlayer})
			c.Next()
		}, h.Spin)
		r.POST("/api/spins/batch", func(c *gin.Context) {
			middleware.SetPrincipal(c, user.Principal{PlayerID: playerID, Role: user.RolePlayer})
			c.Next()
		}, h.SpinBatch)
		return r, store, locker
	}

	t.Run("insufficient funds is 402", func(t *testing.T) {
		r, store, locker := newRouter(t)
		locker.EXPECT().Acquire(gomock.Any(), playerID).Return(func(context.Context) error { return nil }, nil)
		store.EXPECT().Load(gomock.Any(), playerID).Return(wheel.Wallet{Balance: decimal.NewFromInt(5)}, nil)

		rec := httptest.PerformRequest(t, r, http.MethodPost, "/api/spins", map[string]any{"wager": "10"}, "")
		httptest.AssertErrorResponse(t, rec, http.StatusPaymentRequired, "Insufficient funds")
	})

	t.Run("batch over balance is 402", func(t *testing.T) {
		r, store, locker := newRouter(t)
		locker.EXPECT().Acquire(gomock.Any(), playerID).Return(func(context.Context) error { return nil }, nil)
		store.EXPECT().Load(gomock.Any(), playerID).Return(wheel.Wallet{Balance: decimal.NewFromInt(5)}, nil)

		rec := httptest.PerformRequest(t, r, http.MethodPost, "/api/spins/batch", map[string]any{"wager": "2", "count": 3}, "")
		httptest.AssertErrorResponse(t, rec, http.StatusPaymentRequired, "Insufficient funds")
	})

	for _, wager := range []string{"0", "-1", "1.005"} {
		t.Run("wager "+wager+" is 400", func(t *testing.T) {
			r, _, _ := newRouter(t)

			rec := httptest.PerformRequest(t, r, http.MethodPost, "/api/spins", map[string]any{"wager": wager}, "")
			httptest.AssertErrorResponse(t, rec, http.StatusBadRequest, "Invalid wager")
		})
	}

	t.Run("held lock is 409", func(t *testing.T) {
		r, _, locker := newRouter(t)
		locker.EXPECT().Acquire(gomock.Any(), playerID).
			Return(nil, infra.WrapRepoErr("wallet lock held", nil, infra.KindLocked))

		rec := httptest.PerformRequest(t, r, http.MethodPost, "/api/spins", map[string]any{"wager": "1"}, "")
		httptest.AssertErrorResponse(t, rec, http.StatusConflict, "Wallet is busy")
	})
}
