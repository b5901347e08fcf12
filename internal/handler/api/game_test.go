//go:build unit

package api_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"washday/internal/domain/user"
	"washday/internal/domain/wheel"
	"washday/internal/handler/api"
	resdto "washday/internal/handler/dto/response"
	"washday/internal/handler/httperr"
	"washday/internal/handler/middleware"
	"washday/internal/pkg/errs"
	"washday/internal/usecase/commands"
	"washday/internal/usecase/queries"
	"washday/tests/common/httptest"
	commandsmock "washday/tests/mock/commands"
	queriesmock "washday/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

var spunAt = time.Date(2026, 10, 14, 10, 30, 0, 0, time.UTC)

type GameHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockSpinCommands
	mockWallet   *queriesmock.MockWalletQueries
	mockWheel    *queriesmock.MockWheelQueries
	playerID     uuid.UUID
	operatorID   uuid.UUID
}

func (s *GameHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockSpinCommands(s.mockCtrl)
	s.mockWallet = queriesmock.NewMockWalletQueries(s.mockCtrl)
	s.mockWheel = queriesmock.NewMockWheelQueries(s.mockCtrl)
	handler := api.NewGameHandler(s.mockCommands, s.mockWallet, s.mockWheel)
	s.playerID = uuid.New()
	s.operatorID = uuid.New()

	asPlayer := func(c *gin.Context) {
		if c.GetHeader("Authorization") == "" {
			httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing bearer token"), "Unauthorized", nil)
			return
		}
		middleware.SetPrincipal(c, user.Principal{PlayerID: s.playerID, Role: user.RolePlayer})
		c.Next()
	}
	asOperator := func(c *gin.Context) {
		middleware.SetPrincipal(c, user.Principal{PlayerID: s.operatorID, Role: user.RoleOperator})
		c.Next()
	}

	s.router.GET("/api/wheel", handler.Wheel)
	s.router.GET("/api/wallet", asPlayer, handler.Wallet)
	s.router.POST("/api/spins", asPlayer, handler.Spin)
	s.router.POST("/api/spins/batch", asPlayer, handler.SpinBatch)
	s.router.GET("/api/spins/history", asPlayer, handler.History)
	s.router.GET("/api/admin/wallets/:playerID", asOperator, handler.PlayerWallet)
	s.router.POST("/api/admin/wallets/:playerID/credit", asOperator, handler.Credit)
}

func (s *GameHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestGameHandlerSuite(t *testing.T) {
	suite.Run(t, new(GameHandlerTestSuite))
}

func (s *GameHandlerTestSuite) walletView(balance string) *queries.WalletView {
	return &queries.WalletView{
		PlayerID:        s.playerID,
		Balance:         decimal.RequireFromString(balance),
		DailySpend:      decimal.NewFromInt(10),
		WeeklySpend:     decimal.NewFromInt(10),
		DailyRemaining:  decimal.NewFromInt(990),
		WeeklyRemaining: decimal.NewFromInt(4990),
		DailyResetsAt:   time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC),
		WeeklyResetsAt:  time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC),
		LifetimeSpins:   1,
		Tier:            queries.TierView{Name: "Bronze", BonusPercent: decimal.Zero},
		NextTier:        &queries.TierView{Name: "Silver", MinSpins: 50, BonusPercent: decimal.NewFromInt(2)},
		SpinsToNextTier: 49,
	}
}

func spinRecord(seq int, segmentID string, multiplier, wager string) wheel.SpinRecord {
	m := decimal.RequireFromString(multiplier)
	w := decimal.RequireFromString(wager)
	won := w.Mul(m)
	return wheel.SpinRecord{
		SequenceNumber: seq,
		Result: wheel.SpinResult{
			Segment:             wheel.Segment{ID: segmentID, Label: segmentID, Multiplier: m},
			Tier:                wheel.LoyaltyTier{Name: "Bronze", BonusPercent: decimal.Zero},
			WagerAmount:         w,
			GrossWinnings:       won,
			LoyaltyBonusApplied: decimal.Zero,
			FinalWinnings:       won,
			NetWinnings:         won.Sub(w),
		},
		Timestamp: spunAt,
	}
}

func (s *GameHandlerTestSuite) TestWheel() {
	s.mockWheel.EXPECT().Describe().Return(&queries.WheelView{
		Segments:           []queries.SegmentView{{ID: "x2", Label: "2x", Multiplier: decimal.NewFromInt(2), Probability: 0.15}},
		Tiers:              []queries.TierView{{Name: "Bronze", BonusPercent: decimal.Zero}},
		DailyLimit:         decimal.NewFromInt(1000),
		WeeklyLimit:        decimal.NewFromInt(5000),
		ExpectedMultiplier: 1.34,
		Currency:           "KES",
	})

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/wheel", nil, "")

	var body resdto.WheelResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Equal("1000.00", body.DailyLimit)
	s.Equal("5000.00", body.WeeklyLimit)
	s.Len(body.Segments, 1)
	s.Equal("2x", body.Segments[0].Label)
}

func (s *GameHandlerTestSuite) TestWallet() {
	s.Run("success", func() {
		s.mockWallet.EXPECT().GetWallet(gomock.Any(), s.playerID).Return(s.walletView("100"), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/wallet", nil, "bearer-token")

		var body resdto.WalletResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("100.00", body.Balance)
		s.Equal("990.00", body.DailyRemaining)
		s.Equal("Bronze", body.Tier.Name)
		s.Require().NotNil(body.NextTier)
		s.Equal("Silver", body.NextTier.Name)
	})

	s.Run("error: store failure", func() {
		s.mockWallet.EXPECT().GetWallet(gomock.Any(), s.playerID).
			Return(nil, errs.Mark(errors.New("redis down"), errs.ErrStoreOperationFailed))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/wallet", nil, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusInternalServerError, "Internal server error")
	})

	s.Run("operator reads another player's wallet", func() {
		s.mockWallet.EXPECT().GetWallet(gomock.Any(), s.playerID).Return(s.walletView("42.5"), nil)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/wallets/"+s.playerID.String(), nil, "")

		var body resdto.WalletResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("42.50", body.Balance)
	})

	s.Run("error: malformed player id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/admin/wallets/nope", nil, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid player id")
	})
}

func (s *GameHandlerTestSuite) TestSpin() {
	url := "/api/spins"

	s.Run("success: returns record and wallet", func() {
		record := spinRecord(1, "x2", "2", "10")
		next := wheel.Wallet{Balance: decimal.NewFromInt(110)}

		s.mockCommands.EXPECT().Spin(gomock.Any(), s.playerID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, wager decimal.Decimal) (*commands.SpinOutcome, error) {
				s.True(wager.Equal(decimal.NewFromInt(10)))
				return &commands.SpinOutcome{Record: record, Wallet: next}, nil
			})
		s.mockWallet.EXPECT().Snapshot(s.playerID, next).Return(s.walletView("110"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"wager": "10"}, "bearer-token")

		var body resdto.SpinResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("x2", body.Spin.SegmentID)
		s.Equal("20.00", body.Spin.FinalWinnings)
		s.Equal("10.00", body.Spin.NetWinnings)
		s.Equal("110.00", body.Wallet.Balance)
	})

	s.Run("error: limit reached carries detail and Retry-After", func() {
		checkedAt := time.Date(2026, 10, 14, 22, 0, 0, 0, time.UTC)
		resetsAt := checkedAt.Add(2 * time.Hour)
		limitErr := errs.Mark(&wheel.LimitError{
			Reason:    wheel.ReasonDailyLimit,
			Limit:     decimal.NewFromInt(1000),
			Spent:     decimal.NewFromInt(995),
			ResetsAt:  resetsAt,
			CheckedAt: checkedAt,
		}, errs.ErrLimitExceeded)
		s.mockCommands.EXPECT().Spin(gomock.Any(), s.playerID, gomock.Any()).Return(nil, limitErr)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"wager": "10"}, "bearer-token")

		httptest.AssertErrorResponse(s.T(), rec, http.StatusTooManyRequests, "Spending limit reached")
		var detail api.LimitDetail
		httptest.AssertErrorDetail(s.T(), rec, &detail)
		s.Equal("daily limit", detail.Reason)
		s.Equal("1000.00", detail.Limit)
		s.Equal("995.00", detail.Spent)
		s.True(resetsAt.Equal(detail.ResetsAt))
		s.Equal("7200", rec.Header().Get("Retry-After"))
	})

	s.Run("error: maps usecase errors to proper statuses", func() {
		testCases := []struct {
			name           string
			err            error
			expectedStatus int
			expectedMsg    string
		}{
			{"insufficient funds", errs.Mark(errors.New("balance 5.00 is below 10.00"), errs.ErrInsufficientFunds), http.StatusPaymentRequired, "Insufficient funds"},
			{"invalid wager", errs.ErrInvalidWager, http.StatusBadRequest, "Invalid wager"},
			{"wallet busy", errs.ErrWalletBusy, http.StatusConflict, "Wallet is busy"},
			{"wallet conflict", errs.ErrWalletConflict, http.StatusConflict, "Wallet is busy"},
			{"marked invalid wager", errs.Mark(errors.New("wager has more than two decimal places"), errs.ErrInvalidWager), http.StatusBadRequest, "Invalid wager"},
			{"marked wallet busy", errs.Mark(errors.New("lock held"), errs.ErrWalletBusy), http.StatusConflict, "Wallet is busy"},
			{"wrapped conflict", fmt.Errorf("spin: %w", errs.WrapMark(errors.New("stale snapshot"), errs.ErrWalletConflict, "apply spin")), http.StatusConflict, "Wallet is busy"},
			{"store failure", errs.Mark(errors.New("i/o timeout"), errs.ErrStoreOperationFailed), http.StatusInternalServerError, "Internal server error"},
		}

		for _, tc := range testCases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Spin(gomock.Any(), s.playerID, gomock.Any()).Return(nil, tc.err)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"wager": "10"}, "bearer-token")
				httptest.AssertErrorResponse(s.T(), rec, tc.expectedStatus, tc.expectedMsg)
			})
		}
	})

	s.Run("error: malformed wager", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"wager": "ten"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})

	s.Run("error: 401 when unauthenticated", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"wager": "10"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

func (s *GameHandlerTestSuite) TestSpinBatch() {
	url := "/api/spins/batch"

	s.Run("success: totals over settled spins", func() {
		next := wheel.Wallet{Balance: decimal.RequireFromString("105")}
		outcome := &commands.BatchOutcome{
			Records: []wheel.SpinRecord{
				spinRecord(1, "x2", "2", "10"),
				spinRecord(2, "lose-1", "0", "10"),
				spinRecord(3, "x1_5", "1.5", "10"),
			},
			Wallet:    next,
			Requested: 3,
		}
		s.mockCommands.EXPECT().SpinBatch(gomock.Any(), s.playerID, gomock.Any(), 3).Return(outcome, nil)
		s.mockWallet.EXPECT().Snapshot(s.playerID, next).Return(s.walletView("105"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"wager": "10", "count": 3}, "bearer-token")

		var body resdto.BatchSpinResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Len(body.Spins, 3)
		s.Equal(3, body.Settled)
		s.False(body.Interrupted)
		s.Equal("30.00", body.TotalWager)
		s.Equal("35.00", body.TotalWon)
		s.Equal("105.00", body.Wallet.Balance)
	})

	s.Run("success: interrupted batch reports partial progress", func() {
		next := wheel.Wallet{Balance: decimal.NewFromInt(90)}
		s.mockCommands.EXPECT().SpinBatch(gomock.Any(), s.playerID, gomock.Any(), 5).
			Return(&commands.BatchOutcome{
				Records:     []wheel.SpinRecord{spinRecord(1, "lose-1", "0", "10")},
				Wallet:      next,
				Requested:   5,
				Interrupted: true,
			}, nil)
		s.mockWallet.EXPECT().Snapshot(s.playerID, next).Return(s.walletView("90"))

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"wager": "10", "count": 5}, "bearer-token")

		var body resdto.BatchSpinResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.True(body.Interrupted)
		s.Equal(5, body.Requested)
		s.Equal(1, body.Settled)
	})

	s.Run("error: whole batch over balance", func() {
		s.mockCommands.EXPECT().SpinBatch(gomock.Any(), s.playerID, gomock.Any(), 10).Return(nil, errs.ErrInsufficientFunds)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"wager": "10", "count": 10}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusPaymentRequired, "Insufficient funds")
	})

	s.Run("error: missing count", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"wager": "10"}, "bearer-token")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid request")
	})
}

func (s *GameHandlerTestSuite) TestHistory() {
	s.mockWallet.EXPECT().History(gomock.Any(), s.playerID, 5).Return([]queries.SpinView{
		queries.ToSpinView(spinRecord(2, "x2", "2", "10")),
		queries.ToSpinView(spinRecord(1, "lose-1", "0", "10")),
	}, nil)

	rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/api/spins/history?limit=5", nil, "bearer-token")

	var body resdto.SpinHistoryResponse
	httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
	s.Require().Len(body.Spins, 2)
	s.Equal(2, body.Spins[0].SequenceNumber)
	s.Equal("-10.00", body.Spins[1].NetWinnings)
}

func (s *GameHandlerTestSuite) TestCredit() {
	url := "/api/admin/wallets/" + s.playerID.String() + "/credit"

	s.Run("success", func() {
		s.mockCommands.EXPECT().Credit(gomock.Any(), s.playerID, gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, amount decimal.Decimal) (decimal.Decimal, error) {
				s.True(amount.Equal(decimal.RequireFromString("250.5")))
				return decimal.RequireFromString("300.5"), nil
			})

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url,
			map[string]any{"amount": "250.50", "reference": "mpesa-QK81"}, "")

		var body resdto.CreditResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal(s.playerID, body.PlayerID)
		s.Equal("300.50", body.Balance)
	})

	s.Run("error: invalid amount", func() {
		s.mockCommands.EXPECT().Credit(gomock.Any(), s.playerID, gomock.Any()).Return(decimal.Zero, errs.ErrInvalidCredit)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{"amount": "-5"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid credit amount")
	})

	s.Run("error: malformed player id", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/api/admin/wallets/123/credit", map[string]any{"amount": "5"}, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusBadRequest, "Invalid player id")
	})
}
