//go:build e2e

package game_test

import (
	"context"
	"net/http"
	"strconv"
	"testing"
	"time"

	"washday/internal/domain/user"
	"washday/internal/handler/api"
	resdto "washday/internal/handler/dto/response"
	"washday/internal/infra/redisstore"
	"washday/tests/common/dbtest"
	"washday/tests/common/httptest"
	"washday/tests/e2e"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	wheelURL   = "/api/wheel"
	walletURL  = "/api/wallet"
	spinURL    = "/api/spins"
	batchURL   = "/api/spins/batch"
	historyURL = "/api/spins/history"
)

type GameSuite struct {
	e2e.SharedSuite
	operatorToken string
}

func TestGameSuite(t *testing.T) {
	suite.Run(t, new(GameSuite))
}

func (s *GameSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.operatorToken = s.JWT.GenerateToken(s.T(), uuid.New(), user.RoleOperator)
}

func creditURL(playerID uuid.UUID) string {
	return "/api/admin/wallets/" + playerID.String() + "/credit"
}

func (s *GameSuite) credit(t *testing.T, playerID uuid.UUID, amount string) {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodPost, creditURL(playerID),
		map[string]any{"amount": amount, "reference": "e2e"}, s.operatorToken)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func (s *GameSuite) wallet(t *testing.T, token string) resdto.WalletResponse {
	t.Helper()
	w := httptest.PerformRequest(t, s.Router, http.MethodGet, walletURL, nil, token)
	var body resdto.WalletResponse
	httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
	return body
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func (s *GameSuite) TestWheel() {
	s.Run("layout is public", func() {
		t := s.T()
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, wheelURL, nil, "")

		var body resdto.WheelResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)
		require.Len(t, body.Segments, 8)
		require.Len(t, body.Tiers, 4)
		require.Equal(t, "1000.00", body.DailyLimit)
		require.Equal(t, "5000.00", body.WeeklyLimit)
	})
}

func (s *GameSuite) TestWallet() {
	s.Run("unknown player starts empty in Bronze", func() {
		t := s.T()
		_, token := s.JWT.NewPlayer(t)

		body := s.wallet(t, token)
		require.Equal(t, "0.00", body.Balance)
		require.Equal(t, "1000.00", body.DailyRemaining)
		require.Equal(t, "Bronze", body.Tier.Name)
		require.Equal(t, 50, body.SpinsToNextTier)
		require.Nil(t, body.LastPlayDate)
	})

	s.Run("operator credit is visible to the player", func() {
		t := s.T()
		playerID, token := s.JWT.NewPlayer(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, creditURL(playerID),
			map[string]any{"amount": "250.50"}, s.operatorToken)
		var credited resdto.CreditResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &credited)
		require.Equal(t, "250.50", credited.Balance)

		require.Equal(t, "250.50", s.wallet(t, token).Balance)

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, "/api/admin/wallets/"+playerID.String(), nil, s.operatorToken)
		var seen resdto.WalletResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &seen)
		require.Equal(t, "250.50", seen.Balance)
	})

	s.Run("players cannot credit themselves", func() {
		t := s.T()
		playerID, token := s.JWT.NewPlayer(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, creditURL(playerID), map[string]any{"amount": "100"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusForbidden, "Insufficient permissions")
	})

	s.Run("credit must be a positive cent amount", func() {
		t := s.T()
		playerID, _ := s.JWT.NewPlayer(t)

		for _, amount := range []string{"0", "-5", "1.001"} {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, creditURL(playerID), map[string]any{"amount": amount}, s.operatorToken)
			httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid credit amount")
		}
	})
}

func (s *GameSuite) TestSpin() {
	s.Run("settles against the wallet and archives the spin", func() {
		t := s.T()
		playerID, token := s.JWT.NewPlayer(t)
		s.credit(t, playerID, "100")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, spinURL, map[string]any{"wager": "10"}, token)
		var body resdto.SpinResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)

		require.Equal(t, 1, body.Spin.SequenceNumber)
		require.Equal(t, "10.00", body.Spin.WagerAmount)
		expected := dec(t, "90").Add(dec(t, body.Spin.FinalWinnings))
		require.True(t, expected.Equal(dec(t, body.Wallet.Balance)), "balance %s, winnings %s", body.Wallet.Balance, body.Spin.FinalWinnings)
		require.Equal(t, "10.00", body.Wallet.DailySpend)
		require.Equal(t, 1, body.Wallet.LifetimeSpins)
		require.NotNil(t, body.Wallet.LastPlayDate)

		require.Equal(t, body.Wallet.Balance, s.wallet(t, token).Balance)
		require.Equal(t, 1, dbtest.CountArchivedSpins(t, s.Pool, playerID))

		w = httptest.PerformRequest(t, s.Router, http.MethodGet, historyURL, nil, token)
		var history resdto.SpinHistoryResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &history)
		require.Len(t, history.Spins, 1)
		require.Equal(t, body.Spin.SegmentID, history.Spins[0].SegmentID)
	})

	s.Run("empty wallet is refused", func() {
		t := s.T()
		_, token := s.JWT.NewPlayer(t)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, spinURL, map[string]any{"wager": "10"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusPaymentRequired, "Insufficient funds")
	})

	s.Run("sub-cent wager is invalid", func() {
		t := s.T()
		playerID, token := s.JWT.NewPlayer(t)
		s.credit(t, playerID, "100")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, spinURL, map[string]any{"wager": "0.005"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid wager")
		require.Equal(t, "100.00", s.wallet(t, token).Balance)
	})

	s.Run("held wallet lock answers 409", func() {
		t := s.T()
		playerID, token := s.JWT.NewPlayer(t)
		s.credit(t, playerID, "100")

		locker := redisstore.NewLocker(s.Redis, 30*time.Second)
		release, err := locker.Acquire(context.Background(), playerID)
		require.NoError(t, err)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, spinURL, map[string]any{"wager": "10"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusConflict, "Wallet is busy")
		require.Equal(t, "100.00", s.wallet(t, token).Balance)

		require.NoError(t, release(context.Background()))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, spinURL, map[string]any{"wager": "10"}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}

func (s *GameSuite) TestSpinBatch() {
	s.Run("settles every spin in order", func() {
		t := s.T()
		playerID, token := s.JWT.NewPlayer(t)
		s.credit(t, playerID, "100")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, batchURL, map[string]any{"wager": "5", "count": 5}, token)
		var body resdto.BatchSpinResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &body)

		require.Equal(t, 5, body.Settled)
		require.False(t, body.Interrupted)
		require.Equal(t, "25.00", body.TotalWager)
		for i, spin := range body.Spins {
			require.Equal(t, i+1, spin.SequenceNumber)
		}
		expected := dec(t, "75").Add(dec(t, body.TotalWon))
		require.True(t, expected.Equal(dec(t, body.Wallet.Balance)))
		require.Equal(t, 5, body.Wallet.LifetimeSpins)
		require.Equal(t, 5, dbtest.CountArchivedSpins(t, s.Pool, playerID))
	})

	s.Run("batch that does not fit the balance draws nothing", func() {
		t := s.T()
		playerID, token := s.JWT.NewPlayer(t)
		s.credit(t, playerID, "25")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, batchURL, map[string]any{"wager": "10", "count": 3}, token)
		httptest.AssertErrorResponse(t, w, http.StatusPaymentRequired, "Insufficient funds")

		body := s.wallet(t, token)
		require.Equal(t, "25.00", body.Balance)
		require.Equal(t, 0, body.LifetimeSpins)
	})

	s.Run("oversized batch is rejected", func() {
		t := s.T()
		playerID, token := s.JWT.NewPlayer(t)
		s.credit(t, playerID, "1000")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, batchURL, map[string]any{"wager": "1", "count": 51}, token)
		httptest.AssertErrorResponse(t, w, http.StatusBadRequest, "Invalid wager")
	})
}

func (s *GameSuite) TestSpendLimits() {
	s.Run("daily cap returns 429 with reset time", func() {
		t := s.T()
		playerID, token := s.JWT.NewPlayer(t)
		s.credit(t, playerID, "3000")

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, batchURL, map[string]any{"wager": "20", "count": 50}, token)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, spinURL, map[string]any{"wager": "1"}, token)
		httptest.AssertErrorResponse(t, w, http.StatusTooManyRequests, "Spending limit reached")

		var detail api.LimitDetail
		httptest.AssertErrorDetail(t, w, &detail)
		require.Equal(t, "daily limit", detail.Reason)
		require.Equal(t, "1000.00", detail.Limit)
		require.Equal(t, "1000.00", detail.Spent)
		require.True(t, detail.ResetsAt.After(time.Now()))
		require.True(t, detail.ResetsAt.Before(time.Now().Add(24*time.Hour+time.Minute)))

		retryAfter, err := strconv.Atoi(w.Header().Get("Retry-After"))
		require.NoError(t, err)
		require.Positive(t, retryAfter)

		body := s.wallet(t, token)
		require.Equal(t, "0.00", body.DailyRemaining)
		require.Equal(t, "4000.00", body.WeeklyRemaining)
		require.Equal(t, 50, body.LifetimeSpins)
		require.Equal(t, "Silver", body.Tier.Name)
	})
}
