package api

import (
	"log/slog"
	"net/http"

	reqdto "washday/internal/handler/dto/request"
	resdto "washday/internal/handler/dto/response"
	"washday/internal/handler/httperr"
	"washday/internal/handler/middleware"
	"washday/internal/pkg/errs"
	"washday/internal/usecase/commands"
	"washday/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// GameHandler serves the spin wheel: wheel layout, wallet, spins and history.
type GameHandler struct {
	cmds   commands.SpinCommands
	wallet queries.WalletQueries
	wheel  queries.WheelQueries
}

func NewGameHandler(cmds commands.SpinCommands, wallet queries.WalletQueries, wheel queries.WheelQueries) *GameHandler {
	return &GameHandler{cmds: cmds, wallet: wallet, wheel: wheel}
}

// @Summary Wheel layout
// @Description Segments in draw order, loyalty tiers and spend limits
// @Tags game
// @Produce json
// @Success 200 {object} resdto.WheelResponse
// @Router /api/wheel [get]
func (h *GameHandler) Wheel(c *gin.Context) {
	resp, err := resdto.FromWheelView(h.wheel.Describe())
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary My wallet
// @Description Balance, spend totals for today and this week, loyalty tier
// @Tags game
// @Produce json
// @Security BearerAuth
// @Success 200 {object} resdto.WalletResponse
// @Failure 401 {object} httperr.Response
// @Router /api/wallet [get]
func (h *GameHandler) Wallet(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}
	h.renderWallet(c, playerID)
}

// @Summary Player wallet
// @Description Operator view of any player's wallet
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param playerID path string true "Player ID"
// @Success 200 {object} resdto.WalletResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/admin/wallets/{playerID} [get]
func (h *GameHandler) PlayerWallet(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("playerID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid player id", nil)
		return
	}
	h.renderWallet(c, playerID)
}

// @Summary Spin
// @Description Settle one spin against the caller's wallet
// @Tags game
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.SpinRequest true "Wager"
// @Success 200 {object} resdto.SpinResponse
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /api/spins [post]
func (h *GameHandler) Spin(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}

	var req reqdto.SpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	outcome, err := h.cmds.Spin(c.Request.Context(), playerID, req.Wager)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.NewSpinResponse(outcome, h.wallet.Snapshot(playerID, outcome.Wallet))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Batch spin
// @Description Settle count spins of the same wager in sequence. The whole
// @Description batch must fit the balance and limits before the first draw.
// @Tags game
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.BatchSpinRequest true "Wager and count"
// @Success 200 {object} resdto.BatchSpinResponse
// @Failure 400 {object} httperr.Response
// @Failure 402 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Failure 429 {object} httperr.Response
// @Router /api/spins/batch [post]
func (h *GameHandler) SpinBatch(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}

	var req reqdto.BatchSpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	outcome, err := h.cmds.SpinBatch(c.Request.Context(), playerID, req.Wager, req.Count)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.NewBatchSpinResponse(outcome, h.wallet.Snapshot(playerID, outcome.Wallet))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Spin history
// @Description Most recent spins first
// @Tags game
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20, max 100)"
// @Success 200 {object} resdto.SpinHistoryResponse
// @Router /api/spins/history [get]
func (h *GameHandler) History(c *gin.Context) {
	playerID, ok := requirePlayer(c)
	if !ok {
		return
	}

	views, err := h.wallet.History(c.Request.Context(), playerID, parseLimit(c))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	spins, err := resdto.FromSpinViews(views)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.SpinHistoryResponse{Spins: spins})
}

// @Summary Credit wallet
// @Description Operator top-up of a player's balance
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param playerID path string true "Player ID"
// @Param request body reqdto.CreditWalletRequest true "Amount"
// @Success 200 {object} resdto.CreditResponse
// @Failure 400 {object} httperr.Response
// @Failure 403 {object} httperr.Response
// @Router /api/admin/wallets/{playerID}/credit [post]
func (h *GameHandler) Credit(c *gin.Context) {
	playerID, err := uuid.Parse(c.Param("playerID"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid player id", nil)
		return
	}

	var req reqdto.CreditWalletRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	balance, err := h.cmds.Credit(c.Request.Context(), playerID, req.Amount)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	operatorID, _ := middleware.GetUserID(c)
	slog.Info("operator credit",
		"operator_id", operatorID,
		"player_id", playerID,
		"reference", req.Reference)

	c.JSON(http.StatusOK, resdto.CreditResponse{PlayerID: playerID, Balance: balance.StringFixed(2)})
}

func (h *GameHandler) renderWallet(c *gin.Context, playerID uuid.UUID) {
	view, err := h.wallet.GetWallet(c.Request.Context(), playerID)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromWalletView(view)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func requirePlayer(c *gin.Context) (uuid.UUID, bool) {
	playerID, ok := middleware.GetUserID(c)
	if !ok {
		httperr.AbortWithError(c, http.StatusUnauthorized, errs.New("missing player in context"), "Unauthorized", nil)
		return uuid.Nil, false
	}
	return playerID, true
}
