package api

import (
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

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "Idempotent-Replayed"
)

type OrderHandler struct {
	cmds   commands.OrderCommands
	q      queries.OrderQueries
	quotes queries.QuoteQueries
}

func NewOrderHandler(cmds commands.OrderCommands, q queries.OrderQueries, quotes queries.QuoteQueries) *OrderHandler {
	return &OrderHandler{cmds: cmds, q: q, quotes: quotes}
}

// @Summary Preview delivery quote
// @Description Price a cart for a delivery window without placing an order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body reqdto.QuoteRequest true "Cart and requested hours"
// @Success 200 {object} resdto.QuoteResponse
// @Failure 400 {object} httperr.Response
// @Router /api/quotes [post]
func (h *OrderHandler) Quote(c *gin.Context) {
	var req reqdto.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid request", nil)
		return
	}

	view, err := h.quotes.Preview(req.CartItems(), req.RequestedHours)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromQuoteView(view)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary Delivery price curve
// @Description Anchor points of the delivery price curve
// @Tags orders
// @Produce json
// @Success 200 {array} resdto.CurvePointResponse
// @Router /api/quotes/curve [get]
func (h *OrderHandler) Curve(c *gin.Context) {
	c.JSON(http.StatusOK, resdto.FromCurve(h.quotes.Curve()))
}

// @Summary Place order
// @Description Place a laundry order. The quote is recomputed server side.
// @Tags orders
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param Idempotency-Key header string true "Idempotency key (UUID)"
// @Param request body reqdto.CreateOrderRequest true "Cart and requested hours"
// @Success 201 {object} resdto.OrderResponse
// @Success 200 {object} resdto.OrderResponse "Replayed"
// @Failure 400 {object} httperr.Response
// @Failure 401 {object} httperr.Response
// @Failure 409 {object} httperr.Response
// @Router /api/orders [post]
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := requirePlayer(c)
	if !ok {
		return
	}

	rawKey := c.GetHeader(idempotencyKeyHeader)
	if rawKey == "" {
		abortWithUseCaseError(c, errs.ErrIdempotencyKeyRequired)
		return
	}
	key, err := uuid.Parse(rawKey)
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Idempotency-Key must be a UUID", nil)
		return
	}

	var req reqdto.CreateOrderRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, bindErr, "Invalid request", nil)
		return
	}

	result, err := h.cmds.CreateOrder(c.Request.Context(), req, userID, key)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromOrderView(result.Order)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	c.Header("Location", "/api/orders/"+resp.ID.String())
	if result.IsReplayed {
		c.Header(replayedHeader, "true")
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// @Summary Get order
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param id path string true "Order ID"
// @Success 200 {object} resdto.OrderResponse
// @Failure 400 {object} httperr.Response
// @Failure 404 {object} httperr.Response
// @Router /api/orders/{id} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httperr.AbortWithError(c, http.StatusBadRequest, err, "Invalid id", nil)
		return
	}
	actor, _ := middleware.GetPrincipal(c)

	view, err := h.q.GetByID(c.Request.Context(), id, actor)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromOrderView(view)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// @Summary List my orders
// @Description Most recent first, keyset paginated
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max items (default 20)"
// @Param after query string false "Cursor for keyset pagination"
// @Success 200 {object} resdto.OrderListResponse
// @Failure 400 {object} httperr.Response
// @Router /api/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := requirePlayer(c)
	if !ok {
		return
	}

	var cursor *queries.Cursor
	if after := c.Query("after"); after != "" {
		cursor = &queries.Cursor{After: after}
	}

	items, next, err := h.q.ListByUser(c.Request.Context(), userID, cursor, parseLimit(c))
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}

	resp, err := resdto.FromOrderList(items, next)
	if err != nil {
		abortWithUseCaseError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
