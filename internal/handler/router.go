package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"washday/internal/domain/user"
	"washday/internal/handler/api"
	"washday/internal/handler/middleware"
	"washday/internal/pkg/config"
	"washday/internal/pkg/metrics"
)

type route struct {
	Method  string
	Path    string
	Handler gin.HandlerFunc
	Mw      []gin.HandlerFunc
}

type handlers struct {
	order *api.OrderHandler
	game  *api.GameHandler
	auth  *middleware.AuthMiddleware
}

func NewRouter(
	engine *gin.Engine,
	cfg config.Config,
	orderHandler *api.OrderHandler,
	gameHandler *api.GameHandler,
	authMiddleware *middleware.AuthMiddleware,
	m *metrics.Metrics,
	gatherer prometheus.Gatherer,
) {
	setupMiddleware(engine, cfg, m)
	setupRoutes(engine, handlers{order: orderHandler, game: gameHandler, auth: authMiddleware}, gatherer)
}

func setupMiddleware(engine *gin.Engine, cfg config.Config, m *metrics.Metrics) {
	// Recovery must be first (outermost) to catch panics from all other middleware
	engine.Use(middleware.CustomRecovery())
	engine.Use(middleware.NewCORSMiddleware(cfg.CORS))
	engine.Use(middleware.NewLogger(cfg.Log).LoggingMiddleware())
	engine.Use(middleware.Metrics(m))
	engine.Use(middleware.ErrorHandler())
}

func setupRoutes(engine *gin.Engine, h handlers, gatherer prometheus.Gatherer) {
	engine.GET("/health", healthCheck)
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	if gin.Mode() == gin.DebugMode {
		engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	apiGroup := engine.Group("/api")
	{
		addRoutes(apiGroup, []route{
			{Method: http.MethodPost, Path: "/quotes", Handler: h.order.Quote},
			{Method: http.MethodGet, Path: "/quotes/curve", Handler: h.order.Curve},
			{Method: http.MethodGet, Path: "/wheel", Handler: h.game.Wheel},
		})

		orders := apiGroup.Group("/orders")
		orders.Use(h.auth.RequireAuth())
		{
			addRoutes(orders, []route{
				{Method: http.MethodPost, Path: "", Handler: h.order.Create},
				{Method: http.MethodGet, Path: "", Handler: h.order.List},
				{Method: http.MethodGet, Path: "/:id", Handler: h.order.Get},
			})
		}

		game := apiGroup.Group("")
		game.Use(h.auth.RequireAuth())
		{
			addRoutes(game, []route{
				{Method: http.MethodGet, Path: "/wallet", Handler: h.game.Wallet},
				{Method: http.MethodPost, Path: "/spins", Handler: h.game.Spin},
				{Method: http.MethodPost, Path: "/spins/batch", Handler: h.game.SpinBatch},
				{Method: http.MethodGet, Path: "/spins/history", Handler: h.game.History},
			})
		}

		admin := apiGroup.Group("/admin")
		admin.Use(h.auth.RequireAuth(), h.auth.RequireRoleAtLeast(user.RoleOperator))
		{
			addRoutes(admin, []route{
				{Method: http.MethodGet, Path: "/wallets/:playerID", Handler: h.game.PlayerWallet},
				{Method: http.MethodPost, Path: "/wallets/:playerID/credit", Handler: h.game.Credit},
			})
		}
	}
}

// @Summary Health check
// @Description Check if the service is healthy
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"message": "Service is healthy",
	})
}

func addRoutes(g *gin.RouterGroup, rs []route) {
	for _, r := range rs {
		h := r.Handler
		if len(r.Mw) > 0 {
			h = chainHandlers(append(r.Mw, r.Handler)...)
		}
		switch r.Method {
		case http.MethodGet:
			g.GET(r.Path, h)
		case http.MethodPost:
			g.POST(r.Path, h)
		case http.MethodPut:
			g.PUT(r.Path, h)
		case http.MethodPatch:
			g.PATCH(r.Path, h)
		case http.MethodDelete:
			g.DELETE(r.Path, h)
		default:
			g.Any(r.Path, h)
		}
	}
}

func chainHandlers(hs ...gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, h := range hs {
			h(c)
			if c.IsAborted() {
				return
			}
		}
	}
}
