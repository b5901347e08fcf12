package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"

	"washday/cmd/bootstrap"
	"washday/internal/pkg/config"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	_ "time/tzdata"
)

func init() {
	// Release unless GIN_MODE says otherwise.
	gin.SetMode(gin.ReleaseMode)
	if mode := os.Getenv("GIN_MODE"); mode != "" {
		gin.SetMode(mode)
	}
}

// @title           washday
// @version         1.0
// @description     Laundry delivery pricing and the loyalty spin wheel.

// @BasePath  /
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func startServer(lc fx.Lifecycle, engine *gin.Engine, cfg config.Config, logger *slog.Logger) {
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           engine,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			gin.EnableJsonDecoderDisallowUnknownFields()

			// Bind before returning so a taken port fails startup.
			ln, err := (&net.ListenConfig{}).Listen(ctx, "tcp", srv.Addr)
			if err != nil {
				return err
			}
			logger.Info("http server listening", "address", ln.Addr().String(), "mode", gin.Mode())
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("http server stopped unexpectedly", "error", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("draining http server")
			return srv.Shutdown(ctx)
		},
	})
}

// stopTimeout reads the config on its own because fx needs the value before
// the graph is built.
func stopTimeout() fx.Option {
	cfg, err := config.LoadConfig()
	if err != nil || cfg.Server.ShutdownTimeout <= 0 {
		return fx.Options()
	}
	return fx.StopTimeout(cfg.Server.ShutdownTimeout)
}

func main() {
	fx.New(
		bootstrap.Module,
		stopTimeout(),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		fx.Invoke(startServer),
	).Run()
}
