package bootstrap

import (
	"log/slog"

	"washday/internal/handler/middleware"
	"washday/internal/pkg/config"
	"washday/internal/pkg/jwt"

	"go.uber.org/fx"
)

var ConfigModule = fx.Module("config", fx.Provide(config.LoadConfig))

var LoggerModule = fx.Module("logger", fx.Provide(NewLogger))

var JWTModule = fx.Module("jwt", fx.Provide(NewJWTService))

// NewLogger also installs the logger as the slog default.
func NewLogger(cfg config.Config) *slog.Logger {
	return middleware.NewLogger(cfg.Log).GetSlogLogger()
}

func NewJWTService(cfg config.Config) *jwt.Service {
	return jwt.NewService(cfg.JWT.Secret)
}
