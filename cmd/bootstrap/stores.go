package bootstrap

import (
	"context"
	"log/slog"

	"washday/internal/infra/db"
	"washday/internal/infra/redisstore"
	"washday/internal/pkg/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db", fx.Provide(NewDB))

var RedisModule = fx.Module("redis", fx.Provide(NewRedis))

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(cfg.DB)
	if err != nil {
		return nil, err
	}
	closeOnStop(lc, "postgres", cleanup)
	return pool, nil
}

func NewRedis(lc fx.Lifecycle, cfg config.Config) (*redis.Client, error) {
	client, cleanup, err := redisstore.Connect(cfg.Redis)
	if err != nil {
		return nil, err
	}
	closeOnStop(lc, "redis", cleanup)
	return client, nil
}

func closeOnStop(lc fx.Lifecycle, name string, cleanup func()) {
	lc.Append(fx.StopHook(func(context.Context) error {
		if cleanup != nil {
			cleanup()
		}
		slog.Info("connection closed", "store", name)
		return nil
	}))
}
