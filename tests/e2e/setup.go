//go:build e2e

package e2e

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"

	"washday/cmd/bootstrap"
	"washday/cmd/bootstrap/components"
	"washday/internal/infra/db"
	"washday/internal/pkg/config"
	"washday/tests/common/authtest"
	"washday/tests/common/dbtest"

	"github.com/cenkalti/backoff/v4"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/fx"
)

// Env is everything a suite needs to drive the app end to end.
type Env struct {
	Pool   *pgxpool.Pool
	Redis  *redis.Client
	Router *gin.Engine
	Config config.Config
}

func newEnv(t *testing.T) Env {
	t.Helper()
	gin.SetMode(gin.TestMode)

	pg := postgresContainer.endpoint(t)
	rd := redisContainer.endpoint(t)

	cfg := config.NewTestConfig()
	cfg.DB = createDatabase(t, pg)
	cfg.Redis.Addr = rd.Addr()

	pool, _, err := db.Connect(cfg.DB)
	require.NoError(t, err, "database connection failed")
	t.Cleanup(pool.Close)
	require.NoError(t, applyMigrations(pool), "migration failed")

	rdb := redis.NewClient(&redis.Options{Addr: rd.Addr()})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, rdb.Ping(ctx).Err(), "redis ping failed")
	t.Cleanup(func() { _ = rdb.Close() })

	router := startApp(t, cfg, pool, rdb)

	slog.Info("e2e environment ready", "database", cfg.DB.DBName, "postgres", pg.Addr(), "redis", rd.Addr())
	return Env{Pool: pool, Redis: rdb, Router: router, Config: cfg}
}

// createDatabase gives each suite its own database, dropped on cleanup.
func createDatabase(t *testing.T, pg Endpoint) config.DBConfig {
	t.Helper()
	name := "washday_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	adminDSN := pgDSN(pg.Host, pg.Port, "postgres")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	admin, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err, "admin connection failed")
	defer admin.Close()

	// Template locks from concurrent test binaries surface as transient errors.
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(500*time.Millisecond), 5), ctx)
	err = backoff.RetryNotify(func() error {
		_, err := admin.Exec(ctx, "CREATE DATABASE "+name)
		return err
	}, policy, func(err error, wait time.Duration) {
		slog.Warn("retrying database creation", "database", name, "wait", wait, "error", err.Error())
	})
	require.NoError(t, err, "failed to create test database")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		admin, err := pgxpool.New(ctx, adminDSN)
		if err != nil {
			slog.Warn("cleanup connection failed", "database", name, "error", err.Error())
			return
		}
		defer admin.Close()
		if _, err := admin.Exec(ctx, "DROP DATABASE IF EXISTS "+name+" WITH (FORCE)"); err != nil {
			slog.Warn("failed to drop test database", "database", name, "error", err.Error())
		}
	})

	return config.DBConfig{
		Host:     pg.Host,
		Port:     pg.Port.Port(),
		User:     pgUser,
		Password: pgPassword,
		DBName:   name,
		SSLMode:  "disable",
		TimeZone: "Africa/Nairobi",
		MaxConns: 8,
	}
}

// applyMigrations runs every migrations/*.sql file of the module in name order.
func applyMigrations(pool *pgxpool.Pool) error {
	root, err := moduleRoot()
	if err != nil {
		return err
	}
	files, err := filepath.Glob(filepath.Join(root, "migrations", "*.sql"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no migrations under %s", root)
	}
	slices.Sort(files)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	for _, f := range files {
		sql, err := os.ReadFile(f)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", f, err)
		}
		if _, err := pool.Exec(ctx, string(sql)); err != nil {
			return fmt.Errorf("apply migration %s: %w", filepath.Base(f), err)
		}
	}
	return nil
}

// moduleRoot walks up from the package directory go test runs in.
func moduleRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New("go.mod not found above working directory")
		}
		dir = parent
	}
}

// startApp wires the production modules around the test pool and client.
func startApp(t *testing.T, cfg config.Config, pool *pgxpool.Pool, rdb *redis.Client) *gin.Engine {
	t.Helper()
	var router *gin.Engine

	app := fx.New(
		fx.Supply(cfg, pool, rdb),
		fx.Provide(func() *gin.Engine { return gin.New() }),
		bootstrap.LoggerModule,
		bootstrap.MetricsModule,
		bootstrap.JWTModule,
		bootstrap.GameModule,
		components.PersistenceModule,
		components.UseCaseModule,
		components.HandlerModule,
		fx.Populate(&router),
		fx.NopLogger,
	)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	require.NoError(t, app.Start(ctx), "failed to start fx app")

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			slog.Warn("failed to stop fx app", "error", err.Error())
		}
	})
	return router
}

// SharedSuite boots one environment per suite and resets Postgres between
// subtests. Wallet keys are scoped by random player ids, so Redis is left alone.
type SharedSuite struct {
	suite.Suite
	Env
	JWT *authtest.JWTHelper
}

func (s *SharedSuite) SetupSuite() {
	s.Env = newEnv(s.T())
	s.JWT = authtest.NewJWTHelper(s.Config.JWT)
}

func (s *SharedSuite) SetupSubTest() {
	require.NoError(s.T(), dbtest.ResetDB(s.Pool), "failed to reset database state")
}
