package components

import (
	"time"

	"washday/internal/infra/db"
	"washday/internal/infra/readstore"
	"washday/internal/infra/redisstore"
	"washday/internal/infra/repository"
	"washday/internal/pkg/config"
	"washday/internal/usecase/commands"
	"washday/internal/usecase/queries"
	"washday/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	baseOption,
	readstoreModule,
	repositoryModule,
	walletModule,
)

var baseOption = fx.Provide(
	NewDBTX,
	shared.NewTxRunner,
)

var readstoreModule = fx.Module("persistence/readstore",
	fx.Provide(
		fx.Annotate(
			readstore.NewOrderReadStore,
			fx.As(new(queries.OrderReadStore)),
		),
	),
)

var repositoryModule = fx.Module("persistence/repository",
	fx.Provide(
		fx.Annotate(
			repository.NewOrderRepository,
			fx.As(new(commands.OrderRepository)),
		),
		fx.Annotate(
			repository.NewIdempotencyRepository,
			fx.As(new(commands.IdempotencyRepository)),
			fx.As(new(commands.ExpiredKeyDeleter)),
		),
		fx.Annotate(
			repository.NewSpinArchiveRepository,
			fx.As(new(commands.SpinArchive)),
		),
	),
)

var walletModule = fx.Module("persistence/wallet",
	fx.Provide(
		fx.Annotate(
			NewWalletStore,
			fx.As(new(commands.WalletStore)),
			fx.As(new(queries.WalletReadStore)),
		),
		fx.Annotate(
			NewLocker,
			fx.As(new(commands.WalletLocker)),
		),
	),
)

func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}

func NewWalletStore(client *redis.Client, loc *time.Location, cfg config.Config) *redisstore.WalletStore {
	return redisstore.NewWalletStore(client, loc, cfg.Game.HistoryLength)
}

func NewLocker(client *redis.Client, cfg config.Config) *redisstore.Locker {
	return redisstore.NewLocker(client, cfg.Game.LockTTL)
}
