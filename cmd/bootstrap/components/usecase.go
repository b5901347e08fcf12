package components

import (
	"context"

	"washday/internal/domain/order"
	"washday/internal/domain/pricing"
	"washday/internal/domain/wheel"
	"washday/internal/pkg/catalog"
	"washday/internal/pkg/config"
	"washday/internal/pkg/metrics"
	"washday/internal/usecase"
	"washday/internal/usecase/commands"
	"washday/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	order.NewFactory,
	func(cfg config.Config) commands.SpinConfig {
		return commands.SpinConfig{MaxBatchSize: cfg.Game.MaxBatchSize}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewOrderUseCase,
		commands.NewSpinUseCase,
		func(keys commands.ExpiredKeyDeleter, cfg config.Config) *commands.IdempotencySweeper {
			return commands.NewIdempotencySweeper(keys, cfg.Server.IdempotencySweepInterval)
		},
	),
	fx.Invoke(registerIdempotencySweeper),
)

func registerIdempotencySweeper(lc fx.Lifecycle, s *commands.IdempotencySweeper) {
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			s.Start()
			return nil
		},
		OnStop: s.Stop,
	})
}

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewOrderQueries,
		queries.NewWalletQueries,
		func(e catalog.Engines, engine *pricing.Engine, m *metrics.Metrics) queries.QuoteQueries {
			return queries.NewQuoteQueries(engine, e.Currency, m)
		},
		func(e catalog.Engines, engine *wheel.Engine) queries.WheelQueries {
			return queries.NewWheelQueries(engine, e.Currency)
		},
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
