package bootstrap

import (
	"washday/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	MetricsModule,
	DBModule,
	RedisModule,
	JWTModule,
	GameModule,
	components.PersistenceModule,
	components.UseCaseModule,
	components.HandlerModule,
)
