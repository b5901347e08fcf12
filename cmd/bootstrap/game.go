package bootstrap

import (
	"log/slog"
	"time"

	"washday/internal/domain/pricing"
	"washday/internal/domain/wheel"
	"washday/internal/pkg/catalog"
	"washday/internal/pkg/clock"
	"washday/internal/pkg/config"
	"washday/internal/pkg/rng"

	"go.uber.org/fx"
)

// GameModule provides the catalog-built engines and the time and randomness
// they run on.
var GameModule = fx.Module("game",
	fx.Provide(
		NewLocation,
		NewClock,
		NewEngines,
		func(e catalog.Engines) *pricing.Engine { return e.Pricing },
		func(e catalog.Engines) *wheel.Engine { return e.Wheel },
		fx.Annotate(
			rng.NewSecure,
			fx.As(new(wheel.RandomSource)),
		),
	),
)

func NewLocation(cfg config.Config) (*time.Location, error) {
	return cfg.Game.Location()
}

func NewClock(loc *time.Location) clock.Clock {
	return clock.NewRealClockIn(loc)
}

func NewEngines(cfg config.Config, logger *slog.Logger) (catalog.Engines, error) {
	engines, err := catalog.LoadEngines(cfg.Catalog.Path)
	if err != nil {
		return catalog.Engines{}, err
	}

	source := cfg.Catalog.Path
	if source == "" {
		source = "embedded"
	}
	logger.Info("catalog loaded",
		"source", source,
		"currency", engines.Currency,
		"segments", len(engines.Wheel.Wheel().Segments()),
		"expected_multiplier", engines.Wheel.Wheel().ExpectedMultiplier())
	return engines, nil
}
