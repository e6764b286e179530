package bootstrap

import (
	"log/slog"
	"time"

	"campus-market/internal/pkg/config"

	"go.uber.org/fx"
)

// ConfigModule loads the environment once and exposes the pieces other
// modules consume on their own.
var ConfigModule = fx.Module("config",
	fx.Provide(
		config.LoadConfig,
		MarketLocation,
	),
	fx.Invoke(logStoreDriver),
)

// MarketLocation is the campus wall clock delivery windows are priced in.
func MarketLocation(cfg config.Config) *time.Location {
	return cfg.Market.Location()
}

func logStoreDriver(cfg config.Config, logger *slog.Logger) {
	logger.Info("configuration loaded",
		slog.String("store_driver", cfg.Store.Driver),
		slog.String("market_timezone", cfg.Market.TimeZone),
		slog.Bool("acceptance_sweep", cfg.Market.SweepEnabled),
	)
}
