package bootstrap

import (
	"context"
	"log/slog"

	"campus-market/internal/infra/db"
	"campus-market/internal/infra/memory"
	"campus-market/internal/infra/uow"
	"campus-market/internal/pkg/config"
	"campus-market/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var DBModule = fx.Module("db",
	fx.Provide(
		NewUnitOfWork,
	),
)

// NewUnitOfWork selects the store backing every transaction from STORE_DRIVER.
func NewUnitOfWork(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (shared.UnitOfWork, error) {
	if cfg.Store.Driver == config.StoreDriverMemory {
		logger.Warn("using in-memory store, data is lost on restart")
		return memory.NewUoW(memory.NewStore()), nil
	}

	pool, err := NewDB(lc, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Store.MigrateOnStart {
		if err := db.Migrate(pool, cfg.Store.MigrationsDir); err != nil {
			return nil, err
		}
		logger.Info("migrations applied", slog.String("dir", cfg.Store.MigrationsDir))
	}
	return uow.NewPostgresUoW(pool), nil
}

func NewDB(lc fx.Lifecycle, cfg config.Config) (*pgxpool.Pool, error) {
	pool, cleanup, err := db.Connect(context.Background(), cfg.DB)
	if err != nil {
		return nil, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			if cleanup != nil {
				cleanup()
			}
			return nil
		},
	})

	return pool, nil
}
