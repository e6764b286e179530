package bootstrap

import (
	"log/slog"

	"campus-market/internal/pkg/config"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Invoke(registerAcceptanceSweeper),
)

func registerAcceptanceSweeper(lc fx.Lifecycle, cfg config.Config, matches commands.MatchCommands, logger *slog.Logger) {
	if !cfg.Market.SweepEnabled {
		return
	}
	sweeper := worker.NewAcceptanceSweeper(matches, cfg.Market.SweepInterval, logger)
	lc.Append(fx.Hook{
		OnStart: sweeper.Start,
		OnStop:  sweeper.Stop,
	})
}
