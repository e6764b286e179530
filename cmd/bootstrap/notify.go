package bootstrap

import (
	"context"
	"log/slog"

	"campus-market/internal/infra/notify"
	"campus-market/internal/pkg/config"
	"campus-market/internal/usecase/shared"

	"github.com/hibiken/asynq"
	"go.uber.org/fx"
)

var NotifyModule = fx.Module("notify",
	fx.Provide(
		NewNotifier,
	),
)

// NewNotifier enqueues on Redis when REDIS_ADDR is set and logs otherwise.
func NewNotifier(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) shared.Notifier {
	if cfg.Notify.RedisAddr == "" {
		return notify.NewLogNotifier(logger)
	}

	client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Notify.RedisAddr})
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			return client.Close()
		},
	})
	logger.Info("notifications enqueued via asynq",
		slog.String("redis", cfg.Notify.RedisAddr),
		slog.String("queue", cfg.Notify.Queue),
	)
	return notify.NewAsynqNotifier(client, cfg.Notify.Queue)
}
