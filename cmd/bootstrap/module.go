package bootstrap

import (
	"campus-market/cmd/bootstrap/components"

	"go.uber.org/fx"
)

var Module = fx.Options(
	ConfigModule,
	LoggerModule,
	DBModule,
	JWTModule,
	NotifyModule,
	components.UseCaseModule,
	components.HandlerModule,
	WorkerModule,
)
