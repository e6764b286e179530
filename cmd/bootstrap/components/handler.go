package components

import (
	"campus-market/internal/handler"
	"campus-market/internal/handler/api"
	"campus-market/internal/handler/middleware"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewMatchHandler,
		api.NewErrandHandler,
		api.NewRefundHandler,
		api.NewWalletHandler,
		api.NewPaymentHandler,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)
