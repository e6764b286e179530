package components

import (
	"campus-market/internal/domain/match"
	"campus-market/internal/pkg/clock"
	"campus-market/internal/usecase/commands"
	"campus-market/internal/usecase/queries"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	fx.Annotate(
		match.NewDefaultDeliveryPricer,
		fx.As(new(match.PriceCalculator)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewMatchUseCase,
		commands.NewErrandUseCase,
		commands.NewRefundUseCase,
		commands.NewPaymentUseCase,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewMarketQueries,
		queries.NewWalletQueries,
	),
)
