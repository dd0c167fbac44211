package components

import (
	"kilnbook/internal/pkg/clock"
	"kilnbook/internal/pkg/config"
	"kilnbook/internal/usecase"
	"kilnbook/internal/usecase/commands"
	"kilnbook/internal/usecase/queries"
	"kilnbook/internal/usecase/shared"
	"kilnbook/internal/usecase/tariff"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	tariff.NewResolver,
	func(clk clock.Clock, cfg config.Config) (*shared.Timekeeper, error) {
		loc, err := cfg.Settlement.Location()
		if err != nil {
			return nil, err
		}
		return shared.NewTimekeeper(clk, loc), nil
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewReservationCommands,
		commands.NewResourceCommands,
		commands.NewTariffCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCalendarQueries,
		queries.NewReportQueries,
		queries.NewResourceQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
