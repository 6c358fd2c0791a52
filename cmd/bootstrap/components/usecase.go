package components

import (
	"buildquote/internal/domain/quote"
	"buildquote/internal/domain/rfq"
	"buildquote/internal/matching"
	"buildquote/internal/pkg/clock"
	"buildquote/internal/pkg/config"
	"buildquote/internal/usecase"
	"buildquote/internal/usecase/commands"
	"buildquote/internal/usecase/queries"

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
	func(clk clock.Clock) *rfq.Services {
		return &rfq.Services{Clock: clk}
	},
	func(clk clock.Clock) *quote.Services {
		return &quote.Services{Clock: clk}
	},
	func(services *rfq.Services, cfg config.Config) *rfq.Factory {
		return rfq.NewFactory(services, cfg.Rfq.ExpiryDays)
	},
	NewMatchingEngine,
)

func NewMatchingEngine(cfg config.Config) *matching.Engine {
	return matching.NewEngine(matching.Config{
		TierWeight:         cfg.Matching.TierWeight,
		RatingWeight:       cfg.Matching.RatingWeight,
		ResponseRateWeight: cfg.Matching.ResponseRateWeight,
		Cap:                cfg.Matching.Cap,
	}, matching.SubstringLocationFilter{}, matching.UnsetResponseRate{})
}

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewRfqCommands,
		commands.NewQuoteCommands,
		commands.NewAcceptanceCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewRfqQueries,
		queries.NewQuoteQueries,
		queries.NewNotificationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)
