package components

import (
	"buildquote/internal/infra/db"
	"buildquote/internal/infra/readstore"
	"buildquote/internal/infra/uow"
	"buildquote/internal/usecase/queries"
	"buildquote/internal/usecase/shared"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewDBTX,
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(shared.UnitOfWork)),
		),
		fx.Annotate(
			readstore.NewRfqReadStore,
			fx.As(new(queries.RfqReadStore)),
		),
		fx.Annotate(
			readstore.NewQuoteReadStore,
			fx.As(new(queries.QuoteReadStore)),
		),
		fx.Annotate(
			readstore.NewDeliveryLogReadStore,
			fx.As(new(queries.DeliveryLogReadStore)),
		),
	),
)

// NewDBTX hands the pool to the query-side readstores, which run outside
// command transactions.
func NewDBTX(pool *pgxpool.Pool) db.DBTX {
	return pool
}
