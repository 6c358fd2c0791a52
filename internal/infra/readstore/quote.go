package readstore

import (
	"context"
	"errors"

	"buildquote/internal/infra"
	"buildquote/internal/infra/db"
	"buildquote/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type QuoteReadStore struct {
	db db.DBTX
}

func NewQuoteReadStore(dbtx db.DBTX) *QuoteReadStore {
	return &QuoteReadStore{db: dbtx}
}

const quoteViewSQL = `
SELECT q.id, q.rfq_id, q.supplier_id, s.name, s.tier, s.rating,
       q.total_usd::text, q.total_zwg::text, q.delivery_days, q.valid_until,
       q.notes, q.status, q.submitted_at
FROM rfq_quotes q
JOIN suppliers s ON s.id = q.supplier_id`

func (r *QuoteReadStore) ListByRfq(ctx context.Context, rfqID uuid.UUID) ([]queries.QuoteView, error) {
	rows, err := r.db.Query(ctx,
		quoteViewSQL+` WHERE q.rfq_id = $1 ORDER BY q.total_usd`, rfqID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find quotes by rfq", err)
	}
	var views []queries.QuoteView
	for rows.Next() {
		view, err := scanQuoteView(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		views = append(views, *view)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read quotes", err)
	}

	// Hydrate line items after the cursor closes; a single connection
	// cannot interleave queries.
	for i := range views {
		if views[i].Items, err = r.items(ctx, views[i].ID); err != nil {
			return nil, err
		}
	}
	return views, nil
}

func (r *QuoteReadStore) GetForSupplier(ctx context.Context, rfqID, supplierID uuid.UUID) (*queries.QuoteView, error) {
	row := r.db.QueryRow(ctx,
		quoteViewSQL+`
		 WHERE q.rfq_id = $1 AND q.supplier_id = $2
		 ORDER BY q.submitted_at DESC
		 LIMIT 1`,
		rfqID, supplierID)
	view, err := scanQuoteView(row)
	if err != nil {
		if errors.Is(err, errNoQuote) {
			return nil, nil
		}
		return nil, err
	}
	if view.Items, err = r.items(ctx, view.ID); err != nil {
		return nil, err
	}
	return view, nil
}

var errNoQuote = errors.New("no quote")

func scanQuoteView(row pgx.Row) (*queries.QuoteView, error) {
	var (
		view     queries.QuoteView
		totalUSD string
		totalZWG string
	)
	err := row.Scan(&view.ID, &view.RfqID, &view.SupplierID, &view.SupplierName,
		&view.TierLabel, &view.Rating, &totalUSD, &totalZWG,
		&view.DeliveryDays, &view.ValidUntil, &view.Notes, &view.Status,
		&view.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errNoQuote
		}
		return nil, infra.WrapRepoErr("failed to scan quote", err)
	}
	if view.TotalUSD, err = decimal.NewFromString(totalUSD); err != nil {
		return nil, infra.WrapRepoErr("failed to parse quote total", err)
	}
	if view.TotalZWG, err = decimal.NewFromString(totalZWG); err != nil {
		return nil, infra.WrapRepoErr("failed to parse quote total", err)
	}
	return &view, nil
}

func (r *QuoteReadStore) items(ctx context.Context, quoteID uuid.UUID) ([]queries.QuoteItemView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT qi.id, qi.rfq_item_id, ri.material_key, m.name,
		        qi.unit_price_usd::text, qi.unit_price_zwg::text,
		        qi.available_qty::text, qi.notes
		 FROM rfq_quote_items qi
		 JOIN rfq_items ri ON ri.id = qi.rfq_item_id
		 JOIN materials m ON m.key = ri.material_key
		 WHERE qi.quote_id = $1
		 ORDER BY m.name`, quoteID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find quote items", err)
	}
	defer rows.Close()

	var items []queries.QuoteItemView
	for rows.Next() {
		var (
			item         queries.QuoteItemView
			priceUSD     string
			priceZWG     string
			availableQty string
		)
		if err := rows.Scan(&item.ID, &item.RfqItemID, &item.MaterialKey,
			&item.MaterialName, &priceUSD, &priceZWG, &availableQty, &item.Notes); err != nil {
			return nil, infra.WrapRepoErr("failed to scan quote item", err)
		}
		if item.UnitPriceUSD, err = decimal.NewFromString(priceUSD); err != nil {
			return nil, infra.WrapRepoErr("failed to parse quote item price", err)
		}
		if item.UnitPriceZWG, err = decimal.NewFromString(priceZWG); err != nil {
			return nil, infra.WrapRepoErr("failed to parse quote item price", err)
		}
		if item.AvailableQty, err = decimal.NewFromString(availableQty); err != nil {
			return nil, infra.WrapRepoErr("failed to parse quote item quantity", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read quote items", err)
	}
	return items, nil
}

func (r *QuoteReadStore) RfqRequester(ctx context.Context, rfqID uuid.UUID) (*uuid.UUID, error) {
	var requesterID uuid.UUID
	err := r.db.QueryRow(ctx,
		`SELECT requester_id FROM rfq_requests WHERE id = $1`, rfqID).Scan(&requesterID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find rfq requester", err)
	}
	return &requesterID, nil
}
