package repository

import (
	"context"

	"buildquote/internal/domain/quote"
	"buildquote/internal/infra"
	"buildquote/internal/infra/db"
	"buildquote/internal/usecase/shared"

	"github.com/google/uuid"
)

type QuoteRepository struct {
	db db.DBTX
}

func NewQuoteRepository(dbtx db.DBTX) *QuoteRepository {
	return &QuoteRepository{db: dbtx}
}

const insertQuoteSQL = `
INSERT INTO rfq_quotes (
	id, rfq_id, supplier_id, total_usd, total_zwg, delivery_days,
	valid_until, notes, status, submitted_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

const insertQuoteItemSQL = `
INSERT INTO rfq_quote_items (
	id, quote_id, rfq_item_id, unit_price_usd, unit_price_zwg,
	available_qty, notes
) VALUES ($1, $2, $3, $4, $5, $6, $7)`

func (r *QuoteRepository) Create(ctx context.Context, q *quote.Quote) error {
	return r.insert(ctx, q.ID(), q)
}

// Replace rewrites a live quote in place, keeping the original row id so the
// partial unique index on submitted quotes never sees two rows.
func (r *QuoteRepository) Replace(ctx context.Context, existingID uuid.UUID, q *quote.Quote) error {
	_, err := r.db.Exec(ctx,
		`UPDATE rfq_quotes
		 SET total_usd = $1, total_zwg = $2, delivery_days = $3,
		     valid_until = $4, notes = $5, submitted_at = $6
		 WHERE id = $7 AND status = 'submitted'`,
		q.TotalUSD().String(), q.TotalZWG().String(), q.DeliveryDays(),
		nullableTime(q.ValidUntil()), q.Notes(), q.SubmittedAt(), existingID)
	if err != nil {
		return infra.WrapRepoErr("failed to update quote", err)
	}

	if _, err := r.db.Exec(ctx,
		`DELETE FROM rfq_quote_items WHERE quote_id = $1`, existingID); err != nil {
		return infra.WrapRepoErr("failed to clear quote items", err)
	}
	return r.insertItems(ctx, existingID, q)
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to quote.Status) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE rfq_quotes SET status = $1 WHERE id = $2 AND status = $3`,
		to.String(), id, from.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update quote status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *QuoteRepository) RejectSubmittedSiblings(ctx context.Context, rfqID, acceptedQuoteID uuid.UUID) ([]shared.SiblingQuote, error) {
	rows, err := r.db.Query(ctx,
		`UPDATE rfq_quotes SET status = 'rejected'
		 WHERE rfq_id = $1 AND id <> $2 AND status = 'submitted'
		 RETURNING id, supplier_id`,
		rfqID, acceptedQuoteID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to reject sibling quotes", err)
	}
	defer rows.Close()

	var rejected []shared.SiblingQuote
	for rows.Next() {
		var s shared.SiblingQuote
		if err := rows.Scan(&s.ID, &s.SupplierID); err != nil {
			return nil, infra.WrapRepoErr("failed to scan rejected quote", err)
		}
		rejected = append(rejected, s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read rejected quotes", err)
	}
	return rejected, nil
}

func (r *QuoteRepository) insert(ctx context.Context, id uuid.UUID, q *quote.Quote) error {
	_, err := r.db.Exec(ctx, insertQuoteSQL,
		id, q.RfqID(), q.SupplierID(),
		q.TotalUSD().String(), q.TotalZWG().String(), q.DeliveryDays(),
		nullableTime(q.ValidUntil()), q.Notes(), q.Status().String(), q.SubmittedAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create quote", err)
	}
	return r.insertItems(ctx, id, q)
}

func (r *QuoteRepository) insertItems(ctx context.Context, quoteID uuid.UUID, q *quote.Quote) error {
	for _, item := range q.Items() {
		_, err := r.db.Exec(ctx, insertQuoteItemSQL,
			item.ID(), quoteID, item.RfqItemID(),
			item.UnitPriceUSD().String(), item.UnitPriceZWG().String(),
			item.AvailableQty().String(), item.Notes())
		if err != nil {
			return infra.WrapRepoErr("failed to create quote item", err)
		}
	}
	return nil
}
