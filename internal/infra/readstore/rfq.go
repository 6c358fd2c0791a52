package readstore

import (
	"context"
	"errors"
	"time"

	"buildquote/internal/infra"
	"buildquote/internal/infra/db"
	"buildquote/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type RfqReadStore struct {
	db db.DBTX
}

func NewRfqReadStore(dbtx db.DBTX) *RfqReadStore {
	return &RfqReadStore{db: dbtx}
}

func (r *RfqReadStore) GetRfq(ctx context.Context, id uuid.UUID) (*queries.RfqView, error) {
	var (
		view       queries.RfqView
		requiredBy *time.Time
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, project_id, requester_id, delivery_address,
		        delivery_instructions, required_by, notes, status,
		        created_at, expires_at
		 FROM rfq_requests WHERE id = $1`, id).Scan(
		&view.ID, &view.ProjectID, &view.RequesterID, &view.DeliveryAddress,
		&view.DeliveryInstructions, &requiredBy, &view.Notes, &view.Status,
		&view.CreatedAt, &view.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to find rfq by ID", err)
	}
	view.RequiredBy = requiredBy

	if view.Items, err = r.items(ctx, id); err != nil {
		return nil, err
	}
	if view.Recipients, err = r.recipients(ctx, id); err != nil {
		return nil, err
	}
	return &view, nil
}

func (r *RfqReadStore) items(ctx context.Context, rfqID uuid.UUID) ([]queries.RfqItemView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT i.id, i.material_key, m.name, i.quantity::text, i.unit, i.specifications
		 FROM rfq_items i
		 JOIN materials m ON m.key = i.material_key
		 WHERE i.rfq_id = $1
		 ORDER BY m.name`, rfqID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find rfq items", err)
	}
	defer rows.Close()

	var items []queries.RfqItemView
	for rows.Next() {
		var (
			item queries.RfqItemView
			qty  string
		)
		if err := rows.Scan(&item.ID, &item.MaterialKey, &item.MaterialName,
			&qty, &item.Unit, &item.Specifications); err != nil {
			return nil, infra.WrapRepoErr("failed to scan rfq item", err)
		}
		if item.Quantity, err = decimal.NewFromString(qty); err != nil {
			return nil, infra.WrapRepoErr("failed to parse rfq item quantity", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read rfq items", err)
	}
	return items, nil
}

func (r *RfqReadStore) recipients(ctx context.Context, rfqID uuid.UUID) ([]queries.RecipientView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT rec.id, rec.supplier_id, s.name, rec.status, rec.notified_at,
		        rec.first_viewed_at
		 FROM rfq_recipients rec
		 JOIN suppliers s ON s.id = rec.supplier_id
		 WHERE rec.rfq_id = $1
		 ORDER BY s.name`, rfqID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find rfq recipients", err)
	}
	defer rows.Close()

	var recipients []queries.RecipientView
	for rows.Next() {
		var rec queries.RecipientView
		if err := rows.Scan(&rec.ID, &rec.SupplierID, &rec.SupplierName,
			&rec.Status, &rec.NotifiedAt, &rec.FirstViewedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan rfq recipient", err)
		}
		recipients = append(recipients, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read rfq recipients", err)
	}
	return recipients, nil
}

const rfqSummarySQL = `
SELECT r.id, r.project_id, r.delivery_address, r.status,
       (SELECT count(*) FROM rfq_items i WHERE i.rfq_id = r.id) AS item_count,
       (SELECT count(*) FROM rfq_quotes q WHERE q.rfq_id = r.id AND q.status <> 'rejected') AS quote_count,
       r.created_at, r.expires_at
FROM rfq_requests r`

func (r *RfqReadStore) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]queries.RfqSummaryView, error) {
	rows, err := r.db.Query(ctx,
		rfqSummarySQL+` WHERE r.requester_id = $1 ORDER BY r.created_at DESC`,
		requesterID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find rfqs by requester", err)
	}
	return scanSummaries(rows)
}

func (r *RfqReadStore) ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]queries.RfqSummaryView, error) {
	rows, err := r.db.Query(ctx,
		rfqSummarySQL+`
		 JOIN rfq_recipients rec ON rec.rfq_id = r.id
		 WHERE rec.supplier_id = $1
		 ORDER BY r.created_at DESC`,
		supplierID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find rfqs for supplier", err)
	}
	return scanSummaries(rows)
}

func scanSummaries(rows pgx.Rows) ([]queries.RfqSummaryView, error) {
	defer rows.Close()

	var views []queries.RfqSummaryView
	for rows.Next() {
		var v queries.RfqSummaryView
		if err := rows.Scan(&v.ID, &v.ProjectID, &v.DeliveryAddress, &v.Status,
			&v.ItemCount, &v.QuoteCount, &v.CreatedAt, &v.ExpiresAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan rfq summary", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read rfq summaries", err)
	}
	return views, nil
}

func (r *RfqReadStore) IsRecipient(ctx context.Context, rfqID, supplierID uuid.UUID) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
			SELECT 1 FROM rfq_recipients WHERE rfq_id = $1 AND supplier_id = $2
		 )`, rfqID, supplierID).Scan(&exists)
	if err != nil {
		return false, infra.WrapRepoErr("failed to check recipient", err)
	}
	return exists, nil
}
