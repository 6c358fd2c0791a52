package readstore

import (
	"context"
	"errors"
	"time"

	"buildquote/internal/domain/catalog"
	"buildquote/internal/domain/quote"
	"buildquote/internal/domain/rfq"
	"buildquote/internal/domain/supplier"
	"buildquote/internal/infra"
	"buildquote/internal/infra/db"
	"buildquote/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CommandReads hydrates the snapshots the write side validates against.
// Lookups return (nil, nil) when the row does not exist; commands translate
// that into their own not-found or not-authorized outcomes.
type CommandReads struct {
	db db.DBTX
}

func NewCommandReads(dbtx db.DBTX) *CommandReads {
	return &CommandReads{db: dbtx}
}

func (r *CommandReads) MaterialsByKeys(ctx context.Context, keys []string) (map[string]catalog.Material, error) {
	rows, err := r.db.Query(ctx,
		`SELECT key, name, unit, category FROM materials WHERE key = ANY($1)`,
		keys)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load materials", err)
	}
	defer rows.Close()

	materials := make(map[string]catalog.Material, len(keys))
	for rows.Next() {
		var m catalog.Material
		if err := rows.Scan(&m.Key, &m.Name, &m.Unit, &m.Category); err != nil {
			return nil, infra.WrapRepoErr("failed to scan material", err)
		}
		materials[m.Key] = m
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read materials", err)
	}
	return materials, nil
}

func (r *CommandReads) SupplierByID(ctx context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, name, email, phone, location, delivery_radius_km,
		        categories, tier, rating, response_rate, active
		 FROM suppliers WHERE id = $1`, id)
	s, err := scanSupplier(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to load supplier", err)
	}
	return s, nil
}

func (r *CommandReads) ActiveSuppliersByCategories(ctx context.Context, categories []string) ([]supplier.Supplier, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, email, phone, location, delivery_radius_km,
		        categories, tier, rating, response_rate, active
		 FROM suppliers
		 WHERE active AND categories && $1
		 ORDER BY name`,
		categories)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load candidate suppliers", err)
	}
	defer rows.Close()

	var suppliers []supplier.Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, infra.WrapRepoErr("failed to scan supplier", err)
		}
		suppliers = append(suppliers, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read suppliers", err)
	}
	return suppliers, nil
}

func scanSupplier(row pgx.Row) (*supplier.Supplier, error) {
	var (
		s    supplier.Supplier
		tier string
	)
	err := row.Scan(&s.ID, &s.Name, &s.Email, &s.Phone, &s.Location,
		&s.DeliveryRadiusKm, &s.Categories, &tier, &s.Rating,
		&s.ResponseRate, &s.Active)
	if err != nil {
		return nil, err
	}
	s.Tier = supplier.VerificationTier(tier)
	return &s, nil
}

func (r *CommandReads) BuilderContact(ctx context.Context, userID uuid.UUID) (*catalog.Contact, error) {
	var c catalog.Contact
	err := r.db.QueryRow(ctx,
		`SELECT name, email, phone FROM builder_contacts WHERE user_id = $1`,
		userID).Scan(&c.Name, &c.Email, &c.Phone)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to load builder contact", err)
	}
	return &c, nil
}

const rfqSnapshotColumns = `
	id, project_id, requester_id, delivery_address, required_by,
	status, created_at, expires_at`

func (r *CommandReads) RfqForUpdate(ctx context.Context, id uuid.UUID) (*shared.RfqSnapshot, error) {
	return r.rfqSnapshot(ctx,
		`SELECT `+rfqSnapshotColumns+` FROM rfq_requests WHERE id = $1 FOR UPDATE`, id)
}

func (r *CommandReads) RfqByID(ctx context.Context, id uuid.UUID) (*shared.RfqSnapshot, error) {
	return r.rfqSnapshot(ctx,
		`SELECT `+rfqSnapshotColumns+` FROM rfq_requests WHERE id = $1`, id)
}

func (r *CommandReads) rfqSnapshot(ctx context.Context, sql string, id uuid.UUID) (*shared.RfqSnapshot, error) {
	var (
		snap       shared.RfqSnapshot
		requiredBy *time.Time
		status     string
	)
	err := r.db.QueryRow(ctx, sql, id).Scan(
		&snap.ID, &snap.ProjectID, &snap.RequesterID, &snap.DeliveryAddress,
		&requiredBy, &status, &snap.CreatedAt, &snap.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to load rfq", err)
	}
	if requiredBy != nil {
		snap.RequiredBy = *requiredBy
	}
	snap.Status = rfq.Status(status)
	return &snap, nil
}

func (r *CommandReads) RfqItems(ctx context.Context, rfqID uuid.UUID) ([]shared.RfqItemSnapshot, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, material_key, quantity::text, unit
		 FROM rfq_items WHERE rfq_id = $1`, rfqID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to load rfq items", err)
	}
	defer rows.Close()

	var items []shared.RfqItemSnapshot
	for rows.Next() {
		var (
			item shared.RfqItemSnapshot
			qty  string
		)
		if err := rows.Scan(&item.ID, &item.MaterialKey, &qty, &item.Unit); err != nil {
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

func (r *CommandReads) Recipient(ctx context.Context, rfqID, supplierID uuid.UUID) (*shared.RecipientSnapshot, error) {
	var (
		snap   shared.RecipientSnapshot
		status string
	)
	err := r.db.QueryRow(ctx,
		`SELECT id, rfq_id, supplier_id, status, first_viewed_at
		 FROM rfq_recipients WHERE rfq_id = $1 AND supplier_id = $2`,
		rfqID, supplierID).Scan(
		&snap.ID, &snap.RfqID, &snap.SupplierID, &status, &snap.FirstViewedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to load recipient", err)
	}
	snap.Status = rfq.RecipientStatus(status)
	return &snap, nil
}

const quoteSnapshotSQL = `
SELECT id, rfq_id, supplier_id, total_usd::text, total_zwg::text,
       delivery_days, valid_until, status, submitted_at
FROM rfq_quotes`

func (r *CommandReads) LiveQuote(ctx context.Context, rfqID, supplierID uuid.UUID) (*shared.QuoteSnapshot, error) {
	row := r.db.QueryRow(ctx,
		quoteSnapshotSQL+` WHERE rfq_id = $1 AND supplier_id = $2 AND status = 'submitted'`,
		rfqID, supplierID)
	return scanQuoteSnapshot(row)
}

func (r *CommandReads) QuoteByID(ctx context.Context, id uuid.UUID) (*shared.QuoteSnapshot, error) {
	row := r.db.QueryRow(ctx, quoteSnapshotSQL+` WHERE id = $1`, id)
	return scanQuoteSnapshot(row)
}

func scanQuoteSnapshot(row pgx.Row) (*shared.QuoteSnapshot, error) {
	var (
		snap       shared.QuoteSnapshot
		totalUSD   string
		totalZWG   string
		validUntil *time.Time
		status     string
	)
	err := row.Scan(&snap.ID, &snap.RfqID, &snap.SupplierID, &totalUSD,
		&totalZWG, &snap.DeliveryDays, &validUntil, &status, &snap.SubmittedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, infra.WrapRepoErr("failed to load quote", err)
	}
	if snap.TotalUSD, err = decimal.NewFromString(totalUSD); err != nil {
		return nil, infra.WrapRepoErr("failed to parse quote total", err)
	}
	if snap.TotalZWG, err = decimal.NewFromString(totalZWG); err != nil {
		return nil, infra.WrapRepoErr("failed to parse quote total", err)
	}
	if validUntil != nil {
		snap.ValidUntil = *validUntil
	}
	snap.Status = quote.Status(status)
	return &snap, nil
}
