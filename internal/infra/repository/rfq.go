package repository

import (
	"context"

	"buildquote/internal/domain/rfq"
	"buildquote/internal/infra"
	"buildquote/internal/infra/db"

	"github.com/google/uuid"
)

type RfqRepository struct {
	db db.DBTX
}

func NewRfqRepository(dbtx db.DBTX) *RfqRepository {
	return &RfqRepository{db: dbtx}
}

const insertRfqSQL = `
INSERT INTO rfq_requests (
	id, project_id, requester_id, delivery_address, required_by, notes,
	status, created_at, expires_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const insertRfqItemSQL = `
INSERT INTO rfq_items (id, rfq_id, material_key, quantity, unit, specifications)
VALUES ($1, $2, $3, $4, $5, $6)`

func (r *RfqRepository) Create(ctx context.Context, agg *rfq.Rfq) error {
	var requiredBy any
	if !agg.RequiredBy().IsZero() {
		requiredBy = agg.RequiredBy()
	}

	_, err := r.db.Exec(ctx, insertRfqSQL,
		agg.ID(), agg.ProjectID(), agg.RequesterID(),
		agg.DeliveryAddress().String(), requiredBy, agg.Notes().String(),
		agg.Status().String(), agg.CreatedAt(), agg.ExpiresAt())
	if err != nil {
		return infra.WrapRepoErr("failed to create rfq", err)
	}

	for _, item := range agg.Items() {
		_, err := r.db.Exec(ctx, insertRfqItemSQL,
			item.ID(), agg.ID(), item.MaterialKey(),
			item.Quantity().Decimal().String(), item.Unit(),
			item.Specifications().String())
		if err != nil {
			return infra.WrapRepoErr("failed to create rfq item", err)
		}
	}
	return nil
}

// UpdateStatus is a compare-and-set: zero rows affected means the row was
// not in the expected state and the caller lost a race.
func (r *RfqRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to rfq.Status) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE rfq_requests SET status = $1 WHERE id = $2 AND status = $3`,
		to.String(), id, from.String())
	if err != nil {
		return false, infra.WrapRepoErr("failed to update rfq status", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *RfqRepository) SetDeliveryInstructions(ctx context.Context, id uuid.UUID, instructions string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE rfq_requests SET delivery_instructions = $1 WHERE id = $2`,
		instructions, id)
	if err != nil {
		return infra.WrapRepoErr("failed to set delivery instructions", err)
	}
	return nil
}
