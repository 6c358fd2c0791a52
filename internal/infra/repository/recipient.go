package repository

import (
	"context"
	"time"

	"buildquote/internal/domain/rfq"
	"buildquote/internal/infra"
	"buildquote/internal/infra/db"

	"github.com/google/uuid"
)

type RecipientRepository struct {
	db db.DBTX
}

func NewRecipientRepository(dbtx db.DBTX) *RecipientRepository {
	return &RecipientRepository{db: dbtx}
}

func (r *RecipientRepository) CreateBatch(ctx context.Context, rfqID uuid.UUID, supplierIDs []uuid.UUID) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(supplierIDs))
	for _, supplierID := range supplierIDs {
		id := uuid.New()
		_, err := r.db.Exec(ctx,
			`INSERT INTO rfq_recipients (id, rfq_id, supplier_id, status, notified_at)
			 VALUES ($1, $2, $3, $4, now())`,
			id, rfqID, supplierID, rfq.RecipientNotified.String())
		if err != nil {
			return nil, infra.WrapRepoErr("failed to create recipient", err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *RecipientRepository) UpdateStatus(ctx context.Context, rfqID, supplierID uuid.UUID, status rfq.RecipientStatus) error {
	_, err := r.db.Exec(ctx,
		`UPDATE rfq_recipients SET status = $1 WHERE rfq_id = $2 AND supplier_id = $3`,
		status.String(), rfqID, supplierID)
	if err != nil {
		return infra.WrapRepoErr("failed to update recipient status", err)
	}
	return nil
}

// MarkViewed records the first view only; a recipient that already quoted or
// declined keeps its stronger status.
func (r *RecipientRepository) MarkViewed(ctx context.Context, rfqID, supplierID uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE rfq_recipients
		 SET first_viewed_at = COALESCE(first_viewed_at, $1),
		     status = CASE WHEN status = 'notified' THEN 'viewed' ELSE status END
		 WHERE rfq_id = $2 AND supplier_id = $3`,
		at, rfqID, supplierID)
	if err != nil {
		return infra.WrapRepoErr("failed to mark recipient viewed", err)
	}
	return nil
}
