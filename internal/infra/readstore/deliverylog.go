package readstore

import (
	"context"

	"buildquote/internal/infra"
	"buildquote/internal/infra/db"
	"buildquote/internal/usecase/queries"

	"github.com/google/uuid"
)

type DeliveryLogReadStore struct {
	db db.DBTX
}

func NewDeliveryLogReadStore(dbtx db.DBTX) *DeliveryLogReadStore {
	return &DeliveryLogReadStore{db: dbtx}
}

func (r *DeliveryLogReadStore) ListBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID) ([]queries.DeliveryLogView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, subject_type, subject_id, channel, recipient,
		        attempted_at, success, error_detail
		 FROM notification_delivery_log
		 WHERE subject_type = $1 AND subject_id = $2
		 ORDER BY attempted_at DESC`,
		subjectType, subjectID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find delivery log", err)
	}
	defer rows.Close()

	var views []queries.DeliveryLogView
	for rows.Next() {
		var v queries.DeliveryLogView
		if err := rows.Scan(&v.ID, &v.SubjectType, &v.SubjectID, &v.Channel,
			&v.Recipient, &v.AttemptedAt, &v.Success, &v.ErrorDetail); err != nil {
			return nil, infra.WrapRepoErr("failed to scan delivery log row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read delivery log", err)
	}
	return views, nil
}
