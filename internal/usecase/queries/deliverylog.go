package queries

import (
	"context"

	"buildquote/internal/pkg/errs"

	"github.com/google/uuid"
)

type DeliveryLogReadStore interface {
	ListBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID) ([]DeliveryLogView, error)
}

// NotificationQueries exposes the delivery audit trail. Admin-only surface.
type NotificationQueries interface {
	ListBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID) ([]DeliveryLogView, error)
}

type notificationQueries struct {
	store DeliveryLogReadStore
}

func NewNotificationQueries(store DeliveryLogReadStore) NotificationQueries {
	return &notificationQueries{store: store}
}

func (q *notificationQueries) ListBySubject(ctx context.Context, subjectType string, subjectID uuid.UUID) ([]DeliveryLogView, error) {
	logs, err := q.store.ListBySubject(ctx, subjectType, subjectID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list delivery log")
	}
	return logs, nil
}
