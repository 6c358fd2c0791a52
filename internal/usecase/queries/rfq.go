package queries

import (
	"context"
	"time"

	"buildquote/internal/domain/rfq"
	"buildquote/internal/pkg/clock"
	"buildquote/internal/pkg/errs"

	"github.com/google/uuid"
)

// RfqReadStore is implemented by the pool-backed read side.
type RfqReadStore interface {
	GetRfq(ctx context.Context, id uuid.UUID) (*RfqView, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]RfqSummaryView, error)
	// ListForSupplier returns the RFQs the supplier was invited to.
	ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]RfqSummaryView, error)
	// IsRecipient reports whether the supplier holds a recipient row.
	IsRecipient(ctx context.Context, rfqID, supplierID uuid.UUID) (bool, error)
}

type RfqQueries interface {
	// GetRfq returns the full request for its requester, or for an invited
	// supplier.
	GetRfq(ctx context.Context, actorID uuid.UUID, isSupplier bool, rfqID uuid.UUID) (*RfqView, error)
	ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]RfqSummaryView, error)
	ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]RfqSummaryView, error)
}

type rfqQueries struct {
	store RfqReadStore
	clock clock.Clock
}

func NewRfqQueries(store RfqReadStore, clk clock.Clock) RfqQueries {
	return &rfqQueries{store: store, clock: clk}
}

func (q *rfqQueries) GetRfq(ctx context.Context, actorID uuid.UUID, isSupplier bool, rfqID uuid.UUID) (*RfqView, error) {
	view, err := q.store.GetRfq(ctx, rfqID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to get rfq")
	}
	if view == nil {
		return nil, errs.Mark(errs.New("rfq not found"), errs.ErrNotFound)
	}

	if isSupplier {
		invited, err := q.store.IsRecipient(ctx, rfqID, actorID)
		if err != nil {
			return nil, errs.Wrap(err, "failed to check recipient")
		}
		if !invited {
			return nil, errs.Mark(errs.New("supplier was not invited to this rfq"), errs.ErrNotAuthorized)
		}
	} else if view.RequesterID != actorID {
		return nil, errs.Mark(errs.New("rfq belongs to another requester"), errs.ErrNotAuthorized)
	}

	view.Status = DisplayRfqStatus(view.Status, view.ExpiresAt, q.clock.Now())
	return view, nil
}

func (q *rfqQueries) ListByRequester(ctx context.Context, requesterID uuid.UUID) ([]RfqSummaryView, error) {
	views, err := q.store.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list rfqs")
	}
	q.deriveStatuses(views)
	return views, nil
}

func (q *rfqQueries) ListForSupplier(ctx context.Context, supplierID uuid.UUID) ([]RfqSummaryView, error) {
	views, err := q.store.ListForSupplier(ctx, supplierID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list rfqs")
	}
	q.deriveStatuses(views)
	return views, nil
}

func (q *rfqQueries) deriveStatuses(views []RfqSummaryView) {
	now := q.clock.Now()
	for i := range views {
		views[i].Status = DisplayRfqStatus(views[i].Status, views[i].ExpiresAt, now)
	}
}

// DisplayRfqStatus folds the lazy expiry into the read path: an RFQ past its
// deadline reads as expired even if no write has transitioned the row yet.
func DisplayRfqStatus(status string, expiresAt, now time.Time) string {
	if rfq.Status(status).AcceptsQuotes() && now.After(expiresAt) {
		return rfq.StatusExpired.String()
	}
	return status
}
