package queries

import (
	"context"
	"time"

	"buildquote/internal/domain/quote"
	"buildquote/internal/pkg/clock"
	"buildquote/internal/pkg/errs"

	"github.com/google/uuid"
)

type QuoteReadStore interface {
	// ListByRfq returns every quote of the RFQ with line items and supplier
	// display data, ordered by total ascending.
	ListByRfq(ctx context.Context, rfqID uuid.UUID) ([]QuoteView, error)
	// GetForSupplier returns the supplier's own quote on the RFQ, if any.
	GetForSupplier(ctx context.Context, rfqID, supplierID uuid.UUID) (*QuoteView, error)
	RfqRequester(ctx context.Context, rfqID uuid.UUID) (*uuid.UUID, error)
}

type QuoteQueries interface {
	// ListByRfq is the comparison view for the requester: all quotes of
	// their RFQ side by side.
	ListByRfq(ctx context.Context, requesterID, rfqID uuid.UUID) ([]QuoteView, error)
	// GetOwn returns the supplier's current quote on an RFQ.
	GetOwn(ctx context.Context, supplierID, rfqID uuid.UUID) (*QuoteView, error)
}

type quoteQueries struct {
	store QuoteReadStore
	clock clock.Clock
}

func NewQuoteQueries(store QuoteReadStore, clk clock.Clock) QuoteQueries {
	return &quoteQueries{store: store, clock: clk}
}

func (q *quoteQueries) ListByRfq(ctx context.Context, requesterID, rfqID uuid.UUID) ([]QuoteView, error) {
	owner, err := q.store.RfqRequester(ctx, rfqID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to load rfq")
	}
	if owner == nil {
		return nil, errs.Mark(errs.New("rfq not found"), errs.ErrNotFound)
	}
	if *owner != requesterID {
		return nil, errs.Mark(errs.New("rfq belongs to another requester"), errs.ErrNotAuthorized)
	}

	views, err := q.store.ListByRfq(ctx, rfqID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to list quotes")
	}
	now := q.clock.Now()
	for i := range views {
		views[i].Status = DisplayQuoteStatus(views[i].Status, views[i].ValidUntil, now)
	}
	return views, nil
}

func (q *quoteQueries) GetOwn(ctx context.Context, supplierID, rfqID uuid.UUID) (*QuoteView, error) {
	view, err := q.store.GetForSupplier(ctx, rfqID, supplierID)
	if err != nil {
		return nil, errs.Wrap(err, "failed to get quote")
	}
	if view == nil {
		return nil, errs.Mark(errs.New("no quote submitted"), errs.ErrNotFound)
	}
	view.Status = DisplayQuoteStatus(view.Status, view.ValidUntil, q.clock.Now())
	return view, nil
}

// DisplayQuoteStatus folds quote validity lapse into the read path without
// writing: a submitted quote past its valid-until reads as expired.
func DisplayQuoteStatus(status string, validUntil *time.Time, now time.Time) string {
	if quote.Status(status) == quote.StatusSubmitted && validUntil != nil && now.After(*validUntil) {
		return quote.StatusExpired.String()
	}
	return status
}
