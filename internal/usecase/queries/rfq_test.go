//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"buildquote/internal/domain/rfq"
	"buildquote/internal/pkg/clock"
	"buildquote/internal/pkg/errs"
	"buildquote/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeRfqStore struct {
	views      map[uuid.UUID]*queries.RfqView
	summaries  []queries.RfqSummaryView
	recipients map[uuid.UUID]map[uuid.UUID]bool
}

func (s *fakeRfqStore) GetRfq(_ context.Context, id uuid.UUID) (*queries.RfqView, error) {
	if v, ok := s.views[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, nil
}

func (s *fakeRfqStore) ListByRequester(_ context.Context, _ uuid.UUID) ([]queries.RfqSummaryView, error) {
	return append([]queries.RfqSummaryView(nil), s.summaries...), nil
}

func (s *fakeRfqStore) ListForSupplier(_ context.Context, _ uuid.UUID) ([]queries.RfqSummaryView, error) {
	return append([]queries.RfqSummaryView(nil), s.summaries...), nil
}

func (s *fakeRfqStore) IsRecipient(_ context.Context, rfqID, supplierID uuid.UUID) (bool, error) {
	return s.recipients[rfqID][supplierID], nil
}

func TestGetRfq(t *testing.T) {
	ctx := context.Background()
	requesterID := uuid.New()
	supplierID := uuid.New()
	rfqID := uuid.New()

	newStore := func() *fakeRfqStore {
		return &fakeRfqStore{
			views: map[uuid.UUID]*queries.RfqView{
				rfqID: {
					ID:          rfqID,
					RequesterID: requesterID,
					Status:      rfq.StatusOpen.String(),
					ExpiresAt:   fixedNow.AddDate(0, 0, 14),
				},
			},
			recipients: map[uuid.UUID]map[uuid.UUID]bool{
				rfqID: {supplierID: true},
			},
		}
	}
	clk := clock.NewMockClock(fixedNow)

	t.Run("requester reads their own rfq", func(t *testing.T) {
		q := queries.NewRfqQueries(newStore(), clk)
		view, err := q.GetRfq(ctx, requesterID, false, rfqID)
		require.NoError(t, err)
		assert.Equal(t, rfqID, view.ID)
		assert.Equal(t, "open", view.Status)
	})

	t.Run("invited supplier reads the rfq", func(t *testing.T) {
		q := queries.NewRfqQueries(newStore(), clk)
		view, err := q.GetRfq(ctx, supplierID, true, rfqID)
		require.NoError(t, err)
		assert.Equal(t, rfqID, view.ID)
	})

	t.Run("uninvited supplier is rejected", func(t *testing.T) {
		q := queries.NewRfqQueries(newStore(), clk)
		_, err := q.GetRfq(ctx, uuid.New(), true, rfqID)
		assert.ErrorIs(t, err, errs.ErrNotAuthorized)
	})

	t.Run("another builder is rejected", func(t *testing.T) {
		q := queries.NewRfqQueries(newStore(), clk)
		_, err := q.GetRfq(ctx, uuid.New(), false, rfqID)
		assert.ErrorIs(t, err, errs.ErrNotAuthorized)
	})

	t.Run("unknown rfq", func(t *testing.T) {
		q := queries.NewRfqQueries(newStore(), clk)
		_, err := q.GetRfq(ctx, requesterID, false, uuid.New())
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("past-deadline rfq reads as expired", func(t *testing.T) {
		late := clock.NewMockClock(fixedNow.AddDate(0, 0, 15))
		q := queries.NewRfqQueries(newStore(), late)
		view, err := q.GetRfq(ctx, requesterID, false, rfqID)
		require.NoError(t, err)
		assert.Equal(t, "expired", view.Status)
	})
}

func TestListDerivesDisplayStatus(t *testing.T) {
	ctx := context.Background()
	store := &fakeRfqStore{
		summaries: []queries.RfqSummaryView{
			{ID: uuid.New(), Status: "open", ExpiresAt: fixedNow.AddDate(0, 0, 1)},
			{ID: uuid.New(), Status: "open", ExpiresAt: fixedNow.AddDate(0, 0, -1)},
			{ID: uuid.New(), Status: "accepted", ExpiresAt: fixedNow.AddDate(0, 0, -1)},
		},
	}
	q := queries.NewRfqQueries(store, clock.NewMockClock(fixedNow))

	views, err := q.ListByRequester(ctx, uuid.New())
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, "open", views[0].Status)
	assert.Equal(t, "expired", views[1].Status)
	// Deadlines stop mattering once the rfq has an outcome.
	assert.Equal(t, "accepted", views[2].Status)
}

func TestDisplayRfqStatus(t *testing.T) {
	past := fixedNow.Add(-time.Hour)
	future := fixedNow.Add(time.Hour)

	testCases := []struct {
		name      string
		status    string
		expiresAt time.Time
		want      string
	}{
		{"open before deadline", "open", future, "open"},
		{"open past deadline", "open", past, "expired"},
		{"draft past deadline", "draft", past, "expired"},
		{"accepted past deadline", "accepted", past, "accepted"},
		{"delivered past deadline", "delivered", past, "delivered"},
		{"cancelled past deadline", "cancelled", past, "cancelled"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, queries.DisplayRfqStatus(tc.status, tc.expiresAt, fixedNow))
		})
	}
}
