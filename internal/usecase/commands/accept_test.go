//go:build unit

package commands_test

import (
	"context"
	"errors"
	"testing"

	"buildquote/internal/domain/quote"
	"buildquote/internal/domain/rfq"
	"buildquote/internal/notify"
	"buildquote/internal/pkg/clock"
	"buildquote/internal/pkg/errs"
	"buildquote/internal/usecase/commands"
	"buildquote/internal/usecase/shared"
	"buildquote/tests/common/builder"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type acceptFixture struct {
	st          *fakeState
	nudger      *fakeNudger
	clk         *clock.MockClock
	cmds        commands.AcceptanceCommands
	requesterID uuid.UUID
	rfqID       uuid.UUID
	winner      *shared.QuoteSnapshot
	siblings    []*shared.QuoteSnapshot
}

// newAcceptFixture seeds an open RFQ with three submitted quotes from three
// different suppliers.
func newAcceptFixture(t *testing.T) *acceptFixture {
	t.Helper()

	st := newFakeState()
	clk := clock.NewMockClock(builder.FixedNow)
	nudger := &fakeNudger{}

	requesterID := uuid.New()
	rfqID := uuid.New()
	st.rfqs[rfqID] = &shared.RfqSnapshot{
		ID:          rfqID,
		RequesterID: requesterID,
		Status:      rfq.StatusOpen,
		ExpiresAt:   builder.FixedNow.AddDate(0, 0, 14),
	}

	mkQuote := func(name string, totalUSD string) *shared.QuoteSnapshot {
		sup := builder.NewSupplierBuilder().With(func(b *builder.SupplierBuilder) {
			b.Name = name
			b.Email = name + "@example.com"
		}).Build()
		st.addSupplier(sup)
		snap := &shared.QuoteSnapshot{
			ID:         uuid.New(),
			RfqID:      rfqID,
			SupplierID: sup.ID,
			TotalUSD:   decimal.RequireFromString(totalUSD),
			Status:     quote.StatusSubmitted,
			ValidUntil: builder.FixedNow.AddDate(0, 0, 7),
		}
		st.quotes[snap.ID] = snap
		return snap
	}

	winner := mkQuote("winner", "950.00")
	sibA := mkQuote("loser-a", "1050.00")
	sibB := mkQuote("loser-b", "1200.00")

	return &acceptFixture{
		st:          st,
		nudger:      nudger,
		clk:         clk,
		cmds:        commands.NewAcceptanceCommands(fakeUoW{st}, nudger, clk, discardLogger()),
		requesterID: requesterID,
		rfqID:       rfqID,
		winner:      winner,
		siblings:    []*shared.QuoteSnapshot{sibA, sibB},
	}
}

func (f *acceptFixture) input() commands.AcceptQuoteInput {
	return commands.AcceptQuoteInput{
		RfqID:                f.rfqID,
		QuoteID:              f.winner.ID,
		DeliveryInstructions: "Gate B, ask for foreman",
	}
}

func TestAcceptQuote(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts the winner and rejects every sibling", func(t *testing.T) {
		f := newAcceptFixture(t)

		result, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		require.NoError(t, err)
		require.NotNil(t, result)

		assert.Equal(t, f.winner.ID, result.AcceptedQuoteID)
		assert.ElementsMatch(t, result.RejectedQuoteIDs,
			[]uuid.UUID{f.siblings[0].ID, f.siblings[1].ID})

		assert.Equal(t, quote.StatusAccepted, f.st.quotes[f.winner.ID].Status)
		for _, sib := range f.siblings {
			assert.Equal(t, quote.StatusRejected, f.st.quotes[sib.ID].Status)
		}
		assert.Equal(t, rfq.StatusAccepted, f.st.rfqs[f.rfqID].Status)
		assert.Equal(t, "Gate B, ask for foreman", f.st.instructions[f.rfqID])

		assert.Equal(t, 1, f.st.serializableCalls)
		assert.Equal(t, 1, f.nudger.nudges)
	})

	t.Run("notifies the winner and every loser", func(t *testing.T) {
		f := newAcceptFixture(t)

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		require.NoError(t, err)

		accepted := messagesByEvent(f.st.outbox, notify.EventQuoteAccepted)
		require.Len(t, accepted, 1)
		assert.Equal(t, "winner@example.com", accepted[0].RecipientEmail)
		assert.Equal(t, "950.00", accepted[0].Params["total_usd"])
		assert.Equal(t, "Gate B, ask for foreman", accepted[0].Params["delivery_instructions"])

		rejected := messagesByEvent(f.st.outbox, notify.EventQuoteRejected)
		require.Len(t, rejected, 2)
		losers := []string{rejected[0].RecipientEmail, rejected[1].RecipientEmail}
		assert.ElementsMatch(t, losers, []string{"loser-a@example.com", "loser-b@example.com"})
	})

	t.Run("unknown rfq", func(t *testing.T) {
		f := newAcceptFixture(t)
		input := f.input()
		input.RfqID = uuid.New()

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, input)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("another requester's rfq", func(t *testing.T) {
		f := newAcceptFixture(t)

		_, err := f.cmds.AcceptQuote(ctx, uuid.New(), f.input())
		assert.ErrorIs(t, err, errs.ErrNotAuthorized)
		assert.Equal(t, quote.StatusSubmitted, f.st.quotes[f.winner.ID].Status)
	})

	t.Run("quote from a different rfq", func(t *testing.T) {
		f := newAcceptFixture(t)
		stray := &shared.QuoteSnapshot{
			ID:     uuid.New(),
			RfqID:  uuid.New(),
			Status: quote.StatusSubmitted,
		}
		f.st.quotes[stray.ID] = stray

		input := f.input()
		input.QuoteID = stray.ID
		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, input)
		assert.ErrorIs(t, err, errs.ErrNotFound)
	})

	t.Run("already-decided quote", func(t *testing.T) {
		f := newAcceptFixture(t)
		f.st.quotes[f.winner.ID].Status = quote.StatusRejected

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("lapsed quote validity", func(t *testing.T) {
		f := newAcceptFixture(t)
		f.st.quotes[f.winner.ID].ValidUntil = builder.FixedNow.AddDate(0, 0, -1)

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("rfq past its deadline expires lazily", func(t *testing.T) {
		f := newAcceptFixture(t)
		f.clk.Set(builder.FixedNow.AddDate(0, 0, 15))

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		assert.ErrorIs(t, err, errs.ErrRfqExpired)
		// The expiry transition persists even though the accept failed.
		assert.Equal(t, rfq.StatusExpired, f.st.rfqs[f.rfqID].Status)
		assert.Equal(t, quote.StatusSubmitted, f.st.quotes[f.winner.ID].Status)
	})

	t.Run("rfq that already has an outcome", func(t *testing.T) {
		f := newAcceptFixture(t)
		f.st.rfqs[f.rfqID].Status = rfq.StatusAccepted

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		assert.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("a decided rfq past its deadline does not expire", func(t *testing.T) {
		f := newAcceptFixture(t)
		f.st.rfqs[f.rfqID].Status = rfq.StatusAccepted
		f.clk.Set(builder.FixedNow.AddDate(0, 0, 15))

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.Equal(t, rfq.StatusAccepted, f.st.rfqs[f.rfqID].Status)
	})

	t.Run("losing the quote compare-and-set is a conflict", func(t *testing.T) {
		f := newAcceptFixture(t)
		f.st.failQuoteCAS = true

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		assert.ErrorIs(t, err, errs.ErrConflict)
		assert.NotErrorIs(t, err, errs.ErrAcceptanceFailed)
	})

	t.Run("infrastructure failure maps to acceptance failed", func(t *testing.T) {
		f := newAcceptFixture(t)
		f.st.errOn["outbox.Enqueue"] = errors.New("connection reset")

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrAcceptanceFailed)
		assert.Zero(t, f.nudger.nudges)

		// No partial effect: the decision rolled back with the failure.
		assert.Equal(t, quote.StatusSubmitted, f.st.quotes[f.winner.ID].Status)
		for _, sib := range f.siblings {
			assert.Equal(t, quote.StatusSubmitted, f.st.quotes[sib.ID].Status)
		}
		assert.Equal(t, rfq.StatusOpen, f.st.rfqs[f.rfqID].Status)
	})

	t.Run("second accept on the same rfq conflicts", func(t *testing.T) {
		f := newAcceptFixture(t)

		_, err := f.cmds.AcceptQuote(ctx, f.requesterID, f.input())
		require.NoError(t, err)

		input := f.input()
		input.QuoteID = f.siblings[0].ID
		_, err = f.cmds.AcceptQuote(ctx, f.requesterID, input)
		assert.ErrorIs(t, err, errs.ErrConflict)
	})
}
