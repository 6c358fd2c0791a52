package commands

import (
	"context"
	"errors"
	"log/slog"

	"buildquote/internal/domain/quote"
	"buildquote/internal/domain/rfq"
	"buildquote/internal/notify"
	"buildquote/internal/pkg/clock"
	"buildquote/internal/pkg/errs"
	"buildquote/internal/usecase/shared"

	"github.com/google/uuid"
)

type AcceptQuoteInput struct {
	RfqID                uuid.UUID
	QuoteID              uuid.UUID
	DeliveryInstructions string
}

type AcceptQuoteResult struct {
	AcceptedQuoteID  uuid.UUID
	RejectedQuoteIDs []uuid.UUID
}

type AcceptanceCommands interface {
	// AcceptQuote accepts exactly one quote and rejects every other
	// submitted quote of the RFQ in the same serializable transaction. No
	// observer can ever see two accepted quotes, or a winner without its
	// losers rejected.
	AcceptQuote(ctx context.Context, requesterID uuid.UUID, input AcceptQuoteInput) (*AcceptQuoteResult, error)
}

type acceptanceCommands struct {
	uow    shared.UnitOfWork
	nudger Nudger
	clock  clock.Clock
	logger *slog.Logger
}

func NewAcceptanceCommands(uow shared.UnitOfWork, nudger Nudger, clk clock.Clock, logger *slog.Logger) AcceptanceCommands {
	return &acceptanceCommands{uow: uow, nudger: nudger, clock: clk, logger: logger}
}

func (c *acceptanceCommands) AcceptQuote(ctx context.Context, requesterID uuid.UUID, input AcceptQuoteInput) (*AcceptQuoteResult, error) {
	var result *AcceptQuoteResult
	var lapsed bool
	err := c.uow.WithinSerializable(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().RfqForUpdate(ctx, input.RfqID)
		if err != nil {
			return errs.Wrap(err, "failed to load rfq")
		}
		if snap == nil {
			return errs.Mark(errs.New("rfq not found"), errs.ErrNotFound)
		}
		if snap.RequesterID != requesterID {
			return errs.Mark(errs.New("rfq belongs to another requester"), errs.ErrNotAuthorized)
		}
		if snap.Status == rfq.StatusExpired {
			return errs.Mark(errs.New("rfq has expired"), errs.ErrRfqExpired)
		}
		if !snap.Status.AcceptsQuotes() {
			return errs.Mark(errs.New("rfq already has an outcome"), errs.ErrConflict)
		}
		if c.clock.Now().After(snap.ExpiresAt) {
			if _, err := tx.Rfqs().UpdateStatus(ctx, snap.ID, snap.Status, rfq.StatusExpired); err != nil {
				return errs.Wrap(err, "failed to expire rfq")
			}
			// Commit the expiry transition on its own; nothing else has
			// been written yet.
			lapsed = true
			return nil
		}

		target, err := tx.Reads().QuoteByID(ctx, input.QuoteID)
		if err != nil {
			return errs.Wrap(err, "failed to load quote")
		}
		if target == nil || target.RfqID != input.RfqID {
			return errs.Mark(errs.New("quote not found on this rfq"), errs.ErrNotFound)
		}
		if target.Status != quote.StatusSubmitted {
			return errs.Mark(errs.New("quote is not in submitted state"), errs.ErrConflict)
		}
		if !target.ValidUntil.IsZero() && c.clock.Now().After(target.ValidUntil) {
			return errs.Mark(errs.New("quote validity has lapsed"), errs.ErrConflict)
		}

		ok, err := tx.Quotes().UpdateStatus(ctx, input.QuoteID, quote.StatusSubmitted, quote.StatusAccepted)
		if err != nil {
			return errs.Wrap(err, "failed to accept quote")
		}
		if !ok {
			return errs.Mark(errs.New("quote status changed concurrently"), errs.ErrConflict)
		}

		rejected, err := tx.Quotes().RejectSubmittedSiblings(ctx, input.RfqID, input.QuoteID)
		if err != nil {
			return errs.Wrap(err, "failed to reject sibling quotes")
		}

		ok, err = tx.Rfqs().UpdateStatus(ctx, input.RfqID, snap.Status, rfq.StatusAccepted)
		if err != nil {
			return errs.Wrap(err, "failed to update rfq status")
		}
		if !ok {
			return errs.Mark(errs.New("rfq status changed concurrently"), errs.ErrConflict)
		}
		if input.DeliveryInstructions != "" {
			if err := tx.Rfqs().SetDeliveryInstructions(ctx, input.RfqID, input.DeliveryInstructions); err != nil {
				return errs.Wrap(err, "failed to store delivery instructions")
			}
		}

		if err := c.enqueueOutcome(ctx, tx, target, rejected, input.DeliveryInstructions); err != nil {
			return err
		}

		rejectedIDs := make([]uuid.UUID, 0, len(rejected))
		for _, s := range rejected {
			rejectedIDs = append(rejectedIDs, s.ID)
		}
		result = &AcceptQuoteResult{
			AcceptedQuoteID:  input.QuoteID,
			RejectedQuoteIDs: rejectedIDs,
		}
		return nil
	})
	if err != nil {
		// Workflow outcomes pass through; anything else means the
		// acceptance transaction itself could not complete (retry budget
		// exhausted, commit failure) and the whole operation rolled back.
		if isWorkflowError(err) {
			return nil, err
		}
		return nil, errs.Mark(err, errs.ErrAcceptanceFailed)
	}
	if lapsed {
		return nil, errs.Mark(errs.New("rfq has expired"), errs.ErrRfqExpired)
	}

	c.nudger.Nudge()
	c.logger.InfoContext(ctx, "quote accepted",
		slog.String("rfq_id", input.RfqID.String()),
		slog.String("quote_id", input.QuoteID.String()),
		slog.Int("rejected", len(result.RejectedQuoteIDs)))
	return result, nil
}

func isWorkflowError(err error) bool {
	return errors.Is(err, errs.ErrNotFound) ||
		errors.Is(err, errs.ErrNotAuthorized) ||
		errors.Is(err, errs.ErrConflict) ||
		errors.Is(err, errs.ErrRfqExpired) ||
		errors.Is(err, errs.ErrValidation)
}

// enqueueOutcome queues the winner and loser notifications inside the
// acceptance transaction, so the audit trail commits with the decision.
func (c *acceptanceCommands) enqueueOutcome(ctx context.Context, tx shared.Tx, winner *shared.QuoteSnapshot, rejected []shared.SiblingQuote, instructions string) error {
	now := c.clock.Now()

	winnerSup, err := tx.Reads().SupplierByID(ctx, winner.SupplierID)
	if err != nil {
		return errs.Wrap(err, "failed to load winning supplier")
	}
	winMsg := notify.Message{
		ID:          uuid.New(),
		Event:       notify.EventQuoteAccepted,
		SubjectType: "acceptance",
		SubjectID:   winner.ID,
		Params: map[string]string{
			"total_usd": winner.TotalUSD.StringFixed(2),
		},
		CreatedAt: now,
	}
	if instructions != "" {
		winMsg.Params["delivery_instructions"] = instructions
	}
	if winnerSup != nil {
		winMsg.RecipientName = winnerSup.Name
		winMsg.RecipientEmail = winnerSup.Email
		winMsg.RecipientPhone = winnerSup.Phone
	}
	if err := tx.Outbox().Enqueue(ctx, winMsg); err != nil {
		return errs.Wrap(err, "failed to enqueue acceptance notification")
	}

	for _, sib := range rejected {
		sup, err := tx.Reads().SupplierByID(ctx, sib.SupplierID)
		if err != nil {
			return errs.Wrap(err, "failed to load rejected supplier")
		}
		msg := notify.Message{
			ID:          uuid.New(),
			Event:       notify.EventQuoteRejected,
			SubjectType: "acceptance",
			SubjectID:   sib.ID,
			CreatedAt:   now,
		}
		if sup != nil {
			msg.RecipientName = sup.Name
			msg.RecipientEmail = sup.Email
			msg.RecipientPhone = sup.Phone
		}
		if err := tx.Outbox().Enqueue(ctx, msg); err != nil {
			return errs.Wrap(err, "failed to enqueue rejection notification")
		}
	}
	return nil
}
