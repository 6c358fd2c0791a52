package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"buildquote/internal/domain/quote"
	"buildquote/internal/domain/rfq"
	"buildquote/internal/notify"
	"buildquote/internal/pkg/clock"
	"buildquote/internal/pkg/errs"
	"buildquote/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SubmitQuoteItemInput struct {
	RfqItemID    uuid.UUID
	UnitPriceUSD decimal.Decimal
	UnitPriceZWG decimal.Decimal
	AvailableQty decimal.Decimal
	Notes        string
}

type SubmitQuoteInput struct {
	RfqID        uuid.UUID
	DeliveryDays int
	ValidUntil   time.Time
	Notes        string
	Items        []SubmitQuoteItemInput
}

type SubmitQuoteResult struct {
	QuoteID  uuid.UUID
	TotalUSD decimal.Decimal
	TotalZWG decimal.Decimal
	Replaced bool
}

type QuoteCommands interface {
	// SubmitQuote creates the supplier's quote for an RFQ, or replaces their
	// existing live quote in place. At most one live quote per
	// (rfq, supplier) pair can exist at any time.
	SubmitQuote(ctx context.Context, supplierID uuid.UUID, input SubmitQuoteInput) (*SubmitQuoteResult, error)
	// MarkViewed records the first time a supplier opened the RFQ. Later
	// views and views after quoting do not regress the recipient status.
	MarkViewed(ctx context.Context, supplierID, rfqID uuid.UUID) error
	// DeclineRfq records that the supplier will not be quoting.
	DeclineRfq(ctx context.Context, supplierID, rfqID uuid.UUID) error
}

type quoteCommands struct {
	uow      shared.UnitOfWork
	services *quote.Services
	nudger   Nudger
	clock    clock.Clock
	logger   *slog.Logger
}

func NewQuoteCommands(
	uow shared.UnitOfWork,
	services *quote.Services,
	nudger Nudger,
	clk clock.Clock,
	logger *slog.Logger,
) QuoteCommands {
	return &quoteCommands{
		uow:      uow,
		services: services,
		nudger:   nudger,
		clock:    clk,
		logger:   logger,
	}
}

func (c *quoteCommands) SubmitQuote(ctx context.Context, supplierID uuid.UUID, input SubmitQuoteInput) (*SubmitQuoteResult, error) {
	var result *SubmitQuoteResult
	var lapsed bool
	err := c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// Row lock the request so quote writes for one RFQ serialize by
		// arrival and the resubmission branch cannot race itself.
		snap, err := tx.Reads().RfqForUpdate(ctx, input.RfqID)
		if err != nil {
			return errs.Wrap(err, "failed to load rfq")
		}
		if snap == nil {
			return errs.Mark(errs.New("rfq not found"), errs.ErrNotFound)
		}

		expired, err := c.ensureOpen(ctx, tx, snap)
		if err != nil {
			return err
		}
		if expired {
			// Nothing else has been written yet; commit so the expiry
			// transition persists, then report it.
			lapsed = true
			return nil
		}

		rec, err := tx.Reads().Recipient(ctx, input.RfqID, supplierID)
		if err != nil {
			return errs.Wrap(err, "failed to load recipient")
		}
		if rec == nil {
			return errs.Mark(errs.New("supplier was not invited to this rfq"), errs.ErrNotAuthorized)
		}

		items, err := tx.Reads().RfqItems(ctx, input.RfqID)
		if err != nil {
			return errs.Wrap(err, "failed to load rfq items")
		}
		requestedQty := make(map[uuid.UUID]decimal.Decimal, len(items))
		for _, it := range items {
			requestedQty[it.ID] = it.Quantity
		}

		specs := make([]quote.ItemSpec, 0, len(input.Items))
		for _, it := range input.Items {
			specs = append(specs, quote.ItemSpec{
				RfqItemID:    it.RfqItemID,
				UnitPriceUSD: it.UnitPriceUSD,
				UnitPriceZWG: it.UnitPriceZWG,
				AvailableQty: it.AvailableQty,
				Notes:        it.Notes,
			})
		}

		q, err := quote.NewQuote(c.services, input.RfqID, supplierID,
			input.DeliveryDays, input.ValidUntil, input.Notes, specs, requestedQty)
		if err != nil {
			return errs.Mark(err, errs.ErrValidation)
		}

		live, err := tx.Reads().LiveQuote(ctx, input.RfqID, supplierID)
		if err != nil {
			return errs.Wrap(err, "failed to load existing quote")
		}

		quoteID := q.ID()
		replaced := false
		if live == nil {
			if err := tx.Quotes().Create(ctx, q); err != nil {
				return errs.Wrap(err, "failed to create quote")
			}
		} else {
			if err := tx.Quotes().Replace(ctx, live.ID, q); err != nil {
				return errs.Wrap(err, "failed to replace quote")
			}
			quoteID = live.ID
			replaced = true
		}

		if err := tx.Recipients().UpdateStatus(ctx, input.RfqID, supplierID, rfq.RecipientQuoted); err != nil {
			return errs.Wrap(err, "failed to update recipient status")
		}

		if err := c.enqueueQuoteSubmitted(ctx, tx, snap, supplierID, q); err != nil {
			return err
		}

		result = &SubmitQuoteResult{
			QuoteID:  quoteID,
			TotalUSD: q.TotalUSD(),
			TotalZWG: q.TotalZWG(),
			Replaced: replaced,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if lapsed {
		return nil, errs.Mark(errs.New("rfq has expired"), errs.ErrRfqExpired)
	}

	c.nudger.Nudge()
	c.logger.InfoContext(ctx, "quote submitted",
		slog.String("rfq_id", input.RfqID.String()),
		slog.String("quote_id", result.QuoteID.String()),
		slog.Bool("replaced", result.Replaced))
	return result, nil
}

// ensureOpen rejects quoting against finished RFQs and lazily expires an
// open RFQ whose deadline has passed. Expiry is detected on access, not by
// a background sweeper. A true result means the expiry transition was
// written in this transaction; the caller must return nil so it commits
// rather than rolls back with the rest of the work.
func (c *quoteCommands) ensureOpen(ctx context.Context, tx shared.Tx, snap *shared.RfqSnapshot) (bool, error) {
	if snap.Status == rfq.StatusExpired {
		return false, errs.Mark(errs.New("rfq has expired"), errs.ErrRfqExpired)
	}
	if !snap.Status.AcceptsQuotes() {
		return false, errs.Mark(errs.New("rfq is no longer accepting quotes"), errs.ErrConflict)
	}
	if c.clock.Now().After(snap.ExpiresAt) {
		if _, err := tx.Rfqs().UpdateStatus(ctx, snap.ID, snap.Status, rfq.StatusExpired); err != nil {
			return false, errs.Wrap(err, "failed to expire rfq")
		}
		return true, nil
	}
	return false, nil
}

func (c *quoteCommands) enqueueQuoteSubmitted(ctx context.Context, tx shared.Tx, snap *shared.RfqSnapshot, supplierID uuid.UUID, q *quote.Quote) error {
	sup, err := tx.Reads().SupplierByID(ctx, supplierID)
	if err != nil {
		return errs.Wrap(err, "failed to load supplier")
	}
	builder, err := tx.Reads().BuilderContact(ctx, snap.RequesterID)
	if err != nil {
		return errs.Wrap(err, "failed to load builder contact")
	}

	msg := notify.Message{
		ID:          uuid.New(),
		Event:       notify.EventQuoteSubmitted,
		SubjectType: "quote",
		SubjectID:   q.ID(),
		Params: map[string]string{
			"total_usd":     q.TotalUSD().StringFixed(2),
			"delivery_days": strconv.Itoa(q.DeliveryDays()),
		},
		CreatedAt: c.clock.Now(),
	}
	if sup != nil {
		msg.Params["supplier_name"] = sup.Name
	}
	if builder != nil {
		msg.RecipientName = builder.Name
		msg.RecipientEmail = builder.Email
		msg.RecipientPhone = builder.Phone
	}
	if err := tx.Outbox().Enqueue(ctx, msg); err != nil {
		return errs.Wrap(err, "failed to enqueue notification")
	}
	return nil
}

func (c *quoteCommands) MarkViewed(ctx context.Context, supplierID, rfqID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Reads().Recipient(ctx, rfqID, supplierID)
		if err != nil {
			return errs.Wrap(err, "failed to load recipient")
		}
		if rec == nil {
			return errs.Mark(errs.New("supplier was not invited to this rfq"), errs.ErrNotAuthorized)
		}
		if rec.FirstViewedAt != nil {
			return nil
		}
		if err := tx.Recipients().MarkViewed(ctx, rfqID, supplierID, c.clock.Now()); err != nil {
			return errs.Wrap(err, "failed to mark recipient viewed")
		}
		return nil
	})
}

func (c *quoteCommands) DeclineRfq(ctx context.Context, supplierID, rfqID uuid.UUID) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		rec, err := tx.Reads().Recipient(ctx, rfqID, supplierID)
		if err != nil {
			return errs.Wrap(err, "failed to load recipient")
		}
		if rec == nil {
			return errs.Mark(errs.New("supplier was not invited to this rfq"), errs.ErrNotAuthorized)
		}
		if rec.Status == rfq.RecipientQuoted {
			return errs.Mark(errs.New("supplier has already quoted"), errs.ErrConflict)
		}
		if err := tx.Recipients().UpdateStatus(ctx, rfqID, supplierID, rfq.RecipientDeclined); err != nil {
			return errs.Wrap(err, "failed to update recipient status")
		}
		return nil
	})
}
