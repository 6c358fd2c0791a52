package commands

import (
	"context"
	"log/slog"
	"strconv"
	"time"

	"buildquote/internal/domain/rfq"
	"buildquote/internal/domain/supplier"
	"buildquote/internal/matching"
	"buildquote/internal/notify"
	"buildquote/internal/pkg/clock"
	"buildquote/internal/pkg/errs"
	"buildquote/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type CreateRfqItemInput struct {
	MaterialKey    string
	Quantity       decimal.Decimal
	Unit           string
	Specifications string
}

type CreateRfqInput struct {
	ProjectID       uuid.UUID
	DeliveryAddress string
	RequiredBy      time.Time
	Notes           string
	Items           []CreateRfqItemInput
}

type CreateRfqResult struct {
	RfqID        uuid.UUID
	ItemIDs      []uuid.UUID
	RecipientIDs []uuid.UUID
	ExpiresAt    time.Time
}

type RfqCommands interface {
	// CreateRfq validates the request, matches suppliers, and persists the
	// request, its items, and its recipient rows in one transaction.
	CreateRfq(ctx context.Context, requesterID uuid.UUID, input CreateRfqInput) (*CreateRfqResult, error)
	// CancelRfq moves a non-terminal RFQ to cancelled.
	CancelRfq(ctx context.Context, requesterID, rfqID uuid.UUID) error
	// ConfirmOrder moves an accepted RFQ to ordered.
	ConfirmOrder(ctx context.Context, requesterID, rfqID uuid.UUID) error
	// MarkDelivered moves an ordered RFQ to delivered.
	MarkDelivered(ctx context.Context, requesterID, rfqID uuid.UUID) error
}

type rfqCommands struct {
	uow     shared.UnitOfWork
	factory *rfq.Factory
	matcher *matching.Engine
	nudger  Nudger
	clock   clock.Clock
	logger  *slog.Logger
}

func NewRfqCommands(
	uow shared.UnitOfWork,
	factory *rfq.Factory,
	matcher *matching.Engine,
	nudger Nudger,
	clk clock.Clock,
	logger *slog.Logger,
) RfqCommands {
	return &rfqCommands{
		uow:     uow,
		factory: factory,
		matcher: matcher,
		nudger:  nudger,
		clock:   clk,
		logger:  logger,
	}
}

func (c *rfqCommands) CreateRfq(ctx context.Context, requesterID uuid.UUID, input CreateRfqInput) (*CreateRfqResult, error) {
	keys := make([]string, 0, len(input.Items))
	for _, it := range input.Items {
		keys = append(keys, it.MaterialKey)
	}

	materials, err := c.uow.Reads().MaterialsByKeys(ctx, keys)
	if err != nil {
		return nil, errs.Wrap(err, "failed to resolve materials")
	}

	specs := make([]rfq.ItemSpec, 0, len(input.Items))
	for _, it := range input.Items {
		specs = append(specs, rfq.ItemSpec{
			MaterialKey:    it.MaterialKey,
			Quantity:       it.Quantity,
			Unit:           it.Unit,
			Specifications: it.Specifications,
		})
	}

	r, err := c.factory.NewRfq(requesterID, input.ProjectID, input.DeliveryAddress,
		input.RequiredBy, input.Notes, specs, materials)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrValidation)
	}

	categories := make([]string, 0, len(r.Items()))
	seen := make(map[string]struct{}, len(r.Items()))
	for _, item := range r.Items() {
		cat := materials[item.MaterialKey()].Category
		if _, ok := seen[cat]; ok {
			continue
		}
		seen[cat] = struct{}{}
		categories = append(categories, cat)
	}

	var result *CreateRfqResult
	err = c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		candidates, err := tx.Reads().ActiveSuppliersByCategories(ctx, categories)
		if err != nil {
			return errs.Wrap(err, "failed to load candidate suppliers")
		}
		ranked := c.matcher.Match(candidates, categories, input.DeliveryAddress)

		if err := tx.Rfqs().Create(ctx, r); err != nil {
			return errs.Wrap(err, "failed to create rfq")
		}

		supplierIDs := make([]uuid.UUID, 0, len(ranked))
		for _, m := range ranked {
			supplierIDs = append(supplierIDs, m.Supplier.ID)
		}
		recipientIDs, err := tx.Recipients().CreateBatch(ctx, r.ID(), supplierIDs)
		if err != nil {
			return errs.Wrap(err, "failed to create recipients")
		}

		for _, m := range ranked {
			if err := tx.Outbox().Enqueue(ctx, c.newRfqMessage(r, m.Supplier)); err != nil {
				return errs.Wrap(err, "failed to enqueue notification")
			}
		}

		itemIDs := make([]uuid.UUID, 0, len(r.Items()))
		for _, item := range r.Items() {
			itemIDs = append(itemIDs, item.ID())
		}
		result = &CreateRfqResult{
			RfqID:        r.ID(),
			ItemIDs:      itemIDs,
			RecipientIDs: recipientIDs,
			ExpiresAt:    r.ExpiresAt(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	c.nudger.Nudge()
	c.logger.InfoContext(ctx, "rfq created",
		slog.String("rfq_id", result.RfqID.String()),
		slog.Int("items", len(result.ItemIDs)),
		slog.Int("recipients", len(result.RecipientIDs)))
	return result, nil
}

func (c *rfqCommands) newRfqMessage(r *rfq.Rfq, s supplier.Supplier) notify.Message {
	params := map[string]string{
		"item_count":       strconv.Itoa(len(r.Items())),
		"delivery_address": r.DeliveryAddress().String(),
	}
	if !r.RequiredBy().IsZero() {
		params["required_by"] = r.RequiredBy().Format("2006-01-02")
	}
	return notify.Message{
		ID:             uuid.New(),
		Event:          notify.EventNewRfq,
		SubjectType:    "rfq",
		SubjectID:      r.ID(),
		RecipientName:  s.Name,
		RecipientEmail: s.Email,
		RecipientPhone: s.Phone,
		Params:         params,
		CreatedAt:      c.clock.Now(),
	}
}

func (c *rfqCommands) CancelRfq(ctx context.Context, requesterID, rfqID uuid.UUID) error {
	return c.transition(ctx, requesterID, rfqID, rfq.StatusCancelled)
}

func (c *rfqCommands) ConfirmOrder(ctx context.Context, requesterID, rfqID uuid.UUID) error {
	return c.transition(ctx, requesterID, rfqID, rfq.StatusOrdered)
}

func (c *rfqCommands) MarkDelivered(ctx context.Context, requesterID, rfqID uuid.UUID) error {
	return c.transition(ctx, requesterID, rfqID, rfq.StatusDelivered)
}

// transition applies a requester-driven state change under a row lock, with
// a compare-and-set write so concurrent transitions cannot both land.
func (c *rfqCommands) transition(ctx context.Context, requesterID, rfqID uuid.UUID, to rfq.Status) error {
	return c.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		snap, err := tx.Reads().RfqForUpdate(ctx, rfqID)
		if err != nil {
			return errs.Wrap(err, "failed to load rfq")
		}
		if snap == nil {
			return errs.Mark(errs.New("rfq not found"), errs.ErrNotFound)
		}
		if snap.RequesterID != requesterID {
			return errs.Mark(errs.New("rfq belongs to another requester"), errs.ErrNotAuthorized)
		}
		if !snap.Status.CanTransitionTo(to) {
			return errs.Mark(errs.New("invalid status transition"), errs.ErrConflict)
		}

		ok, err := tx.Rfqs().UpdateStatus(ctx, rfqID, snap.Status, to)
		if err != nil {
			return errs.Wrap(err, "failed to update rfq status")
		}
		if !ok {
			return errs.Mark(errs.New("rfq status changed concurrently"), errs.ErrConflict)
		}
		return nil
	})
}
