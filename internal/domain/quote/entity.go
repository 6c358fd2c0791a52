package quote

import (
	"errors"
	"fmt"
	"time"

	"buildquote/internal/pkg/clock"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNoItems             = errors.New("quote requires at least one priced item")
	ErrUnknownRfqItem      = errors.New("quote item references an item outside this rfq")
	ErrInvalidUnitPrice    = errors.New("unit price must be positive")
	ErrInvalidAvailableQty = errors.New("available quantity must be positive")
	ErrInvalidDeliveryDays = errors.New("delivery days must be positive")
	ErrValidUntilPast      = errors.New("valid-until date is in the past")
	ErrDuplicateQuoteItem  = errors.New("duplicate quote item for rfq item")
)

type Quote struct {
	id           uuid.UUID
	rfqID        uuid.UUID
	supplierID   uuid.UUID
	totalUSD     decimal.Decimal
	totalZWG     decimal.Decimal
	deliveryDays int
	validUntil   time.Time
	notes        string
	status       Status
	submittedAt  time.Time
	items        []Item
}

type Item struct {
	id           uuid.UUID
	rfqItemID    uuid.UUID
	unitPriceUSD decimal.Decimal
	unitPriceZWG decimal.Decimal
	availableQty decimal.Decimal
	notes        string
}

type ItemSpec struct {
	RfqItemID    uuid.UUID
	UnitPriceUSD decimal.Decimal
	UnitPriceZWG decimal.Decimal
	AvailableQty decimal.Decimal
	Notes        string
}

type Services struct {
	Clock clock.Clock
}

// NewQuote builds a submitted quote. Every line must reference an item of the
// RFQ being quoted (a supplier may omit items it cannot supply, but may not
// price an item twice), and totals are the sum of unit price times the
// requested quantity for each priced item.
func NewQuote(
	services *Services,
	rfqID, supplierID uuid.UUID,
	deliveryDays int,
	validUntil time.Time,
	notes string,
	specs []ItemSpec,
	requestedQty map[uuid.UUID]decimal.Decimal,
) (*Quote, error) {
	if len(specs) == 0 {
		return nil, ErrNoItems
	}
	if deliveryDays <= 0 {
		return nil, ErrInvalidDeliveryDays
	}

	now := services.Clock.Now()
	if !validUntil.IsZero() && validUntil.Before(now) {
		return nil, ErrValidUntilPast
	}

	totalUSD := decimal.Zero
	totalZWG := decimal.Zero
	seen := make(map[uuid.UUID]struct{}, len(specs))
	items := make([]Item, 0, len(specs))

	for _, spec := range specs {
		qty, ok := requestedQty[spec.RfqItemID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownRfqItem, spec.RfqItemID)
		}
		if _, dup := seen[spec.RfqItemID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateQuoteItem, spec.RfqItemID)
		}
		seen[spec.RfqItemID] = struct{}{}

		if spec.UnitPriceUSD.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidUnitPrice
		}
		if spec.UnitPriceZWG.IsNegative() {
			return nil, ErrInvalidUnitPrice
		}
		if spec.AvailableQty.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidAvailableQty
		}

		items = append(items, Item{
			id:           uuid.New(),
			rfqItemID:    spec.RfqItemID,
			unitPriceUSD: spec.UnitPriceUSD,
			unitPriceZWG: spec.UnitPriceZWG,
			availableQty: spec.AvailableQty,
			notes:        spec.Notes,
		})

		totalUSD = totalUSD.Add(spec.UnitPriceUSD.Mul(qty))
		totalZWG = totalZWG.Add(spec.UnitPriceZWG.Mul(qty))
	}

	return &Quote{
		id:           uuid.New(),
		rfqID:        rfqID,
		supplierID:   supplierID,
		totalUSD:     totalUSD,
		totalZWG:     totalZWG,
		deliveryDays: deliveryDays,
		validUntil:   validUntil,
		notes:        notes,
		status:       StatusSubmitted,
		submittedAt:  now,
		items:        items,
	}, nil
}

func ReconstructQuote(
	id, rfqID, supplierID uuid.UUID,
	totalUSD, totalZWG decimal.Decimal,
	deliveryDays int,
	validUntil time.Time,
	notes string,
	status Status,
	submittedAt time.Time,
	items []Item,
) *Quote {
	return &Quote{
		id:           id,
		rfqID:        rfqID,
		supplierID:   supplierID,
		totalUSD:     totalUSD,
		totalZWG:     totalZWG,
		deliveryDays: deliveryDays,
		validUntil:   validUntil,
		notes:        notes,
		status:       status,
		submittedAt:  submittedAt,
		items:        items,
	}
}

func ReconstructItem(id, rfqItemID uuid.UUID, unitPriceUSD, unitPriceZWG, availableQty decimal.Decimal, notes string) Item {
	return Item{
		id:           id,
		rfqItemID:    rfqItemID,
		unitPriceUSD: unitPriceUSD,
		unitPriceZWG: unitPriceZWG,
		availableQty: availableQty,
		notes:        notes,
	}
}

// HasLapsed reports whether the validity date has passed. Lapsed quotes are
// reported expired on read and can no longer be accepted.
func (q *Quote) HasLapsed(now time.Time) bool {
	return !q.validUntil.IsZero() && now.After(q.validUntil)
}

func (q *Quote) BelongsTo(rfqID uuid.UUID) bool {
	return q.rfqID == rfqID
}

func (q *Quote) ID() uuid.UUID             { return q.id }
func (q *Quote) RfqID() uuid.UUID          { return q.rfqID }
func (q *Quote) SupplierID() uuid.UUID     { return q.supplierID }
func (q *Quote) TotalUSD() decimal.Decimal { return q.totalUSD }
func (q *Quote) TotalZWG() decimal.Decimal { return q.totalZWG }
func (q *Quote) DeliveryDays() int         { return q.deliveryDays }
func (q *Quote) ValidUntil() time.Time     { return q.validUntil }
func (q *Quote) Notes() string             { return q.notes }
func (q *Quote) Status() Status            { return q.status }
func (q *Quote) SubmittedAt() time.Time    { return q.submittedAt }
func (q *Quote) Items() []Item             { return q.items }

func (i Item) ID() uuid.UUID                 { return i.id }
func (i Item) RfqItemID() uuid.UUID          { return i.rfqItemID }
func (i Item) UnitPriceUSD() decimal.Decimal { return i.unitPriceUSD }
func (i Item) UnitPriceZWG() decimal.Decimal { return i.unitPriceZWG }
func (i Item) AvailableQty() decimal.Decimal { return i.availableQty }
func (i Item) Notes() string                 { return i.notes }
