package shared

import (
	"context"
	"time"

	"buildquote/internal/domain/catalog"
	"buildquote/internal/domain/quote"
	"buildquote/internal/domain/rfq"
	"buildquote/internal/domain/supplier"
	"buildquote/internal/notify"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type UnitOfWork interface {
	// Within: read-committed transaction with serialization-failure retry.
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinSerializable: serializable transaction for the acceptance core,
	// where no reader may observe two accepted quotes or a half-applied
	// accept/reject fan-out.
	WithinSerializable(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// Reads: pool-backed reads for validation outside any transaction.
	Reads() CommandReads
}

type Tx interface {
	Rfqs() RfqRepository
	Quotes() QuoteRepository
	Recipients() RecipientRepository
	Outbox() OutboxRepository
	Reads() CommandReads
}

// CommandReads are the minimal snapshots the write side needs. Full views
// live on the query side.
type CommandReads interface {
	MaterialsByKeys(ctx context.Context, keys []string) (map[string]catalog.Material, error)
	SupplierByID(ctx context.Context, id uuid.UUID) (*supplier.Supplier, error)
	BuilderContact(ctx context.Context, userID uuid.UUID) (*catalog.Contact, error)
	ActiveSuppliersByCategories(ctx context.Context, categories []string) ([]supplier.Supplier, error)
	// RfqForUpdate row-locks the request so quote writes for one RFQ
	// serialize by arrival.
	RfqForUpdate(ctx context.Context, id uuid.UUID) (*RfqSnapshot, error)
	RfqByID(ctx context.Context, id uuid.UUID) (*RfqSnapshot, error)
	RfqItems(ctx context.Context, rfqID uuid.UUID) ([]RfqItemSnapshot, error)
	Recipient(ctx context.Context, rfqID, supplierID uuid.UUID) (*RecipientSnapshot, error)
	// LiveQuote returns the supplier's non-terminal quote for the RFQ, if any.
	LiveQuote(ctx context.Context, rfqID, supplierID uuid.UUID) (*QuoteSnapshot, error)
	QuoteByID(ctx context.Context, id uuid.UUID) (*QuoteSnapshot, error)
}

type RfqSnapshot struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID
	RequesterID     uuid.UUID
	DeliveryAddress string
	RequiredBy      time.Time
	Status          rfq.Status
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

type RfqItemSnapshot struct {
	ID          uuid.UUID
	MaterialKey string
	Quantity    decimal.Decimal
	Unit        string
}

type RecipientSnapshot struct {
	ID            uuid.UUID
	RfqID         uuid.UUID
	SupplierID    uuid.UUID
	Status        rfq.RecipientStatus
	FirstViewedAt *time.Time
}

type QuoteSnapshot struct {
	ID           uuid.UUID
	RfqID        uuid.UUID
	SupplierID   uuid.UUID
	TotalUSD     decimal.Decimal
	TotalZWG     decimal.Decimal
	DeliveryDays int
	ValidUntil   time.Time
	Status       quote.Status
	SubmittedAt  time.Time
}

type RfqRepository interface {
	// Create persists the request row and all item rows. Callers run it
	// inside a transaction together with recipient creation so the three
	// entities appear atomically or not at all.
	Create(ctx context.Context, r *rfq.Rfq) error
	// UpdateStatus performs a compare-and-set transition; false means the
	// row was not in the expected state (the caller lost a race).
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to rfq.Status) (bool, error)
	SetDeliveryInstructions(ctx context.Context, id uuid.UUID, instructions string) error
}

type QuoteRepository interface {
	Create(ctx context.Context, q *quote.Quote) error
	// Replace rewrites an existing live quote in place: terms and totals
	// updated, line items deleted and re-inserted. The quote row id is
	// preserved so the at-most-one-live-quote invariant holds.
	Replace(ctx context.Context, existingID uuid.UUID, q *quote.Quote) error
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to quote.Status) (bool, error)
	// RejectSubmittedSiblings marks every other submitted quote of the RFQ
	// rejected and returns them, so losers can be notified.
	RejectSubmittedSiblings(ctx context.Context, rfqID, acceptedQuoteID uuid.UUID) ([]SiblingQuote, error)
}

type SiblingQuote struct {
	ID         uuid.UUID
	SupplierID uuid.UUID
}

type RecipientRepository interface {
	CreateBatch(ctx context.Context, rfqID uuid.UUID, supplierIDs []uuid.UUID) ([]uuid.UUID, error)
	UpdateStatus(ctx context.Context, rfqID, supplierID uuid.UUID, status rfq.RecipientStatus) error
	MarkViewed(ctx context.Context, rfqID, supplierID uuid.UUID, at time.Time) error
}

type OutboxRepository interface {
	Enqueue(ctx context.Context, msg notify.Message) error
}
