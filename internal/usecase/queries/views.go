package queries

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Views are flat read models hydrated straight from SQL, bypassing the
// domain aggregates. Status fields are display statuses: an RFQ or quote
// whose deadline has passed reads as expired even before the lazy write-side
// transition has landed.

type RfqView struct {
	ID                   uuid.UUID
	ProjectID            uuid.UUID
	RequesterID          uuid.UUID
	DeliveryAddress      string
	DeliveryInstructions string
	RequiredBy           *time.Time
	Notes                string
	Status               string
	CreatedAt            time.Time
	ExpiresAt            time.Time
	Items                []RfqItemView
	Recipients           []RecipientView
}

type RfqItemView struct {
	ID             uuid.UUID
	MaterialKey    string
	MaterialName   string
	Quantity       decimal.Decimal
	Unit           string
	Specifications string
}

type RecipientView struct {
	ID            uuid.UUID
	SupplierID    uuid.UUID
	SupplierName  string
	Status        string
	NotifiedAt    time.Time
	FirstViewedAt *time.Time
}

// RfqSummaryView is the list-page row: no items or recipients, just
// headline fields and counts.
type RfqSummaryView struct {
	ID              uuid.UUID
	ProjectID       uuid.UUID
	DeliveryAddress string
	Status          string
	ItemCount       int
	QuoteCount      int
	CreatedAt       time.Time
	ExpiresAt       time.Time
}

type QuoteView struct {
	ID           uuid.UUID
	RfqID        uuid.UUID
	SupplierID   uuid.UUID
	SupplierName string
	TierLabel    string
	Rating       float64
	TotalUSD     decimal.Decimal
	TotalZWG     decimal.Decimal
	DeliveryDays int
	ValidUntil   *time.Time
	Notes        string
	Status       string
	SubmittedAt  time.Time
	Items        []QuoteItemView
}

type QuoteItemView struct {
	ID           uuid.UUID
	RfqItemID    uuid.UUID
	MaterialKey  string
	MaterialName string
	UnitPriceUSD decimal.Decimal
	UnitPriceZWG decimal.Decimal
	AvailableQty decimal.Decimal
	Notes        string
}

type DeliveryLogView struct {
	ID          int64
	SubjectType string
	SubjectID   uuid.UUID
	Channel     string
	Recipient   string
	AttemptedAt time.Time
	Success     bool
	ErrorDetail string
}
