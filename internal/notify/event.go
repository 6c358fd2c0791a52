package notify

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventNewRfq         EventType = "new_rfq"
	EventQuoteSubmitted EventType = "quote_submitted"
	EventQuoteAccepted  EventType = "quote_accepted"
	EventQuoteRejected  EventType = "quote_rejected"
)

func (e EventType) IsValid() bool {
	switch e {
	case EventNewRfq, EventQuoteSubmitted, EventQuoteAccepted, EventQuoteRejected:
		return true
	default:
		return false
	}
}

type Channel string

const (
	ChannelEmail    Channel = "email"
	ChannelWhatsApp Channel = "whatsapp"
	ChannelPush     Channel = "push"
)

// Message is one queued notification to one recipient. Rows are written to
// the outbox inside the transaction that caused them, so a crash between
// commit and delivery loses nothing; the dispatcher drains the table.
type Message struct {
	ID             uuid.UUID
	Event          EventType
	SubjectType    string // rfq | quote | acceptance
	SubjectID      uuid.UUID
	RecipientName  string
	RecipientEmail string
	RecipientPhone string
	Params         map[string]string
	CreatedAt      time.Time
}

// Attempt is one delivery-log row: one per (recipient, channel) try,
// successful or not. Append-only.
type Attempt struct {
	SubjectType string
	SubjectID   uuid.UUID
	Channel     Channel
	Recipient   string
	AttemptedAt time.Time
	Success     bool
	ErrorDetail string
}
