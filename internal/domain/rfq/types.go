package rfq

type Status string

const (
	StatusDraft     Status = "draft"
	StatusOpen      Status = "open"
	StatusAccepted  Status = "accepted"
	StatusOrdered   Status = "ordered"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusAccepted, StatusOrdered, StatusDelivered, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further workflow transition is defined.
// Accepted and ordered still progress toward delivered; quoting is over for
// them but the request itself is not terminal until delivered, cancelled or
// expired.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusDelivered, StatusCancelled, StatusExpired:
		return true
	default:
		return false
	}
}

// AcceptsQuotes reports whether suppliers may still submit or revise quotes.
func (s Status) AcceptsQuotes() bool {
	return s == StatusDraft || s == StatusOpen
}

// CanTransitionTo encodes the workflow state machine:
// draft -> open -> accepted -> ordered -> delivered, with cancelled and
// expired reachable from any non-terminal state. "quoted" is a derived view
// of open (at least one quote exists), not a stored state.
func (s Status) CanTransitionTo(next Status) bool {
	if s.IsTerminal() {
		return false
	}
	if next == StatusCancelled || next == StatusExpired {
		return true
	}
	switch s {
	case StatusDraft:
		return next == StatusOpen
	case StatusOpen:
		return next == StatusAccepted
	case StatusAccepted:
		return next == StatusOrdered
	case StatusOrdered:
		return next == StatusDelivered
	default:
		return false
	}
}

// RecipientStatus is the per-supplier engagement log. It never reaches a
// terminal state; declined recipients may still be re-engaged manually.
type RecipientStatus string

const (
	RecipientNotified RecipientStatus = "notified"
	RecipientViewed   RecipientStatus = "viewed"
	RecipientQuoted   RecipientStatus = "quoted"
	RecipientDeclined RecipientStatus = "declined"
)

func (s RecipientStatus) String() string {
	return string(s)
}

func (s RecipientStatus) IsValid() bool {
	switch s {
	case RecipientNotified, RecipientViewed, RecipientQuoted, RecipientDeclined:
		return true
	default:
		return false
	}
}
