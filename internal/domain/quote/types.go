package quote

type Status string

const (
	StatusSubmitted Status = "submitted"
	StatusAccepted  Status = "accepted"
	StatusRejected  Status = "rejected"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

func (s Status) IsValid() bool {
	switch s {
	case StatusSubmitted, StatusAccepted, StatusRejected, StatusExpired:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the quote can change no further. A quote is born
// submitted and reaches exactly one of accepted, rejected or expired.
func (s Status) IsTerminal() bool {
	return s != StatusSubmitted
}
