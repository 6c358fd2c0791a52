package errs

import "errors"

// Workflow error taxonomy shared across usecase layers. Handlers map these to
// HTTP statuses; everything else is treated as an internal failure.
var (
	// ErrValidation covers malformed input: empty item lists, non-positive
	// quantities or prices, unresolvable material keys.
	ErrValidation = errors.New("validation error")

	// ErrNotAuthorized means the actor is not entitled to the action, e.g. a
	// supplier quoting an RFQ it was never matched to. Never retried.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrConflict means the caller lost a race: the RFQ or quote is no longer
	// in the expected state. The client should refresh and retry.
	ErrConflict = errors.New("state conflict")

	// ErrRfqExpired means the RFQ deadline has passed. Not retryable.
	ErrRfqExpired = errors.New("rfq expired")

	// ErrAcceptanceFailed means the acceptance transaction could not complete.
	// No partial effect was applied; safe to retry.
	ErrAcceptanceFailed = errors.New("acceptance failed")

	// ErrTransient is a storage or network timeout. Safe to retry with backoff.
	ErrTransient = errors.New("transient storage error")

	ErrNotFound = errors.New("not found")
)
