package apperr

import "errors"

// Error taxonomy for the checkout/fulfillment pipeline. Callers classify
// with errors.Is; wrapping stays fmt.Errorf("...: %w", err) at call sites.
var (
	ErrUnauthenticated  = errors.New("unauthenticated")
	ErrInvalidArgument  = errors.New("invalid argument")
	ErrNotFound         = errors.New("not found")
	ErrSignatureInvalid = errors.New("webhook signature invalid")
	ErrProvider         = errors.New("provider call failed")

	// ErrConflictIgnored marks a state transition attempted from an
	// unexpected source state. It is logged and swallowed, never surfaced:
	// this is what makes redelivered webhooks safe.
	ErrConflictIgnored = errors.New("state transition conflict ignored")
)
