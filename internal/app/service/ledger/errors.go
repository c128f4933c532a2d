package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidAmount rejects non-positive amounts before anything is persisted.
	ErrInvalidAmount = errors.New("credit amount must be positive")
	// ErrMissingReference is returned when neither an explicit idempotency key
	// nor a ref_type/ref_id pair was supplied. Keys are derived from caller
	// identifiers only, never from randomness, so keyless operations without a
	// reference cannot be made idempotent and are rejected.
	ErrMissingReference = errors.New("idempotency key or ref_type/ref_id required")
	// ErrInsufficientCredits is the sentinel matched by errors.Is; the typed
	// InsufficientCreditsError carries the numbers.
	ErrInsufficientCredits = errors.New("insufficient credits")
)

// InsufficientCreditsError reports a deduct beyond the available balance.
type InsufficientCreditsError struct {
	Balance   int64
	Requested int64
}

func (e *InsufficientCreditsError) Error() string {
	return fmt.Sprintf("insufficient credits: balance %d, requested %d", e.Balance, e.Requested)
}

func (e *InsufficientCreditsError) Unwrap() error {
	return ErrInsufficientCredits
}
