package ledger

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestErrInsufficientCredits_IsWrapFriendly(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", &InsufficientCreditsError{Balance: 3, Requested: 10})
	require.True(t, errors.Is(err, ErrInsufficientCredits))

	var ice *InsufficientCreditsError
	require.True(t, errors.As(err, &ice))
	require.Equal(t, int64(3), ice.Balance)
	require.Equal(t, int64(10), ice.Requested)
}

func TestErrMissingReference_IsWrapFriendly(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrMissingReference)
	require.True(t, errors.Is(err, ErrMissingReference))
}
