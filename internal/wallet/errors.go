package wallet

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("wallet not found")
	ErrInvalid  = errors.New("invalid wallet")

	// ErrNoWalletAvailable is matched by a ResolutionError when the user has no default wallet to fall back to.
	ErrNoWalletAvailable = errors.New("no wallet available")
)

type ResolutionReason string

const ReasonNoWalletAvailable ResolutionReason = "no_wallet_available"

// ResolutionError reports that a wallet hint could not be mapped to any wallet.
type ResolutionError struct {
	Hint   string
	Reason ResolutionReason
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving wallet %q: %s", e.Hint, e.Reason)
}

func (e *ResolutionError) Unwrap() error {
	return ErrNoWalletAvailable
}
