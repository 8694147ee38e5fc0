package reconcile

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/directive"
	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

type WalletLockedError struct {
	WalletID uuid.UUID
	Name     string
}

func (e *WalletLockedError) Error() string {
	return fmt.Sprintf("wallet %q is locked", e.Name)
}

type SameWalletTransferError struct {
	WalletID uuid.UUID
	Name     string
}

func (e *SameWalletTransferError) Error() string {
	return fmt.Sprintf("transfer source and destination are both %q", e.Name)
}

type CurrencyMismatchError struct {
	From string
	To   string
}

func (e *CurrencyMismatchError) Error() string {
	return fmt.Sprintf("cannot transfer between %s and %s wallets", e.From, e.To)
}

type InsufficientBalanceError struct {
	WalletID  uuid.UUID
	Name      string
	Balance   decimal.Decimal
	Requested decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("wallet %q holds %s, cannot move %s", e.Name, e.Balance.StringFixed(2), e.Requested.StringFixed(2))
}

// PersistenceError wraps any failure reported by the ledger store, including concurrent update conflicts.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// Error codes reported to API clients.
const (
	CodeParse               = "parse_error"
	CodeValidation          = "validation_error"
	CodeWalletResolution    = "wallet_resolution_error"
	CodeWalletLocked        = "wallet_locked"
	CodeSameWalletTransfer  = "same_wallet_transfer"
	CodeCurrencyMismatch    = "currency_mismatch"
	CodeInsufficientBalance = "insufficient_balance"
	CodePersistence         = "persistence_error"
	CodeUnknown             = "unknown_error"
)

// ErrorCode classifies an error returned by Reconcile, or a directive.ParseError.
func ErrorCode(err error) string {
	var (
		parseErr    *directive.ParseError
		validation  *ValidationError
		resolution  *wallet.ResolutionError
		locked      *WalletLockedError
		sameWallet  *SameWalletTransferError
		currency    *CurrencyMismatchError
		balance     *InsufficientBalanceError
		persistence *PersistenceError
	)

	switch {
	case errors.As(err, &parseErr):
		return CodeParse
	case errors.As(err, &validation):
		return CodeValidation
	case errors.As(err, &resolution):
		return CodeWalletResolution
	case errors.As(err, &locked):
		return CodeWalletLocked
	case errors.As(err, &sameWallet):
		return CodeSameWalletTransfer
	case errors.As(err, &currency):
		return CodeCurrencyMismatch
	case errors.As(err, &balance):
		return CodeInsufficientBalance
	case errors.As(err, &persistence):
		return CodePersistence
	}

	return CodeUnknown
}
