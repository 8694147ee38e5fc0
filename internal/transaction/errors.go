package transaction

import "errors"

var (
	ErrNotFound = errors.New("transaction not found")

	// ErrConflict is returned when a guarded wallet balance update matched no row,
	// because the wallet was locked, removed or drained by a concurrent write.
	ErrConflict = errors.New("wallet balance changed concurrently")

	ErrInvalid = errors.New("invalid transaction")
)
