package view

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/transaction"
)

const (
	dbTimeout   = 5 * time.Second
	chatTimeout = 60 * time.Second
)

// FormatAmount formats a money amount with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// FormatSigned prefixes expenses with a minus sign.
func FormatSigned(tx *transaction.Transaction) string {
	return tx.Delta().StringFixed(2)
}

// FormatDate formats a time.Time into YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// DbCtx returns a context with a standard timeout for database operations.
func DbCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), dbTimeout)
}

// ChatCtx allows for a round trip to the assistant on top of the database work.
func ChatCtx() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), chatTimeout)
}
