package reconcile

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/transaction"
)

// Ledger is the persistence the reconciler writes through. *transaction.Service satisfies it.
//
//go:generate mockgen -source=ledger.go -destination=ledger_mock.go -package=reconcile
type Ledger interface {
	Record(ctx context.Context, tx *transaction.Transaction) error
	Transfer(ctx context.Context, debit, credit *transaction.Transaction) error
	MonthlySpending(ctx context.Context, userID, walletID uuid.UUID, at time.Time) (decimal.Decimal, error)
}
