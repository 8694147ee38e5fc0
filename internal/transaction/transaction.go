package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the type of transaction (income or expense).
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

// Valid reports whether t is one of the known transaction types.
func (t Type) Valid() bool {
	return t == TypeIncome || t == TypeExpense
}

// CategoryTransfer is the category stamped on both legs of a wallet transfer.
const CategoryTransfer = "transfer"

// Transaction is a single ledger entry owned by one user.
// Amount is always positive; the sign is implied by Type.
type Transaction struct {
	ID                uuid.UUID
	UserID            uuid.UUID
	WalletID          *uuid.UUID
	Amount            decimal.Decimal
	Type              Type
	Category          string
	Description       string
	Date              time.Time
	ExtractedFromChat bool
	Confirmed         bool
	TransferID        *uuid.UUID // Shared by the debit and credit legs of a transfer
	CreatedAt         time.Time
	UpdatedAt         *time.Time
	DeletedAt         *time.Time
}

// Delta returns the signed effect of the transaction on its wallet balance.
func (t *Transaction) Delta() decimal.Decimal {
	if t.Type == TypeExpense {
		return t.Amount.Neg()
	}

	return t.Amount
}
