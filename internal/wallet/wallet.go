package wallet

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type is the kind of account a wallet represents.
type Type string

const (
	TypeCash   Type = "cash"
	TypeBank   Type = "bank"
	TypeCard   Type = "card"
	TypeMobile Type = "mobile"
	TypeOther  Type = "other"
)

func (t Type) Valid() bool {
	switch t {
	case TypeCash, TypeBank, TypeCard, TypeMobile, TypeOther:
		return true
	}

	return false
}

// Wallet is a user-owned pot of money that ledger entries are booked against.
type Wallet struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Name         string
	Type         Type
	Balance      decimal.Decimal
	Currency     string
	IsDefault    bool
	IsLocked     bool
	MonthlyLimit *decimal.Decimal // Advisory spending cap for expenses
	CreatedAt    time.Time
	UpdatedAt    *time.Time
}
