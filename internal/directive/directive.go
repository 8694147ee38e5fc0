// Package directive decodes the ledger markers an assistant embeds in its chat replies
// and strips them from the text shown to the user.
//
// Two marker shapes are understood:
//
//	[TRANSACTION: amount=12.50, category=groceries, type=expense, description=milk, wallet=Main]
//	[TRANSFER: amount=40, from=Main, to=Savings, description=monthly saving]
package directive

import (
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/transaction"
)

type Kind string

const (
	KindTransaction Kind = "transaction"
	KindTransfer    Kind = "transfer"
)

const (
	// DefaultWalletHint is used when a transaction marker names no wallet.
	DefaultWalletHint = "default"

	// DefaultTransferDescription is used when a transfer marker carries no description.
	DefaultTransferDescription = "Transfer"
)

// Directive is either a Transaction or a Transfer.
type Directive interface {
	Kind() Kind
	directive()
}

// Transaction records one income or expense against a single wallet.
type Transaction struct {
	Amount      decimal.Decimal
	Category    string
	Type        transaction.Type
	Description string
	WalletHint  string
}

func (Transaction) Kind() Kind { return KindTransaction }
func (Transaction) directive() {}

// Transfer moves money between two of the user's wallets.
type Transfer struct {
	Amount         decimal.Decimal
	FromWalletHint string
	ToWalletHint   string
	Description    string
}

func (Transfer) Kind() Kind { return KindTransfer }
func (Transfer) directive() {}
