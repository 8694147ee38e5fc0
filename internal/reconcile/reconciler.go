package reconcile

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/directive"
	"github.com/MrJamesThe3rd/finbot/internal/transaction"
	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

// Entry is what a directive committed to the ledger.
type Entry struct {
	Kind directive.Kind

	// Transaction is set for KindTransaction.
	Transaction *transaction.Transaction

	// Debit and Credit are set for KindTransfer.
	Debit  *transaction.Transaction
	Credit *transaction.Transaction

	// Warning is set when an expense brought its wallet to or past the monthly limit. It never blocks the entry.
	Warning *LimitWarning
}

type LimitWarning struct {
	WalletID   uuid.UUID
	WalletName string
	Limit      decimal.Decimal
	Spent      decimal.Decimal // Month to date, this entry included
}

func (w *LimitWarning) String() string {
	return fmt.Sprintf("%s has spent %s of its %s monthly limit",
		w.WalletName, w.Spent.StringFixed(2), w.Limit.StringFixed(2))
}

// Outcome is the result of one directive. Exactly one of Entry and Err is set.
type Outcome struct {
	Index     int
	Directive directive.Directive
	Entry     *Entry
	Err       error
}

func (o Outcome) OK() bool {
	return o.Err == nil
}

type Reconciler struct {
	ledger Ledger
	logger *slog.Logger
	now    func() time.Time
}

func New(ledger Ledger, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		ledger: ledger,
		logger: logger,
		now:    time.Now,
	}
}

// WithClock replaces the time source used to date entries.
func (r *Reconciler) WithClock(now func() time.Time) *Reconciler {
	r.now = now
	return r
}

// ReconcileAll commits directives one after another in the given order. Each directive sees the
// wallet balances left by the ones before it. A failing directive is reported in its Outcome and
// does not stop the rest. The returned error is non-nil only when the context is done or the
// store connection is gone, in which case the outcomes gathered so far are returned with it.
func (r *Reconciler) ReconcileAll(ctx context.Context, userID uuid.UUID, directives []directive.Directive, wallets []wallet.Wallet) ([]Outcome, error) {
	snapshot := slices.Clone(wallets)
	outcomes := make([]Outcome, 0, len(directives))

	for i, d := range directives {
		if err := ctx.Err(); err != nil {
			return outcomes, fmt.Errorf("reconciling directive %d: %w", i, err)
		}

		entry, err := r.Reconcile(ctx, d, userID, snapshot)
		if err != nil {
			if unrecoverable(err) {
				return outcomes, fmt.Errorf("reconciling directive %d: %w", i, err)
			}

			r.logger.Warn("directive rejected",
				"user_id", userID,
				"index", i,
				"kind", d.Kind(),
				"code", ErrorCode(err),
				"error", err,
			)
		} else {
			applyEntry(snapshot, entry)
		}

		outcomes = append(outcomes, Outcome{Index: i, Directive: d, Entry: entry, Err: err})
	}

	return outcomes, nil
}

// Reconcile validates one directive against the user's wallets and commits it.
func (r *Reconciler) Reconcile(ctx context.Context, d directive.Directive, userID uuid.UUID, wallets []wallet.Wallet) (*Entry, error) {
	switch d := d.(type) {
	case directive.Transaction:
		return r.reconcileTransaction(ctx, d, userID, wallets)
	case directive.Transfer:
		return r.reconcileTransfer(ctx, d, userID, wallets)
	}

	return nil, &ValidationError{Field: "kind", Reason: fmt.Sprintf("unsupported directive %T", d)}
}

func (r *Reconciler) reconcileTransaction(ctx context.Context, d directive.Transaction, userID uuid.UUID, wallets []wallet.Wallet) (*Entry, error) {
	if err := validateAmount(d.Amount); err != nil {
		return nil, err
	}

	if !d.Type.Valid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown type %q", d.Type)}
	}

	res, err := wallet.Resolve(d.WalletHint, wallets)
	if err != nil {
		return nil, err
	}

	w := res.Wallet
	if w.IsLocked {
		return nil, &WalletLockedError{WalletID: w.ID, Name: w.Name}
	}

	now := r.now()
	tx := &transaction.Transaction{
		UserID:            userID,
		WalletID:          &w.ID,
		Amount:            d.Amount,
		Type:              d.Type,
		Category:          d.Category,
		Description:       d.Description,
		Date:              now,
		ExtractedFromChat: true,
		Confirmed:         false,
	}

	entry := &Entry{Kind: directive.KindTransaction, Transaction: tx}

	if d.Type == transaction.TypeExpense && w.MonthlyLimit != nil {
		entry.Warning = r.checkLimit(ctx, userID, w, d.Amount, now)
	}

	if err := r.ledger.Record(ctx, tx); err != nil {
		return nil, &PersistenceError{Op: "recording transaction", Err: err}
	}

	r.logger.Info("transaction recorded",
		"user_id", userID,
		"transaction_id", tx.ID,
		"wallet", w.Name,
		"match", res.Match,
		"ambiguous_hint", res.Ambiguous,
	)

	return entry, nil
}

// checkLimit is advisory: a failed lookup is logged and yields no warning.
func (r *Reconciler) checkLimit(ctx context.Context, userID uuid.UUID, w wallet.Wallet, amount decimal.Decimal, at time.Time) *LimitWarning {
	spent, err := r.ledger.MonthlySpending(ctx, userID, w.ID, at)
	if err != nil {
		r.logger.Warn("monthly spending lookup failed", "wallet_id", w.ID, "error", err)
		return nil
	}

	total := spent.Add(amount)
	if total.LessThan(*w.MonthlyLimit) {
		return nil
	}

	return &LimitWarning{
		WalletID:   w.ID,
		WalletName: w.Name,
		Limit:      *w.MonthlyLimit,
		Spent:      total,
	}
}

func (r *Reconciler) reconcileTransfer(ctx context.Context, d directive.Transfer, userID uuid.UUID, wallets []wallet.Wallet) (*Entry, error) {
	if err := validateAmount(d.Amount); err != nil {
		return nil, err
	}

	if strings.TrimSpace(d.FromWalletHint) == "" || strings.TrimSpace(d.ToWalletHint) == "" {
		return nil, &ValidationError{Field: "wallet", Reason: "transfer needs both a source and a destination"}
	}

	fromRes, err := wallet.Resolve(d.FromWalletHint, wallets)
	if err != nil {
		return nil, err
	}

	toRes, err := wallet.Resolve(d.ToWalletHint, wallets)
	if err != nil {
		return nil, err
	}

	from, to := fromRes.Wallet, toRes.Wallet

	switch {
	case from.ID == to.ID:
		return nil, &SameWalletTransferError{WalletID: from.ID, Name: from.Name}
	case from.IsLocked:
		return nil, &WalletLockedError{WalletID: from.ID, Name: from.Name}
	case to.IsLocked:
		return nil, &WalletLockedError{WalletID: to.ID, Name: to.Name}
	case !strings.EqualFold(from.Currency, to.Currency):
		return nil, &CurrencyMismatchError{From: from.Currency, To: to.Currency}
	case from.Balance.LessThan(d.Amount):
		return nil, &InsufficientBalanceError{WalletID: from.ID, Name: from.Name, Balance: from.Balance, Requested: d.Amount}
	}

	now := r.now()
	transferID := uuid.New()

	leg := func(w wallet.Wallet, t transaction.Type) *transaction.Transaction {
		return &transaction.Transaction{
			UserID:            userID,
			WalletID:          &w.ID,
			Amount:            d.Amount,
			Type:              t,
			Category:          transaction.CategoryTransfer,
			Description:       d.Description,
			Date:              now,
			ExtractedFromChat: true,
			Confirmed:         false,
			TransferID:        &transferID,
		}
	}

	debit := leg(from, transaction.TypeExpense)
	credit := leg(to, transaction.TypeIncome)

	if err := r.ledger.Transfer(ctx, debit, credit); err != nil {
		return nil, &PersistenceError{Op: "applying transfer", Err: err}
	}

	r.logger.Info("transfer applied",
		"user_id", userID,
		"transfer_id", transferID,
		"from", from.Name,
		"to", to.Name,
	)

	return &Entry{Kind: directive.KindTransfer, Debit: debit, Credit: credit}, nil
}

// Amounts are stored as NUMERIC(14,2): cents precision, at most 12 integer digits.
const amountScale = 2

var maxAmount = decimal.New(1, 12)

// validateAmount refuses amounts the ledger columns cannot hold exactly. Nothing is rounded.
func validateAmount(amount decimal.Decimal) error {
	switch {
	case !amount.IsPositive():
		return &ValidationError{Field: "amount", Reason: "must be greater than zero"}
	case !amount.Equal(amount.Truncate(amountScale)):
		return &ValidationError{Field: "amount", Reason: fmt.Sprintf("more than %d decimal places", amountScale)}
	case amount.GreaterThanOrEqual(maxAmount):
		return &ValidationError{Field: "amount", Reason: "too large"}
	}

	return nil
}

// applyEntry moves the snapshot balances the way the store just did.
func applyEntry(wallets []wallet.Wallet, e *Entry) {
	for _, tx := range []*transaction.Transaction{e.Transaction, e.Debit, e.Credit} {
		if tx == nil || tx.WalletID == nil {
			continue
		}

		i := slices.IndexFunc(wallets, func(w wallet.Wallet) bool { return w.ID == *tx.WalletID })
		if i < 0 {
			continue
		}

		wallets[i].Balance = wallets[i].Balance.Add(tx.Delta())
	}
}

func unrecoverable(err error) bool {
	return errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, driver.ErrBadConn)
}
