package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/transaction"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanTransaction reads a transaction row from the scanner and returns a populated Transaction.
// Expected column order matches selectTransactionColumns.
func scanTransaction(s scanner) (*transaction.Transaction, error) {
	var tx transaction.Transaction

	var typeStr string

	var category, description sql.NullString

	if err := s.Scan(
		&tx.ID, &tx.UserID, &tx.WalletID, &tx.Amount, &typeStr, &category, &description, &tx.Date,
		&tx.ExtractedFromChat, &tx.Confirmed, &tx.TransferID,
		&tx.CreatedAt, &tx.UpdatedAt, &tx.DeletedAt,
	); err != nil {
		return nil, err
	}

	tx.Type = transaction.Type(typeStr)
	tx.Category = category.String
	tx.Description = description.String

	return &tx, nil
}

const selectTransactionColumns = `
	t.id, t.user_id, t.wallet_id, t.amount, t.type, t.category, t.description, t.date,
	t.extracted_from_chat, t.confirmed, t.transfer_id, t.created_at, t.updated_at, t.deleted_at
`

const insertTransactionQuery = `
	INSERT INTO transactions (user_id, wallet_id, amount, type, category, description, date,
		extracted_from_chat, confirmed, transfer_id, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, NOW(), NOW())
	RETURNING id, created_at, updated_at
`

// applyBalanceQuery moves a wallet balance by a signed delta. A locked wallet, or a debit
// that would take the balance below $4 when $4 is not null, matches no row.
const applyBalanceQuery = `
	UPDATE wallets
	SET balance = balance + $1, updated_at = NOW()
	WHERE id = $2 AND user_id = $3 AND NOT is_locked
		AND ($4::numeric IS NULL OR balance >= $4::numeric)
`

func insert(ctx context.Context, dbTx *sql.Tx, tx *transaction.Transaction) error {
	return dbTx.QueryRowContext(ctx, insertTransactionQuery,
		tx.UserID,
		tx.WalletID,
		tx.Amount,
		tx.Type,
		tx.Category,
		tx.Description,
		tx.Date,
		tx.ExtractedFromChat,
		tx.Confirmed,
		tx.TransferID,
	).Scan(&tx.ID, &tx.CreatedAt, &tx.UpdatedAt)
}

func applyBalance(ctx context.Context, dbTx *sql.Tx, userID, walletID uuid.UUID, delta decimal.Decimal, floor *decimal.Decimal) error {
	var guard decimal.NullDecimal
	if floor != nil {
		guard = decimal.NewNullDecimal(*floor)
	}

	res, err := dbTx.ExecContext(ctx, applyBalanceQuery, delta, walletID, userID, guard)
	if err != nil {
		return fmt.Errorf("updating wallet balance: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating wallet balance: %w", err)
	}

	if n == 0 {
		return transaction.ErrConflict
	}

	return nil
}

// CreateTransaction inserts the entry and moves its wallet balance in one database transaction.
func (s *Store) CreateTransaction(ctx context.Context, tx *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if err := insert(ctx, dbTx, tx); err != nil {
		return fmt.Errorf("creating transaction: %w", err)
	}

	if tx.WalletID != nil {
		if err := applyBalance(ctx, dbTx, tx.UserID, *tx.WalletID, tx.Delta(), nil); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// ApplyTransfer writes both legs of a transfer. The debit is guarded so the source balance
// cannot go negative; either both legs commit or neither does.
func (s *Store) ApplyTransfer(ctx context.Context, debit, credit *transaction.Transaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transfer: %w", err)
	}
	defer dbTx.Rollback()

	if err := applyBalance(ctx, dbTx, debit.UserID, *debit.WalletID, debit.Delta(), &debit.Amount); err != nil {
		return fmt.Errorf("debiting source wallet: %w", err)
	}

	if err := applyBalance(ctx, dbTx, credit.UserID, *credit.WalletID, credit.Delta(), nil); err != nil {
		return fmt.Errorf("crediting destination wallet: %w", err)
	}

	if err := insert(ctx, dbTx, debit); err != nil {
		return fmt.Errorf("creating debit leg: %w", err)
	}

	if err := insert(ctx, dbTx, credit); err != nil {
		return fmt.Errorf("creating credit leg: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing transfer: %w", err)
	}

	return nil
}

func (s *Store) GetTransaction(ctx context.Context, userID, id uuid.UUID) (*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.id = $1 AND t.user_id = $2 AND t.deleted_at IS NULL`

	tx, err := scanTransaction(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, transaction.ErrNotFound
		}

		return nil, fmt.Errorf("getting transaction: %w", err)
	}

	return tx, nil
}

func (s *Store) ListTransactions(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	query := `SELECT ` + selectTransactionColumns + `
		FROM transactions t
		WHERE t.user_id = $1 AND t.deleted_at IS NULL`

	args := []any{userID}

	argIdx := 2

	if filter.WalletID != nil {
		query += fmt.Sprintf(" AND t.wallet_id = $%d", argIdx)

		args = append(args, *filter.WalletID)
		argIdx++
	}

	if filter.Unconfirmed {
		query += " AND NOT t.confirmed"
	}

	if filter.StartDate != nil {
		query += fmt.Sprintf(" AND t.date >= $%d", argIdx)

		args = append(args, *filter.StartDate)
		argIdx++
	}

	if filter.EndDate != nil {
		query += fmt.Sprintf(" AND t.date <= $%d", argIdx)

		args = append(args, *filter.EndDate)
		argIdx++
	}

	query += " ORDER BY t.date DESC, t.created_at DESC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}
	defer rows.Close()

	var txs []*transaction.Transaction

	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning transaction: %w", err)
		}

		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating transaction rows: %w", err)
	}

	return txs, nil
}

func (s *Store) ConfirmTransaction(ctx context.Context, userID, id uuid.UUID) error {
	query := `
		UPDATE transactions
		SET confirmed = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL
	`

	res, err := s.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return fmt.Errorf("confirming transaction: %w", err)
	}

	return expectRow(res)
}

// DeleteTransaction soft-deletes the entry, and its sibling leg for transfers, then reverses
// the balance effect of every deleted row.
func (s *Store) DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	query := `
		UPDATE transactions
		SET deleted_at = NOW()
		WHERE user_id = $1 AND deleted_at IS NULL
			AND (id = $2 OR transfer_id = (SELECT transfer_id FROM transactions WHERE id = $2 AND user_id = $1))
		RETURNING wallet_id, amount, type
	`

	rows, err := dbTx.QueryContext(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("deleting transaction: %w", err)
	}

	var reversed []transaction.Transaction

	for rows.Next() {
		var tx transaction.Transaction

		var typeStr string

		if err := rows.Scan(&tx.WalletID, &tx.Amount, &typeStr); err != nil {
			rows.Close()
			return fmt.Errorf("scanning deleted transaction: %w", err)
		}

		tx.Type = transaction.Type(typeStr)
		reversed = append(reversed, tx)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating deleted rows: %w", err)
	}

	if len(reversed) == 0 {
		return transaction.ErrNotFound
	}

	for _, tx := range reversed {
		if tx.WalletID == nil {
			continue
		}

		if err := applyBalance(ctx, dbTx, userID, *tx.WalletID, tx.Delta().Neg(), nil); err != nil {
			return fmt.Errorf("reversing wallet balance: %w", err)
		}
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing delete: %w", err)
	}

	return nil
}

func (s *Store) MonthlySpending(ctx context.Context, userID, walletID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(amount), 0)
		FROM transactions
		WHERE user_id = $1 AND wallet_id = $2 AND type = 'expense' AND transfer_id IS NULL
			AND deleted_at IS NULL AND date >= $3 AND date < $4
	`

	var total decimal.Decimal
	if err := s.db.QueryRowContext(ctx, query, userID, walletID, from, to).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("summing monthly spending: %w", err)
	}

	return total, nil
}

func expectRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if n == 0 {
		return transaction.ErrNotFound
	}

	return nil
}
