package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

type scanner interface {
	Scan(dest ...any) error
}

// Expected column order: id, user_id, name, type, balance, currency, is_default, is_locked, monthly_limit, created_at, updated_at
func scanWallet(s scanner) (wallet.Wallet, error) {
	var w wallet.Wallet

	var typeStr string

	var limit decimal.NullDecimal

	if err := s.Scan(
		&w.ID, &w.UserID, &w.Name, &typeStr, &w.Balance, &w.Currency,
		&w.IsDefault, &w.IsLocked, &limit, &w.CreatedAt, &w.UpdatedAt,
	); err != nil {
		return wallet.Wallet{}, err
	}

	w.Type = wallet.Type(typeStr)

	if limit.Valid {
		w.MonthlyLimit = &limit.Decimal
	}

	return w, nil
}

const selectWalletColumns = `
	id, user_id, name, type, balance, currency, is_default, is_locked, monthly_limit, created_at, updated_at
`

// ListWallets returns wallets default first, then oldest first, which is the order Resolve relies on.
func (s *Store) ListWallets(ctx context.Context, userID uuid.UUID) ([]wallet.Wallet, error) {
	query := `SELECT ` + selectWalletColumns + `
		FROM wallets
		WHERE user_id = $1
		ORDER BY is_default DESC, created_at ASC`

	rows, err := s.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wallets: %w", err)
	}
	defer rows.Close()

	var wallets []wallet.Wallet

	for rows.Next() {
		w, err := scanWallet(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning wallet: %w", err)
		}

		wallets = append(wallets, w)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating wallet rows: %w", err)
	}

	return wallets, nil
}

func (s *Store) GetWallet(ctx context.Context, userID, id uuid.UUID) (*wallet.Wallet, error) {
	query := `SELECT ` + selectWalletColumns + `
		FROM wallets
		WHERE id = $1 AND user_id = $2`

	w, err := scanWallet(s.db.QueryRowContext(ctx, query, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, wallet.ErrNotFound
		}

		return nil, fmt.Errorf("getting wallet: %w", err)
	}

	return &w, nil
}

// CreateWallet inserts the wallet. A new default wallet clears the flag on the user's other wallets
// within the same database transaction.
func (s *Store) CreateWallet(ctx context.Context, w *wallet.Wallet) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer dbTx.Rollback()

	if w.IsDefault {
		if _, err := dbTx.ExecContext(ctx,
			`UPDATE wallets SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default`,
			w.UserID,
		); err != nil {
			return fmt.Errorf("clearing default wallet: %w", err)
		}
	}

	var limit decimal.NullDecimal
	if w.MonthlyLimit != nil {
		limit = decimal.NewNullDecimal(*w.MonthlyLimit)
	}

	query := `
		INSERT INTO wallets (user_id, name, type, balance, currency, is_default, is_locked, monthly_limit, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING id, created_at, updated_at
	`

	err = dbTx.QueryRowContext(ctx, query,
		w.UserID,
		w.Name,
		w.Type,
		w.Balance,
		w.Currency,
		w.IsDefault,
		w.IsLocked,
		limit,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		return fmt.Errorf("creating wallet: %w", err)
	}

	if err := dbTx.Commit(); err != nil {
		return fmt.Errorf("committing wallet: %w", err)
	}

	return nil
}

func (s *Store) SetLocked(ctx context.Context, userID, id uuid.UUID, locked bool) error {
	query := `
		UPDATE wallets
		SET is_locked = $1, updated_at = NOW()
		WHERE id = $2 AND user_id = $3
	`

	res, err := s.db.ExecContext(ctx, query, locked, id, userID)
	if err != nil {
		return fmt.Errorf("updating wallet lock: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("updating wallet lock: %w", err)
	}

	if n == 0 {
		return wallet.ErrNotFound
	}

	return nil
}
