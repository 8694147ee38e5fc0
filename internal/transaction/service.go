package transaction

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	ApplyTransfer(ctx context.Context, debit, credit *Transaction) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	ConfirmTransaction(ctx context.Context, userID, id uuid.UUID) error
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error
	MonthlySpending(ctx context.Context, userID, walletID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type ListFilter struct {
	WalletID    *uuid.UUID
	Unconfirmed bool
	StartDate   *time.Time
	EndDate     *time.Time
}

// Record persists a single ledger entry and applies it to its wallet balance.
func (s *Service) Record(ctx context.Context, tx *Transaction) error {
	if err := validate(tx); err != nil {
		return err
	}

	return s.repo.CreateTransaction(ctx, tx)
}

// Transfer persists both legs of a wallet transfer atomically.
func (s *Service) Transfer(ctx context.Context, debit, credit *Transaction) error {
	if err := validate(debit); err != nil {
		return fmt.Errorf("debit leg: %w", err)
	}

	if err := validate(credit); err != nil {
		return fmt.Errorf("credit leg: %w", err)
	}

	switch {
	case debit.Type != TypeExpense || credit.Type != TypeIncome:
		return fmt.Errorf("%w: transfer legs must be an expense and an income", ErrInvalid)
	case !debit.Amount.Equal(credit.Amount):
		return fmt.Errorf("%w: transfer legs differ in amount", ErrInvalid)
	case debit.WalletID == nil || credit.WalletID == nil:
		return fmt.Errorf("%w: transfer legs need a wallet", ErrInvalid)
	case *debit.WalletID == *credit.WalletID:
		return fmt.Errorf("%w: transfer legs share a wallet", ErrInvalid)
	}

	return s.repo.ApplyTransfer(ctx, debit, credit)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

func (s *Service) Confirm(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.ConfirmTransaction(ctx, userID, id)
}

// Delete removes a transaction and reverses its balance effect.
// Deleting one leg of a transfer removes both legs.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.DeleteTransaction(ctx, userID, id)
}

// MonthlySpending sums the expenses booked against a wallet in the calendar month containing at.
// Transfer legs are not spending and are excluded.
func (s *Service) MonthlySpending(ctx context.Context, userID, walletID uuid.UUID, at time.Time) (decimal.Decimal, error) {
	from, to := monthBounds(at)
	return s.repo.MonthlySpending(ctx, userID, walletID, from, to)
}

func monthBounds(at time.Time) (time.Time, time.Time) {
	from := time.Date(at.Year(), at.Month(), 1, 0, 0, 0, 0, at.Location())
	return from, from.AddDate(0, 1, 0)
}

func validate(tx *Transaction) error {
	if tx.UserID == uuid.Nil {
		return fmt.Errorf("%w: missing user", ErrInvalid)
	}

	if !tx.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalid)
	}

	if !tx.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, tx.Type)
	}

	if tx.Date.IsZero() {
		tx.Date = time.Now()
	}

	return nil
}
