package wallet

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=wallet
type Repository interface {
	ListWallets(ctx context.Context, userID uuid.UUID) ([]Wallet, error)
	GetWallet(ctx context.Context, userID, id uuid.UUID) (*Wallet, error)
	CreateWallet(ctx context.Context, w *Wallet) error
	SetLocked(ctx context.Context, userID, id uuid.UUID, locked bool) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

type CreateParams struct {
	UserID       uuid.UUID
	Name         string
	Type         Type
	Currency     string
	Balance      decimal.Decimal
	IsDefault    bool
	MonthlyLimit *decimal.Decimal
}

// List returns the user's wallets in resolution order (default first, then by creation).
func (s *Service) List(ctx context.Context, userID uuid.UUID) ([]Wallet, error) {
	return s.repo.ListWallets(ctx, userID)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Wallet, error) {
	return s.repo.GetWallet(ctx, userID, id)
}

// Create adds a wallet. The user's first wallet always becomes the default one.
func (s *Service) Create(ctx context.Context, params CreateParams) (*Wallet, error) {
	w := &Wallet{
		UserID:       params.UserID,
		Name:         strings.TrimSpace(params.Name),
		Type:         params.Type,
		Currency:     strings.ToUpper(strings.TrimSpace(params.Currency)),
		Balance:      params.Balance,
		IsDefault:    params.IsDefault,
		MonthlyLimit: params.MonthlyLimit,
	}

	if w.Type == "" {
		w.Type = TypeOther
	}

	if err := validate(w); err != nil {
		return nil, err
	}

	if !w.IsDefault {
		existing, err := s.repo.ListWallets(ctx, params.UserID)
		if err != nil {
			return nil, fmt.Errorf("listing wallets: %w", err)
		}

		w.IsDefault = len(existing) == 0
	}

	if err := s.repo.CreateWallet(ctx, w); err != nil {
		return nil, err
	}

	return w, nil
}

func (s *Service) Lock(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.SetLocked(ctx, userID, id, true)
}

func (s *Service) Unlock(ctx context.Context, userID, id uuid.UUID) error {
	return s.repo.SetLocked(ctx, userID, id, false)
}

func validate(w *Wallet) error {
	if w.UserID == uuid.Nil {
		return fmt.Errorf("%w: missing user", ErrInvalid)
	}

	if w.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalid)
	}

	if !w.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalid, w.Type)
	}

	if len(w.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", ErrInvalid)
	}

	if w.MonthlyLimit != nil && !w.MonthlyLimit.IsPositive() {
		return fmt.Errorf("%w: monthly limit must be positive", ErrInvalid)
	}

	return nil
}
