package chat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finbot/internal/directive"
	"github.com/MrJamesThe3rd/finbot/internal/reconcile"
	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

var (
	ErrEmptyMessage = errors.New("message is empty")
	ErrNoAssistant  = errors.New("no assistant configured")
	ErrAssistant    = errors.New("assistant failed")

	// ErrInterrupted means reconciliation stopped before every directive was handled. The
	// Result returned with it lists the outcomes committed up to that point.
	ErrInterrupted = errors.New("processing interrupted")
)

type Service struct {
	wallets    WalletLister
	reconciler *reconcile.Reconciler
	assistant  Assistant
	logger     *slog.Logger
}

// NewService wires the message pipeline. assistant may be nil, in which case only Process is usable.
func NewService(wallets WalletLister, reconciler *reconcile.Reconciler, assistant Assistant, logger *slog.Logger) *Service {
	return &Service{
		wallets:    wallets,
		reconciler: reconciler,
		assistant:  assistant,
		logger:     logger,
	}
}

// Send asks the assistant to answer message and commits whatever the answer asks for.
func (s *Service) Send(ctx context.Context, userID uuid.UUID, message string) (*Result, error) {
	if s.assistant == nil {
		return nil, ErrNoAssistant
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	wallets, err := s.wallets.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wallets: %w", err)
	}

	reply, err := s.assistant.Reply(ctx, Prompt{
		Message: message,
		Wallets: wallets,
		Now:     time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrAssistant, err)
	}

	return s.process(ctx, userID, reply, wallets)
}

// Process runs an assistant reply through extraction, reconciliation and sanitizing.
// When it fails with ErrInterrupted the Result is returned too, so committed entries are not lost.
func (s *Service) Process(ctx context.Context, userID uuid.UUID, reply string) (*Result, error) {
	wallets, err := s.wallets.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing wallets: %w", err)
	}

	return s.process(ctx, userID, reply, wallets)
}

func (s *Service) process(ctx context.Context, userID uuid.UUID, reply string, wallets []wallet.Wallet) (*Result, error) {
	directives, skipped := directive.Scan(reply)

	for _, perr := range skipped {
		s.logger.Warn("marker skipped", "user_id", userID, "error", perr)
	}

	outcomes, err := s.reconciler.ReconcileAll(ctx, userID, directives, wallets)

	res := &Result{
		Reply:    reply,
		Content:  directive.Sanitize(reply),
		Outcomes: outcomes,
		Skipped:  skipped,
		Partial:  err != nil,
	}

	if err != nil {
		s.logger.Warn("reply processing interrupted",
			"user_id", userID,
			"handled", len(outcomes),
			"directives", len(directives),
			"committed", res.Committed(),
			"error", err,
		)

		return res, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	if len(outcomes) > 0 || len(skipped) > 0 {
		s.logger.Info("reply processed",
			"user_id", userID,
			"directives", len(outcomes),
			"committed", res.Committed(),
			"skipped", len(skipped),
		)
	}

	return res, nil
}
