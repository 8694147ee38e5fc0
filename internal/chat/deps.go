package chat

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

//go:generate mockgen -source=deps.go -destination=deps_mock.go -package=chat
type WalletLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]wallet.Wallet, error)
}

// Assistant produces the reply to a user's chat message. Replies may embed ledger markers.
type Assistant interface {
	Reply(ctx context.Context, prompt Prompt) (string, error)
}

// Prompt is everything the assistant is told about a turn.
type Prompt struct {
	Message string
	Wallets []wallet.Wallet
	Now     time.Time
}
