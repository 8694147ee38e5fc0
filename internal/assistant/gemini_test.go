package assistant

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/MrJamesThe3rd/finbot/internal/chat"
	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

type fakeModels struct {
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig

	resp *genai.GenerateContentResponse
	err  error
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model, f.contents, f.config = model, contents, config
	return f.resp, f.err
}

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}}},
		},
	}
}

func TestGemini_Reply(t *testing.T) {
	fake := &fakeModels{resp: textResponse("  Logged it! [TRANSACTION: amount=5, category=coffee, type=expense, description=latte]\n")}
	g := newGemini(fake, Config{Temperature: 0.2})

	now := time.Date(2026, 5, 14, 9, 0, 0, 0, time.UTC)
	wallets := []wallet.Wallet{{ID: uuid.New(), Name: "Main", Type: wallet.TypeBank, Balance: decimal.NewFromInt(10), Currency: "USD", IsDefault: true}}

	got, err := g.Reply(context.Background(), chat.Prompt{Message: "coffee 5", Wallets: wallets, Now: now})
	require.NoError(t, err)

	assert.Equal(t, "Logged it! [TRANSACTION: amount=5, category=coffee, type=expense, description=latte]", got)
	assert.Equal(t, DefaultModel, fake.model)

	require.Len(t, fake.contents, 1)
	assert.Equal(t, "user", fake.contents[0].Role)
	assert.Equal(t, "coffee 5", fake.contents[0].Parts[0].Text)

	require.NotNil(t, fake.config.SystemInstruction)
	assert.Equal(t, SystemInstruction(wallets, now), fake.config.SystemInstruction.Parts[0].Text)
	assert.InDelta(t, 0.2, *fake.config.Temperature, 1e-6)
}

func TestGemini_Reply_Errors(t *testing.T) {
	t.Run("ModelError", func(t *testing.T) {
		g := newGemini(&fakeModels{err: errors.New("quota")}, Config{Model: "gemini-custom"})

		_, err := g.Reply(context.Background(), chat.Prompt{Message: "hi"})
		assert.ErrorContains(t, err, "quota")
	})

	t.Run("EmptyReply", func(t *testing.T) {
		g := newGemini(&fakeModels{resp: textResponse("   ")}, Config{})

		_, err := g.Reply(context.Background(), chat.Prompt{Message: "hi"})
		assert.ErrorIs(t, err, ErrEmptyReply)
	})
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(context.Background(), Config{})
	assert.Error(t, err)
}

func TestSystemInstruction(t *testing.T) {
	now := time.Date(2026, 5, 14, 9, 0, 0, 0, time.UTC)

	t.Run("ListsWallets", func(t *testing.T) {
		wallets := []wallet.Wallet{
			{Name: "Main", Type: wallet.TypeBank, Balance: decimal.RequireFromString("1250.5"), Currency: "EUR", IsDefault: true},
			{Name: "Cash", Type: wallet.TypeCash, Balance: decimal.Zero, Currency: "EUR", IsLocked: true, MonthlyLimit: new(decimal.NewFromInt(300))},
		}

		got := SystemInstruction(wallets, now)

		assert.Contains(t, got, "Today is Thursday, 14 May 2026.")
		assert.Contains(t, got, "- Main (bank, 1250.50 EUR) [default]\n")
		assert.Contains(t, got, "- Cash (cash, 0.00 EUR) [locked, cannot be used; monthly limit 300.00]\n")
		assert.Contains(t, got, "[TRANSACTION: amount=")
		assert.Contains(t, got, "[TRANSFER: amount=")
	})

	t.Run("NoWallets", func(t *testing.T) {
		got := SystemInstruction(nil, now)
		assert.Contains(t, got, "no wallets yet")
	})
}
