package wallet_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

func named(name string, isDefault bool) wallet.Wallet {
	return wallet.Wallet{ID: uuid.New(), Name: name, IsDefault: isDefault, Currency: "USD"}
}

func TestResolve(t *testing.T) {
	savings := named("Savings", false)
	main := named("Main", true)
	cash := named("Cash Wallet", false)
	cashApp := named("Cash App", false)
	cafe := named("Café Fund", false)

	wallets := []wallet.Wallet{savings, main, cash, cashApp, cafe}

	type testCase struct {
		name          string
		hint          string
		wantID        uuid.UUID
		wantMatch     wallet.Match
		wantAmbiguous bool
	}

	tests := []testCase{
		{name: "ExactWinsOverDefault", hint: "Savings", wantID: savings.ID, wantMatch: wallet.MatchExact},
		{name: "ExactIgnoresCase", hint: "  sAvInGs ", wantID: savings.ID, wantMatch: wallet.MatchExact},
		{name: "ExactUnicodeFold", hint: "CAFÉ FUND", wantID: cafe.ID, wantMatch: wallet.MatchExact},
		{name: "EmptyHint", hint: "", wantID: main.ID, wantMatch: wallet.MatchDefault},
		{name: "Sentinel", hint: "default", wantID: main.ID, wantMatch: wallet.MatchDefault},
		{name: "SentinelUpperCase", hint: "DEFAULT", wantID: main.ID, wantMatch: wallet.MatchDefault},
		{name: "HintInsideName", hint: "sav", wantID: savings.ID, wantMatch: wallet.MatchSubstring},
		{name: "NameInsideHint", hint: "my savings account", wantID: savings.ID, wantMatch: wallet.MatchSubstring},
		{name: "AmbiguousFallsBackToDefault", hint: "cash", wantID: main.ID, wantMatch: wallet.MatchDefault, wantAmbiguous: true},
		{name: "NoMatch", hint: "Vault", wantID: main.ID, wantMatch: wallet.MatchDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := wallet.Resolve(tt.hint, wallets)
			require.NoError(t, err)

			assert.Equal(t, tt.wantID, got.Wallet.ID)
			assert.Equal(t, tt.wantMatch, got.Match)
			assert.Equal(t, tt.wantAmbiguous, got.Ambiguous)
		})
	}
}

func TestResolve_NoWalletAvailable(t *testing.T) {
	t.Run("NoWallets", func(t *testing.T) {
		_, err := wallet.Resolve("Vault", nil)

		var resErr *wallet.ResolutionError
		require.ErrorAs(t, err, &resErr)
		assert.Equal(t, wallet.ReasonNoWalletAvailable, resErr.Reason)
		assert.Equal(t, "Vault", resErr.Hint)
		assert.ErrorIs(t, err, wallet.ErrNoWalletAvailable)
	})

	t.Run("NoDefault", func(t *testing.T) {
		_, err := wallet.Resolve("default", []wallet.Wallet{named("Savings", false)})
		assert.ErrorIs(t, err, wallet.ErrNoWalletAvailable)
	})

	t.Run("MatchStillResolvesWithoutDefault", func(t *testing.T) {
		savings := named("Savings", false)

		got, err := wallet.Resolve("savings", []wallet.Wallet{savings})
		require.NoError(t, err)
		assert.Equal(t, savings.ID, got.Wallet.ID)
	})
}

func TestResolve_LockedWalletIsReturned(t *testing.T) {
	locked := named("Vacation", false)
	locked.IsLocked = true

	got, err := wallet.Resolve("vacation", []wallet.Wallet{named("Main", true), locked})
	require.NoError(t, err)
	assert.Equal(t, locked.ID, got.Wallet.ID)
	assert.True(t, got.Wallet.IsLocked)
}

func TestResolve_FirstDefaultWins(t *testing.T) {
	first := named("Main", true)
	second := named("Other", true)

	got, err := wallet.Resolve("", []wallet.Wallet{first, second})
	require.NoError(t, err)
	assert.Equal(t, first.ID, got.Wallet.ID)
}
