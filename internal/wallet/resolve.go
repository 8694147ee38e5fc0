package wallet

import (
	"strings"

	"golang.org/x/text/cases"
)

// DefaultHint is the reserved hint meaning "the user's default wallet".
const DefaultHint = "default"

// Match records which rule picked the wallet.
type Match string

const (
	MatchExact     Match = "exact"
	MatchSubstring Match = "substring"
	MatchDefault   Match = "default"
)

type Resolution struct {
	Wallet Wallet
	Match  Match

	// Ambiguous is set when several wallets matched the hint by substring and the default wallet was used instead.
	Ambiguous bool
}

// Resolve maps a free-text wallet hint onto one of the user's wallets.
//
// Rules, in order:
//  1. Case-insensitive exact name match (first in order wins).
//  2. Case-insensitive substring match in either direction, only if exactly one wallet qualifies.
//     Skipped for an empty hint and for DefaultHint.
//  3. The first wallet flagged IsDefault.
//
// Locked wallets are returned like any other; callers decide whether they may be used.
func Resolve(hint string, wallets []Wallet) (Resolution, error) {
	hint = strings.TrimSpace(hint)
	key := fold(hint)

	if key != "" {
		for _, w := range wallets {
			if fold(w.Name) == key {
				return Resolution{Wallet: w, Match: MatchExact}, nil
			}
		}
	}

	var ambiguous bool

	if key != "" && key != DefaultHint {
		found := -1
		count := 0

		for i, w := range wallets {
			name := fold(w.Name)
			if name == "" {
				continue
			}

			if strings.Contains(name, key) || strings.Contains(key, name) {
				found = i
				count++
			}
		}

		if count == 1 {
			return Resolution{Wallet: wallets[found], Match: MatchSubstring}, nil
		}

		ambiguous = count > 1
	}

	for _, w := range wallets {
		if w.IsDefault {
			return Resolution{Wallet: w, Match: MatchDefault, Ambiguous: ambiguous}, nil
		}
	}

	return Resolution{}, &ResolutionError{Hint: hint, Reason: ReasonNoWalletAvailable}
}

// fold normalises a name for caseless comparison. Casers carry state, so one is built per call.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
