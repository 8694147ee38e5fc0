package assistant

import (
	"fmt"
	"strings"
	"time"

	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

const instructionHeader = `You are Finbot, a friendly personal finance assistant chatting with one user.
Answer briefly and conversationally.

When the user reports money they spent or received, log it by adding one marker per item to your reply:
[TRANSACTION: amount=<number>, category=<one_word>, type=<income|expense>, description=<short text>, wallet=<wallet name>]

When the user moves money between two of their own wallets, add:
[TRANSFER: amount=<number>, from=<wallet name>, to=<wallet name>, description=<short text>]

Rules:
- amount is a positive number without currency symbols or thousands separators, e.g. 12.50.
- category is a single lower-case word such as groceries, transport, salary or rent.
- Field values must not contain commas or square brackets.
- Leave out wallet= when the user does not say which wallet; their default wallet is used.
- Never emit a marker for something the user only asks about or plans to do.
- Do not mention or explain the markers; they are removed before the user sees your reply.
`

// SystemInstruction builds the instruction sent with every turn, listing the user's wallets so
// the model can name them in markers.
func SystemInstruction(wallets []wallet.Wallet, now time.Time) string {
	var b strings.Builder

	b.WriteString(instructionHeader)
	fmt.Fprintf(&b, "\nToday is %s.\n", now.Format("Monday, 2 January 2006"))

	if len(wallets) == 0 {
		b.WriteString("\nThe user has no wallets yet. Do not emit markers; suggest creating a wallet first.\n")
		return b.String()
	}

	b.WriteString("\nThe user's wallets:\n")

	for _, w := range wallets {
		fmt.Fprintf(&b, "- %s (%s, %s %s)", w.Name, w.Type, w.Balance.StringFixed(2), w.Currency)

		var flags []string
		if w.IsDefault {
			flags = append(flags, "default")
		}

		if w.IsLocked {
			flags = append(flags, "locked, cannot be used")
		}

		if w.MonthlyLimit != nil {
			flags = append(flags, "monthly limit "+w.MonthlyLimit.StringFixed(2))
		}

		if len(flags) > 0 {
			fmt.Fprintf(&b, " [%s]", strings.Join(flags, "; "))
		}

		b.WriteByte('\n')
	}

	return b.String()
}
