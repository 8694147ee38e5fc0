package directive_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/finbot/internal/directive"
	"github.com/MrJamesThe3rd/finbot/internal/transaction"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestExtract_NoMarkers(t *testing.T) {
	inputs := []string{
		"",
		"Sure, I can help with that!",
		"Brackets [like these] are fine",
		"[TRANSACTION amount=5] has no colon",
		"[TRANSACTION: amount=5, never closed",
		"lower case [transaction: amount=5, category=food, type=expense, description=x] is not extracted",
	}

	for _, in := range inputs {
		assert.Empty(t, directive.Extract(in), in)
	}
}

func TestExtract_Transaction(t *testing.T) {
	got := directive.Extract("[TRANSACTION: amount=12.50, category=groceries, type=expense, description=milk]")
	require.Len(t, got, 1)

	tx, ok := got[0].(directive.Transaction)
	require.True(t, ok)
	assert.Equal(t, directive.KindTransaction, tx.Kind())
	assert.True(t, tx.Amount.Equal(dec("12.50")))
	assert.Equal(t, "groceries", tx.Category)
	assert.Equal(t, transaction.TypeExpense, tx.Type)
	assert.Equal(t, "milk", tx.Description)
	assert.Equal(t, "default", tx.WalletHint)
}

func TestExtract_TransactionFields(t *testing.T) {
	type testCase struct {
		name string
		text string
		want directive.Transaction
	}

	tests := []testCase{
		{
			name: "WalletHint",
			text: "[TRANSACTION: amount=3, category=Food, type=Expense, description=Coffee at Joe's, wallet= Cash Wallet ]",
			want: directive.Transaction{Amount: dec("3"), Category: "food", Type: transaction.TypeExpense, Description: "Coffee at Joe's", WalletHint: "Cash Wallet"},
		},
		{
			name: "LooseWhitespace",
			text: "[ TRANSACTION :amount = 1500 ,category=salary,type=income,   description=  March pay  ]",
			want: directive.Transaction{Amount: dec("1500"), Category: "salary", Type: transaction.TypeIncome, Description: "March pay", WalletHint: "default"},
		},
		{
			name: "EmptyWalletMeansDefault",
			text: "[TRANSACTION: amount=2, category=misc, type=expense, description=gum, wallet=]",
			want: directive.Transaction{Amount: dec("2"), Category: "misc", Type: transaction.TypeExpense, Description: "gum", WalletHint: "default"},
		},
		{
			name: "ZeroAmountPassesExtraction",
			text: "[TRANSACTION: amount=0, category=misc, type=expense, description=free sample]",
			want: directive.Transaction{Amount: dec("0"), Category: "misc", Type: transaction.TypeExpense, Description: "free sample", WalletHint: "default"},
		},
		{
			name: "DescriptionMayHoldBrackets",
			text: "[TRANSACTION: amount=9, category=books, type=expense, description=Go [2nd ed]",
			want: directive.Transaction{Amount: dec("9"), Category: "books", Type: transaction.TypeExpense, Description: "Go [2nd ed", WalletHint: "default"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := directive.Extract(tt.text)
			require.Len(t, got, 1)

			tx := got[0].(directive.Transaction)
			assert.True(t, tt.want.Amount.Equal(tx.Amount), "amount %s", tx.Amount)

			tx.Amount = tt.want.Amount
			assert.Equal(t, tt.want, tx)
		})
	}
}

func TestExtract_Transfer(t *testing.T) {
	t.Run("WithDescription", func(t *testing.T) {
		got := directive.Extract("[TRANSFER: amount=40, from=Main, to=Savings, description=rainy day]")
		require.Len(t, got, 1)

		tr := got[0].(directive.Transfer)
		assert.Equal(t, directive.KindTransfer, tr.Kind())
		assert.True(t, tr.Amount.Equal(dec("40")))
		assert.Equal(t, "Main", tr.FromWalletHint)
		assert.Equal(t, "Savings", tr.ToWalletHint)
		assert.Equal(t, "rainy day", tr.Description)
	})

	t.Run("DefaultDescription", func(t *testing.T) {
		got := directive.Extract("[TRANSFER: amount=10.5, from=Cash, to=Bank]")
		require.Len(t, got, 1)

		tr := got[0].(directive.Transfer)
		assert.Equal(t, "Transfer", tr.Description)
		assert.Equal(t, "Bank", tr.ToWalletHint)
	})
}

func TestExtract_Order(t *testing.T) {
	text := "Moving money first [TRANSFER: amount=50, from=Main, to=Travel] and then " +
		"[TRANSACTION: amount=30, category=travel, type=expense, description=train, wallet=Travel] done."

	got := directive.Extract(text)
	require.Len(t, got, 2)
	assert.Equal(t, directive.KindTransfer, got[0].Kind())
	assert.Equal(t, directive.KindTransaction, got[1].Kind())
}

func TestExtract_AdjacentMarkers(t *testing.T) {
	text := "[TRANSACTION: amount=1, category=a, type=expense, description=one]" +
		"[TRANSACTION: amount=2, category=b, type=expense, description=two]"

	got := directive.Extract(text)
	require.Len(t, got, 2)
	assert.Equal(t, "one", got[0].(directive.Transaction).Description)
	assert.Equal(t, "two", got[1].(directive.Transaction).Description)
}

func TestScan_Rejected(t *testing.T) {
	type testCase struct {
		name      string
		marker    string
		wantField string
	}

	tests := []testCase{
		{name: "NonNumericAmount", marker: "[TRANSACTION: amount=lots, category=food, type=expense, description=x]", wantField: "amount"},
		{name: "NegativeAmount", marker: "[TRANSACTION: amount=-4, category=food, type=expense, description=x]", wantField: "amount"},
		{name: "MultiWordCategory", marker: "[TRANSACTION: amount=4, category=eating out, type=expense, description=x]", wantField: "category"},
		{name: "UnknownType", marker: "[TRANSACTION: amount=4, category=food, type=refund, description=x]", wantField: "type"},
		{name: "MissingDescription", marker: "[TRANSACTION: amount=4, category=food, type=expense]", wantField: "description"},
		{name: "EmptyDescription", marker: "[TRANSACTION: amount=4, category=food, type=expense, description= ]", wantField: "description"},
		{name: "UnknownField", marker: "[TRANSACTION: amount=4, category=food, type=expense, description=x, tip=1]", wantField: "tip"},
		{name: "DuplicateField", marker: "[TRANSACTION: amount=4, amount=5, category=food, type=expense, description=x]", wantField: "amount"},
		{name: "CommaInDescription", marker: "[TRANSACTION: amount=4, category=food, type=expense, description=milk, eggs]", wantField: ""},
		{name: "TransferMissingTo", marker: "[TRANSFER: amount=4, from=Main]", wantField: "to"},
		{name: "TransferEmptyFrom", marker: "[TRANSFER: amount=4, from=, to=Savings]", wantField: "from"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "before " + tt.marker + " after"

			directives, rejected := directive.Scan(text)
			assert.Empty(t, directives)
			require.Len(t, rejected, 1)

			assert.Equal(t, tt.wantField, rejected[0].Field)
			assert.Equal(t, tt.marker, rejected[0].Marker)
			assert.Equal(t, len("before "), rejected[0].Offset)
			assert.NotEmpty(t, rejected[0].Error())
		})
	}
}

func TestScan_BadMarkerDoesNotStopScan(t *testing.T) {
	text := "[TRANSACTION: amount=abc, category=food, type=expense, description=bad] " +
		"[TRANSACTION: amount=5, category=food, type=expense, description=good]"

	directives, rejected := directive.Scan(text)
	require.Len(t, directives, 1)
	require.Len(t, rejected, 1)

	assert.Equal(t, "good", directives[0].(directive.Transaction).Description)
	assert.Equal(t, directive.KindTransaction, rejected[0].Kind)
}
