package directive

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/transaction"
)

// Extract returns the directives found in text, left to right.
// Markers with invalid fields are silently dropped; use Scan to see them.
func Extract(text string) []Directive {
	directives, _ := Scan(text)
	return directives
}

// Scan returns the directives found in text in order of appearance, together with
// a ParseError for every marker that was recognised but rejected.
// The keyword is matched case-sensitively.
func Scan(text string) ([]Directive, []*ParseError) {
	var (
		directives []Directive
		rejected   []*ParseError
	)

	for _, m := range findMarkers(text, false) {
		d, perr := parse(m)
		if perr != nil {
			perr.Kind = m.kind
			perr.Marker = text[m.start:m.end]
			perr.Offset = m.start
			rejected = append(rejected, perr)

			continue
		}

		directives = append(directives, d)
	}

	return directives, rejected
}

func parse(m marker) (Directive, *ParseError) {
	fields, perr := splitFields(m.body)
	if perr != nil {
		return nil, perr
	}

	switch m.kind {
	case KindTransaction:
		return parseTransaction(fields)
	case KindTransfer:
		return parseTransfer(fields)
	}

	return nil, &ParseError{Reason: "unknown marker"}
}

func parseTransaction(fields []field) (Directive, *ParseError) {
	d := Transaction{WalletHint: DefaultWalletHint}

	var have struct{ amount, category, typ, description bool }

	for _, f := range fields {
		switch f.key {
		case "amount":
			amount, perr := parseAmount(f.value)
			if perr != nil {
				return nil, perr
			}

			d.Amount = amount
			have.amount = true
		case "category":
			if !isWord(f.value) {
				return nil, &ParseError{Field: f.key, Reason: "must be a single word"}
			}

			d.Category = strings.ToLower(f.value)
			have.category = true
		case "type":
			t := transaction.Type(strings.ToLower(f.value))
			if !isWord(f.value) || !t.Valid() {
				return nil, &ParseError{Field: f.key, Reason: "must be income or expense"}
			}

			d.Type = t
			have.typ = true
		case "description":
			if f.value == "" {
				return nil, &ParseError{Field: f.key, Reason: "is empty"}
			}

			d.Description = f.value
			have.description = true
		case "wallet":
			if f.value != "" {
				d.WalletHint = f.value
			}
		default:
			return nil, &ParseError{Field: f.key, Reason: "unknown field"}
		}
	}

	switch {
	case !have.amount:
		return nil, missing("amount")
	case !have.category:
		return nil, missing("category")
	case !have.typ:
		return nil, missing("type")
	case !have.description:
		return nil, missing("description")
	}

	return d, nil
}

func parseTransfer(fields []field) (Directive, *ParseError) {
	d := Transfer{Description: DefaultTransferDescription}

	var haveAmount bool

	for _, f := range fields {
		switch f.key {
		case "amount":
			amount, perr := parseAmount(f.value)
			if perr != nil {
				return nil, perr
			}

			d.Amount = amount
			haveAmount = true
		case "from":
			d.FromWalletHint = f.value
		case "to":
			d.ToWalletHint = f.value
		case "description":
			if f.value != "" {
				d.Description = f.value
			}
		default:
			return nil, &ParseError{Field: f.key, Reason: "unknown field"}
		}
	}

	switch {
	case !haveAmount:
		return nil, missing("amount")
	case d.FromWalletHint == "":
		return nil, missing("from")
	case d.ToWalletHint == "":
		return nil, missing("to")
	}

	return d, nil
}

// parseAmount accepts a plain decimal number. Negative amounts are rejected here;
// zero passes and is refused later as a validation failure.
func parseAmount(s string) (decimal.Decimal, *ParseError) {
	if s == "" {
		return decimal.Zero, &ParseError{Field: "amount", Reason: "is empty"}
	}

	amount, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ParseError{Field: "amount", Reason: "not a number: " + s}
	}

	if amount.IsNegative() {
		return decimal.Zero, &ParseError{Field: "amount", Reason: "must not be negative"}
	}

	return amount, nil
}

func missing(name string) *ParseError {
	return &ParseError{Field: name, Reason: "is required"}
}
