package chat

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/chat"
	"github.com/MrJamesThe3rd/finbot/internal/directive"
	"github.com/MrJamesThe3rd/finbot/internal/reconcile"
	"github.com/MrJamesThe3rd/finbot/internal/transaction"
)

type chatResponse struct {
	Content  string            `json:"content"`
	Summary  string            `json:"summary,omitempty"`
	Outcomes []outcomeResponse `json:"outcomes"`
	Skipped  []skippedResponse `json:"skipped"`
	Partial  bool              `json:"partial,omitempty"`
}

type outcomeResponse struct {
	Index        int              `json:"index"`
	Kind         directive.Kind   `json:"kind"`
	Committed    bool             `json:"committed"`
	ErrorCode    string           `json:"error_code,omitempty"`
	Error        string           `json:"error,omitempty"`
	Transactions []entryResponse  `json:"transactions,omitempty"`
	Warning      *warningResponse `json:"warning,omitempty"`
}

type entryResponse struct {
	ID          uuid.UUID        `json:"id"`
	WalletID    *uuid.UUID       `json:"wallet_id,omitempty"`
	Amount      decimal.Decimal  `json:"amount"`
	Type        transaction.Type `json:"type"`
	Category    string           `json:"category"`
	Description string           `json:"description"`
	Date        time.Time        `json:"date"`
	TransferID  *uuid.UUID       `json:"transfer_id,omitempty"`
}

type warningResponse struct {
	WalletID uuid.UUID       `json:"wallet_id"`
	Message  string          `json:"message"`
	Limit    decimal.Decimal `json:"limit"`
	Spent    decimal.Decimal `json:"spent"`
}

type skippedResponse struct {
	Kind   directive.Kind `json:"kind"`
	Offset int            `json:"offset"`
	Field  string         `json:"field,omitempty"`
	Reason string         `json:"reason"`
}

func toResponse(res *chat.Result) chatResponse {
	resp := chatResponse{
		Content:  res.Content,
		Summary:  res.Summary(),
		Outcomes: make([]outcomeResponse, len(res.Outcomes)),
		Skipped:  make([]skippedResponse, len(res.Skipped)),
		Partial:  res.Partial,
	}

	for i, o := range res.Outcomes {
		resp.Outcomes[i] = toOutcome(o)
	}

	for i, perr := range res.Skipped {
		resp.Skipped[i] = skippedResponse{
			Kind:   perr.Kind,
			Offset: perr.Offset,
			Field:  perr.Field,
			Reason: perr.Reason,
		}
	}

	return resp
}

func toOutcome(o reconcile.Outcome) outcomeResponse {
	out := outcomeResponse{
		Index:     o.Index,
		Kind:      o.Directive.Kind(),
		Committed: o.OK(),
	}

	if o.Err != nil {
		out.ErrorCode = reconcile.ErrorCode(o.Err)
		out.Error = o.Err.Error()

		return out
	}

	for _, tx := range []*transaction.Transaction{o.Entry.Transaction, o.Entry.Debit, o.Entry.Credit} {
		if tx != nil {
			out.Transactions = append(out.Transactions, toEntry(tx))
		}
	}

	if w := o.Entry.Warning; w != nil {
		out.Warning = &warningResponse{
			WalletID: w.WalletID,
			Message:  w.String(),
			Limit:    w.Limit,
			Spent:    w.Spent,
		}
	}

	return out
}

func toEntry(tx *transaction.Transaction) entryResponse {
	return entryResponse{
		ID:          tx.ID,
		WalletID:    tx.WalletID,
		Amount:      tx.Amount,
		Type:        tx.Type,
		Category:    tx.Category,
		Description: tx.Description,
		Date:        tx.Date,
		TransferID:  tx.TransferID,
	}
}
