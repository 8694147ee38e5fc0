package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/transaction"
)

type transactionResponse struct {
	ID                uuid.UUID        `json:"id"`
	WalletID          *uuid.UUID       `json:"wallet_id,omitempty"`
	Amount            decimal.Decimal  `json:"amount"`
	Type              transaction.Type `json:"type"`
	Category          string           `json:"category"`
	Description       string           `json:"description"`
	Date              time.Time        `json:"date"`
	ExtractedFromChat bool             `json:"extracted_from_chat"`
	Confirmed         bool             `json:"confirmed"`
	TransferID        *uuid.UUID       `json:"transfer_id,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         *time.Time       `json:"updated_at,omitempty"`
}

func toResponse(tx *transaction.Transaction) transactionResponse {
	return transactionResponse{
		ID:                tx.ID,
		WalletID:          tx.WalletID,
		Amount:            tx.Amount,
		Type:              tx.Type,
		Category:          tx.Category,
		Description:       tx.Description,
		Date:              tx.Date,
		ExtractedFromChat: tx.ExtractedFromChat,
		Confirmed:         tx.Confirmed,
		TransferID:        tx.TransferID,
		CreatedAt:         tx.CreatedAt,
		UpdatedAt:         tx.UpdatedAt,
	}
}

func toResponseList(txs []*transaction.Transaction) []transactionResponse {
	resp := make([]transactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = toResponse(tx)
	}

	return resp
}
