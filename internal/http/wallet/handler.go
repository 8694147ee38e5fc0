package wallet

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/finbot/internal/http/auth"
	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

type Handler struct {
	svc *wallet.Service
}

func NewHandler(svc *wallet.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Get("/{id}", h.get)
	r.Post("/{id}/lock", h.lock)
	r.Delete("/{id}/lock", h.unlock)
}

type walletResponse struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	Type         wallet.Type      `json:"type"`
	Balance      decimal.Decimal  `json:"balance"`
	Currency     string           `json:"currency"`
	IsDefault    bool             `json:"is_default"`
	IsLocked     bool             `json:"is_locked"`
	MonthlyLimit *decimal.Decimal `json:"monthly_limit,omitempty"`
}

func toResponse(w *wallet.Wallet) walletResponse {
	return walletResponse{
		ID:           w.ID,
		Name:         w.Name,
		Type:         w.Type,
		Balance:      w.Balance,
		Currency:     w.Currency,
		IsDefault:    w.IsDefault,
		IsLocked:     w.IsLocked,
		MonthlyLimit: w.MonthlyLimit,
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	wallets, err := h.svc.List(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list wallets", "user_id", userID, "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)

		return
	}

	resp := make([]walletResponse, len(wallets))
	for i := range wallets {
		resp[i] = toResponse(&wallets[i])
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

type createWalletRequest struct {
	Name         string           `json:"name"`
	Type         wallet.Type      `json:"type"`
	Currency     string           `json:"currency"`
	Balance      decimal.Decimal  `json:"balance"`
	IsDefault    bool             `json:"is_default"`
	MonthlyLimit *decimal.Decimal `json:"monthly_limit,omitempty"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req createWalletRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	created, err := h.svc.Create(r.Context(), wallet.CreateParams{
		UserID:       userID,
		Name:         req.Name,
		Type:         req.Type,
		Currency:     req.Currency,
		Balance:      req.Balance,
		IsDefault:    req.IsDefault,
		MonthlyLimit: req.MonthlyLimit,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)

	if err := json.NewEncoder(w).Encode(toResponse(created)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	found, err := h.svc.Get(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(found)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) lock(w http.ResponseWriter, r *http.Request) {
	h.setLocked(w, r, true)
}

func (h *Handler) unlock(w http.ResponseWriter, r *http.Request) {
	h.setLocked(w, r, false)
}

func (h *Handler) setLocked(w http.ResponseWriter, r *http.Request, locked bool) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}

	if locked {
		err = h.svc.Lock(r.Context(), userID, id)
	} else {
		err = h.svc.Unlock(r.Context(), userID, id)
	}

	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, wallet.ErrNotFound):
		http.Error(w, "wallet not found", http.StatusNotFound)
	case errors.Is(err, wallet.ErrInvalid):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		slog.Error("wallet request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
