package chat

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/finbot/internal/chat"
	"github.com/MrJamesThe3rd/finbot/internal/http/auth"
)

// maxBodyBytes bounds chat request bodies.
const maxBodyBytes = 64 << 10

type Handler struct {
	svc *chat.Service
}

func NewHandler(svc *chat.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.send)
	r.Post("/process", h.process)
}

type sendRequest struct {
	Message string `json:"message"`
}

func (h *Handler) send(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req sendRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Send(r.Context(), userID, req.Message)
	if err != nil {
		writeError(w, res, err)
		return
	}

	writeResult(w, http.StatusOK, res)
}

type processRequest struct {
	Reply string `json:"reply"`
}

// process runs a reply produced elsewhere through the pipeline, without calling the assistant.
func (h *Handler) process(w http.ResponseWriter, r *http.Request) {
	userID, err := auth.UserID(r.Context())
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	var req processRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	res, err := h.svc.Process(r.Context(), userID, req.Reply)
	if err != nil {
		writeError(w, res, err)
		return
	}

	writeResult(w, http.StatusOK, res)
}

func writeResult(w http.ResponseWriter, status int, res *chat.Result) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(toResponse(res)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps pipeline failures to status codes. An interrupted run is answered with the
// outcomes it committed.
func writeError(w http.ResponseWriter, res *chat.Result, err error) {
	switch {
	case errors.Is(err, chat.ErrInterrupted) && res != nil:
		slog.Warn("chat request interrupted", "committed", res.Committed(), "error", err)
		writeResult(w, http.StatusServiceUnavailable, res)
	case errors.Is(err, chat.ErrEmptyMessage):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, chat.ErrNoAssistant):
		http.Error(w, "assistant is not configured", http.StatusServiceUnavailable)
	case errors.Is(err, chat.ErrAssistant):
		slog.Error("assistant request failed", "error", err)
		http.Error(w, "assistant unavailable", http.StatusBadGateway)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		http.Error(w, "request cancelled", http.StatusServiceUnavailable)
	default:
		slog.Error("chat request failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}
