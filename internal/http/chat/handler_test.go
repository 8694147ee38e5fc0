package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/finbot/internal/chat"
	"github.com/MrJamesThe3rd/finbot/internal/http/auth"
	chatHandler "github.com/MrJamesThe3rd/finbot/internal/http/chat"
	"github.com/MrJamesThe3rd/finbot/internal/reconcile"
	"github.com/MrJamesThe3rd/finbot/internal/transaction"
	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

type mocks struct {
	wallets   *chat.MockWalletLister
	assistant *chat.MockAssistant
	ledger    *reconcile.MockLedger
}

func newRouter(t *testing.T, userID uuid.UUID) (http.Handler, mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	m := mocks{
		wallets:   chat.NewMockWalletLister(ctrl),
		assistant: chat.NewMockAssistant(ctrl),
		ledger:    reconcile.NewMockLedger(ctrl),
	}

	svc := chat.NewService(m.wallets, reconcile.New(m.ledger, logger), m.assistant, logger)

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), userID)))
		})
	})
	r.Route("/chat", chatHandler.NewHandler(svc).Routes)

	return r, m
}

func mainWallet(userID uuid.UUID) []wallet.Wallet {
	return []wallet.Wallet{
		{ID: uuid.New(), UserID: userID, Name: "Main", Balance: decimal.NewFromInt(20), Currency: "USD", IsDefault: true},
	}
}

type response struct {
	Content  string `json:"content"`
	Summary  string `json:"summary"`
	Partial  bool   `json:"partial"`
	Outcomes []struct {
		Index        int    `json:"index"`
		Kind         string `json:"kind"`
		Committed    bool   `json:"committed"`
		ErrorCode    string `json:"error_code"`
		Transactions []struct {
			Amount   string `json:"amount"`
			Category string `json:"category"`
		} `json:"transactions"`
	} `json:"outcomes"`
	Skipped []struct {
		Kind   string `json:"kind"`
		Field  string `json:"field"`
		Reason string `json:"reason"`
	} `json:"skipped"`
}

func TestHandler_Process(t *testing.T) {
	userID := uuid.New()
	router, m := newRouter(t, userID)

	m.wallets.EXPECT().List(gomock.Any(), userID).Return(mainWallet(userID), nil)
	m.ledger.EXPECT().Record(gomock.Any(), gomock.Any()).Return(nil)

	reply := `Done! [TRANSACTION: amount=4.20, category=Coffee, type=expense, description=flat white] ` +
		`[TRANSFER: amount=5, from=Main, to=Main] [TRANSACTION: amount=-1, category=x, type=expense, description=y]`
	body, err := json.Marshal(map[string]string{"reply": reply})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat/process", strings.NewReader(string(body))))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, "Done!", resp.Content)
	assert.Equal(t, "1 of 3 items logged", resp.Summary)

	require.Len(t, resp.Outcomes, 2)
	assert.True(t, resp.Outcomes[0].Committed)
	require.Len(t, resp.Outcomes[0].Transactions, 1)
	assert.Equal(t, "4.2", resp.Outcomes[0].Transactions[0].Amount)
	assert.Equal(t, "coffee", resp.Outcomes[0].Transactions[0].Category)

	assert.False(t, resp.Outcomes[1].Committed)
	assert.Equal(t, "transfer", resp.Outcomes[1].Kind)
	assert.Equal(t, reconcile.CodeSameWalletTransfer, resp.Outcomes[1].ErrorCode)

	require.Len(t, resp.Skipped, 1)
	assert.Equal(t, "amount", resp.Skipped[0].Field)
}

func TestHandler_Process_Interrupted(t *testing.T) {
	userID := uuid.New()
	router, m := newRouter(t, userID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m.wallets.EXPECT().List(gomock.Any(), userID).Return(mainWallet(userID), nil)
	m.ledger.EXPECT().
		Record(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
			tx.ID = uuid.New()
			cancel()

			return nil
		})

	reply := `Ok [TRANSACTION: amount=2, category=snacks, type=expense, description=chips] ` +
		`[TRANSACTION: amount=3, category=snacks, type=expense, description=soda]`
	body, err := json.Marshal(map[string]string{"reply": reply})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/chat/process", strings.NewReader(string(body))).WithContext(ctx)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.True(t, resp.Partial)
	assert.Equal(t, "Ok", resp.Content)
	require.Len(t, resp.Outcomes, 1)
	assert.True(t, resp.Outcomes[0].Committed)
	require.Len(t, resp.Outcomes[0].Transactions, 1)
	assert.Equal(t, "2", resp.Outcomes[0].Transactions[0].Amount)
}

func TestHandler_Send(t *testing.T) {
	userID := uuid.New()
	router, m := newRouter(t, userID)

	m.wallets.EXPECT().List(gomock.Any(), userID).Return(mainWallet(userID), nil)
	m.assistant.EXPECT().Reply(gomock.Any(), gomock.Any()).Return("Hello! How can I help?", nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"message":"hi"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "Hello! How can I help?", resp.Content)
	assert.Empty(t, resp.Summary)
	assert.Empty(t, resp.Outcomes)
}

func TestHandler_Send_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setupMock  func(m mocks)
		wantStatus int
	}{
		{
			name:       "Malformed",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "EmptyMessage",
			body:       `{"message":"  "}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "AssistantDown",
			body: `{"message":"hi"}`,
			setupMock: func(m mocks) {
				m.wallets.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, nil)
				m.assistant.EXPECT().Reply(gomock.Any(), gomock.Any()).Return("", errors.New("503 from upstream"))
			},
			wantStatus: http.StatusBadGateway,
		},
		{
			name: "WalletsUnavailable",
			body: `{"message":"hi"}`,
			setupMock: func(m mocks) {
				m.wallets.EXPECT().List(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, m := newRouter(t, uuid.New())
			if tt.setupMock != nil {
				tt.setupMock(m)
			}

			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(tt.body)))
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
