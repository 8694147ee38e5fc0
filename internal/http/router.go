package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/MrJamesThe3rd/finbot/internal/http/auth"
	"github.com/MrJamesThe3rd/finbot/internal/http/chat"
	"github.com/MrJamesThe3rd/finbot/internal/http/ratelimit"
	"github.com/MrJamesThe3rd/finbot/internal/http/transaction"
	"github.com/MrJamesThe3rd/finbot/internal/http/wallet"
)

type Options struct {
	AllowedOrigins []string
	Verifier       *auth.Verifier
	ChatLimiter    *ratelimit.Limiter
}

func New(
	opts Options,
	chatV1 *chat.Handler,
	walletsV1 *wallet.Handler,
	transactionsV1 *transaction.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(opts.Verifier.Middleware)

		r.Route("/chat", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			r.Use(opts.ChatLimiter.Middleware)
			chatV1.Routes(r)
		})

		r.Route("/wallets", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			walletsV1.Routes(r)
		})

		r.Route("/transactions", transactionsV1.Routes)
	})

	return router
}
