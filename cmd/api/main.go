package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finbot/internal/assistant"
	"github.com/MrJamesThe3rd/finbot/internal/chat"
	"github.com/MrJamesThe3rd/finbot/internal/config"
	"github.com/MrJamesThe3rd/finbot/internal/database"
	finbotHttp "github.com/MrJamesThe3rd/finbot/internal/http"
	"github.com/MrJamesThe3rd/finbot/internal/http/auth"
	chatHandler "github.com/MrJamesThe3rd/finbot/internal/http/chat"
	"github.com/MrJamesThe3rd/finbot/internal/http/ratelimit"
	txHandler "github.com/MrJamesThe3rd/finbot/internal/http/transaction"
	walletHandler "github.com/MrJamesThe3rd/finbot/internal/http/wallet"
	"github.com/MrJamesThe3rd/finbot/internal/reconcile"
	"github.com/MrJamesThe3rd/finbot/internal/transaction"
	txStore "github.com/MrJamesThe3rd/finbot/internal/transaction/store"
	"github.com/MrJamesThe3rd/finbot/internal/wallet"
	walletStore "github.com/MrJamesThe3rd/finbot/internal/wallet/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))
	slog.SetDefault(logger)

	if cfg.Auth.JWTSecret == "" {
		slog.Error("JWT_SECRET is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.New(cfg.ConnectionString(), database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if cfg.DB.Migrate {
		if err := database.Migrate(ctx, db); err != nil {
			slog.Error("failed to migrate database", "error", err)
			os.Exit(1)
		}
	}

	var gemini chat.Assistant

	if cfg.Assistant.APIKey != "" {
		g, err := assistant.New(ctx, assistant.Config{
			APIKey:      cfg.Assistant.APIKey,
			Model:       cfg.Assistant.Model,
			Temperature: cfg.Assistant.Temperature,
		})
		if err != nil {
			slog.Error("failed to create assistant", "error", err)
			os.Exit(1)
		}

		gemini = g
	} else {
		slog.Warn("GEMINI_API_KEY not set, only /chat/process is available")
	}

	var (
		walletService      = wallet.NewService(walletStore.New(db))
		transactionService = transaction.NewService(txStore.New(db))
		reconciler         = reconcile.New(transactionService, logger)
		chatService        = chat.NewService(walletService, reconciler, gemini, logger)
	)

	var (
		chatH        = chatHandler.NewHandler(chatService)
		walletH      = walletHandler.NewHandler(walletService)
		transactionH = txHandler.NewHandler(transactionService)
	)

	limiter := ratelimit.New(cfg.RateLimit.ChatPerMinute, cfg.RateLimit.ChatBurst)
	go limiter.Run(ctx, cfg.RateLimit.IdleTimeout)

	router := finbotHttp.New(finbotHttp.Options{
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Verifier:       auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer),
		ChatLimiter:    limiter,
	}, chatH, walletH, transactionH)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           http.TimeoutHandler(router, cfg.Server.Timeout, "request timed out"),
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Server.Timeout + 5*time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "port", srv.Addr, "app", cfg.App.Name)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
