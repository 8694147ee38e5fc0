package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/finbot/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/finbot/internal/assistant"
	"github.com/MrJamesThe3rd/finbot/internal/chat"
	"github.com/MrJamesThe3rd/finbot/internal/config"
	"github.com/MrJamesThe3rd/finbot/internal/database"
	"github.com/MrJamesThe3rd/finbot/internal/reconcile"
	"github.com/MrJamesThe3rd/finbot/internal/transaction"
	txStore "github.com/MrJamesThe3rd/finbot/internal/transaction/store"
	"github.com/MrJamesThe3rd/finbot/internal/wallet"
	walletStore "github.com/MrJamesThe3rd/finbot/internal/wallet/store"
)

type model struct {
	txService     *transaction.Service
	walletService *wallet.Service
	chatService   *chat.Service
	replay        bool

	userID      uuid.UUID
	currentView View

	loginView        view.LoginModel
	chatView         view.ChatModel
	walletsView      view.WalletsModel
	transactionsView view.TransactionsModel
}

type View int

const (
	ViewLogin        View = 0
	ViewMenu         View = 1
	ViewChat         View = 2
	ViewWallets      View = 3
	ViewTransactions View = 4
)

func initialModel(ctx context.Context, cfg *config.Config, logger *slog.Logger) model {
	db, err := database.New(cfg.ConnectionString(), database.PoolConfig{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

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
	}

	walletSvc := wallet.NewService(walletStore.New(db))
	txSvc := transaction.NewService(txStore.New(db))
	chatSvc := chat.NewService(walletSvc, reconcile.New(txSvc, logger), gemini, logger)

	return model{
		txService:     txSvc,
		walletService: walletSvc,
		chatService:   chatSvc,
		replay:        gemini == nil,
		currentView:   ViewLogin,
		loginView:     view.NewLoginModel(cfg.TUI.UserID),
	}
}

func (m model) Init() tea.Cmd {
	return m.loginView.Init()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			switch msg.String() {
			case "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewChat
				m.chatView = view.NewChatModel(m.chatService, m.userID, m.replay)

				return m, m.chatView.Init()
			case "2":
				m.currentView = ViewWallets
				m.walletsView = view.NewWalletsModel(m.walletService, m.userID)

				return m, m.walletsView.Init()
			case "3":
				m.currentView = ViewTransactions
				m.transactionsView = view.NewTransactionsModel(m.txService, m.userID)

				return m, m.transactionsView.Init()
			}
		}
	case view.LoginMsg:
		m.userID = msg.UserID
		m.currentView = ViewMenu
		slog.Info("signed in", "user_id", m.userID)

		return m, nil
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	switch m.currentView {
	case ViewLogin:
		var newModel tea.Model
		newModel, cmd = m.loginView.Update(msg)
		m.loginView = newModel.(view.LoginModel)
	case ViewChat:
		var newModel tea.Model
		newModel, cmd = m.chatView.Update(msg)
		m.chatView = newModel.(view.ChatModel)
	case ViewWallets:
		var newModel tea.Model
		newModel, cmd = m.walletsView.Update(msg)
		m.walletsView = newModel.(view.WalletsModel)
	case ViewTransactions:
		var newModel tea.Model
		newModel, cmd = m.transactionsView.Update(msg)
		m.transactionsView = newModel.(view.TransactionsModel)
	}

	return m, cmd
}

func (m model) View() string {
	var current view.View

	switch m.currentView {
	case ViewLogin:
		current = m.loginView
	case ViewMenu:
		mode := "assistant"
		if m.replay {
			mode = "replay (no GEMINI_API_KEY)"
		}

		return lipgloss.NewStyle().Padding(2).Render(
			"Finbot TUI\n\n" +
				"Chat mode: " + mode + "\n\n" +
				"1. Chat\n" +
				"2. Wallets\n" +
				"3. Transactions\n\n" +
				"q. Quit",
		)
	case ViewChat:
		current = m.chatView
	case ViewWallets:
		current = m.walletsView
	case ViewTransactions:
		current = m.transactionsView
	default:
		return "Unknown View"
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(2).Render(current.Title() + " | " + current.ShortHelp())

	return lipgloss.JoinVertical(lipgloss.Left, current.View(), help)
}

// newLogger writes to path, or nowhere when path is empty, so log lines never land on the terminal
// the program is drawing.
func newLogger(path string, level slog.Level) (*slog.Logger, func()) {
	if path == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}

	f, err := tea.LogToFile(path, "")
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}
	}

	return slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: level})), func() { f.Close() }
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger, closeLog := newLogger(cfg.TUI.LogFile, cfg.SlogLevel())
	defer closeLog()

	slog.SetDefault(logger)

	p := tea.NewProgram(initialModel(context.Background(), cfg, logger))
	if _, err := p.Run(); err != nil {
		closeLog()
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
