package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finbot/internal/wallet"
)

type WalletsModel struct {
	walletService *wallet.Service
	userID        uuid.UUID

	table   table.Model
	wallets []wallet.Wallet
	loading bool
	err     error
	status  string
}

func NewWalletsModel(svc *wallet.Service, userID uuid.UUID) WalletsModel {
	columns := []table.Column{
		{Title: "Name", Width: 20},
		{Title: "Type", Width: 8},
		{Title: "Balance", Width: 12},
		{Title: "Cur", Width: 4},
		{Title: "Limit", Width: 10},
		{Title: "Flags", Width: 16},
	}

	return WalletsModel{
		walletService: svc,
		userID:        userID,
		table:         newTable(columns),
		loading:       true,
	}
}

func newTable(columns []table.Column) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return t
}

func (m WalletsModel) Title() string { return "Wallets" }
func (m WalletsModel) ShortHelp() string {
	return "Esc: back | l: lock/unlock | r: refresh"
}

func (m WalletsModel) Init() tea.Cmd {
	return m.loadCmd()
}

func (m WalletsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadWalletsMsg:
		m.loading = false
		m.err = msg.err

		if msg.err == nil {
			m.wallets = msg.wallets
			m.refreshTable()
		}

		return m, nil

	case walletLockMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = ""
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadCmd()
		case "l":
			return m, m.toggleLockCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m *WalletsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.wallets))

	for _, w := range m.wallets {
		limit := "-"
		if w.MonthlyLimit != nil {
			limit = FormatAmount(*w.MonthlyLimit)
		}

		flags := ""
		if w.IsDefault {
			flags += "default "
		}

		if w.IsLocked {
			flags += "locked"
		}

		rows = append(rows, table.Row{
			w.Name,
			string(w.Type),
			FormatAmount(w.Balance),
			w.Currency,
			limit,
			flags,
		})
	}

	m.table.SetRows(rows)
}

func (m WalletsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading wallets...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	if len(m.wallets) == 0 {
		return lipgloss.NewStyle().Padding(2).Render("No wallets yet. Create one through the API first.")
	}

	content := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

// Messages

type loadWalletsMsg struct {
	wallets []wallet.Wallet
	err     error
}

func (m WalletsModel) loadCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		wallets, err := m.walletService.List(ctx, m.userID)

		return loadWalletsMsg{wallets: wallets, err: err}
	}
}

type walletLockMsg struct {
	err error
}

func (m WalletsModel) toggleLockCmd() tea.Cmd {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.wallets) {
		return nil
	}

	w := m.wallets[idx]

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if w.IsLocked {
			return walletLockMsg{err: m.walletService.Unlock(ctx, m.userID, w.ID)}
		}

		return walletLockMsg{err: m.walletService.Lock(ctx, m.userID, w.ID)}
	}
}
