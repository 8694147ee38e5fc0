package view

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finbot/internal/transaction"
)

type transactionsState int

const (
	transactionsStateBrowse transactionsState = iota
	transactionsStateConfirmDelete
)

// TransactionsModel lists ledger entries and lets the user confirm or delete the ones the
// assistant logged.
type TransactionsModel struct {
	txService *transaction.Service
	userID    uuid.UUID

	state transactionsState
	table table.Model
	txs   []*transaction.Transaction
	form  *huh.Form

	unconfirmedOnly bool
	timeframe       Timeframe

	filter  transaction.ListFilter
	loading bool
	err     error
	status  string

	// Form bindings
	deleteOK bool
}

func NewTransactionsModel(txSvc *transaction.Service, userID uuid.UUID) TransactionsModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Category", Width: 14},
		{Title: "Description", Width: 32},
		{Title: "Chat", Width: 5},
		{Title: "Confirmed", Width: 10},
	}

	return TransactionsModel{
		txService:       txSvc,
		userID:          userID,
		table:           newTable(columns),
		unconfirmedOnly: true,
		filter:          transaction.ListFilter{Unconfirmed: true},
		loading:         true,
	}
}

func (m TransactionsModel) Title() string { return "Transactions" }
func (m TransactionsModel) ShortHelp() string {
	if m.state == transactionsStateConfirmDelete {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | c: confirm | x: delete | u: unconfirmed filter | d: date filter | r: refresh"
}

func (m TransactionsModel) Init() tea.Cmd {
	return m.loadTxsCmd()
}

func (m TransactionsModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadTransactionsMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case transactionActionMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		} else {
			m.status = msg.done
		}

		m.state = transactionsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.table.SetHeight(msg.Height - 10)
		return m, nil
	}

	switch m.state {
	case transactionsStateBrowse:
		return m.updateBrowse(msg)
	case transactionsStateConfirmDelete:
		return m.updateConfirmDelete(msg)
	}

	return m, nil
}

func (m TransactionsModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "c":
			return m, m.confirmCmd()
		case "x":
			return m.enterDeleteMode()
		case "u":
			m.unconfirmedOnly = !m.unconfirmedOnly
			m.applyFilter(time.Now())

			return m, m.loadTxsCmd()
		case "d":
			m.timeframe = m.timeframe.Next()
			m.applyFilter(time.Now())

			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m TransactionsModel) selected() *transaction.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m TransactionsModel) enterDeleteMode() (tea.Model, tea.Cmd) {
	tx := m.selected()
	if tx == nil {
		return m, nil
	}

	title := "Delete this transaction?"
	if tx.TransferID != nil {
		title = "Delete both legs of this transfer?"
	}

	m.deleteOK = false
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Key("delete").
				Title(title).
				Description("The wallet balance is restored.").
				Affirmative("Delete").
				Negative("Keep").
				Value(&m.deleteOK),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = transactionsStateConfirmDelete
	m.table.Blur()

	return m, m.form.Init()
}

func (m TransactionsModel) updateConfirmDelete(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = transactionsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	if !m.form.GetBool("delete") {
		m.state = transactionsStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	return m, m.deleteCmd()
}

func (m TransactionsModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(fmt.Sprintf("Error: %v", m.err))
	}

	which := "All"
	if m.unconfirmedOnly {
		which = "Unconfirmed"
	}

	header := fmt.Sprintf(
		"Filter: [u] Show: %s | [d] Date: %s",
		activeStyle(which),
		activeStyle(m.timeframe.String()),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == transactionsStateConfirmDelete && m.form != nil {
		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(m.form.View())

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = lipgloss.NewStyle().Faint(true).Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *TransactionsModel) applyFilter(now time.Time) {
	m.filter.Unconfirmed = m.unconfirmedOnly

	start, end, ok := m.timeframe.DateRange(now)
	if !ok {
		m.filter.StartDate = nil
		m.filter.EndDate = nil

		return
	}

	m.filter.StartDate = &start
	m.filter.EndDate = &end
}

func (m *TransactionsModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		chat := ""
		if tx.ExtractedFromChat {
			chat = "yes"
		}

		confirmed := "no"
		if tx.Confirmed {
			confirmed = "yes"
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			FormatSigned(tx),
			tx.Category,
			tx.Description,
			chat,
			confirmed,
		})
	}

	m.table.SetRows(rows)
}

// Messages

type loadTransactionsMsg struct {
	txs []*transaction.Transaction
	err error
}

func (m TransactionsModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.txService.List(ctx, m.userID, filter)

		return loadTransactionsMsg{txs: txs, err: err}
	}
}

type transactionActionMsg struct {
	done string
	err  error
}

func (m TransactionsModel) confirmCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil || tx.Confirmed {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return transactionActionMsg{done: "Confirmed.", err: m.txService.Confirm(ctx, m.userID, tx.ID)}
	}
}

func (m TransactionsModel) deleteCmd() tea.Cmd {
	tx := m.selected()
	if tx == nil {
		return nil
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		return transactionActionMsg{done: "Deleted.", err: m.txService.Delete(ctx, m.userID, tx.ID)}
	}
}
