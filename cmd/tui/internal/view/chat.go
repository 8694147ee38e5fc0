package view

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/finbot/internal/chat"
	"github.com/MrJamesThe3rd/finbot/internal/reconcile"
)

var (
	userStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	botStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

const historyLimit = 50

type chatLine struct {
	from string
	text string
}

// ChatModel sends messages to the assistant and shows what was logged. Without an assistant it
// runs in replay mode: the typed text is treated as an assistant reply and processed directly.
type ChatModel struct {
	chatService *chat.Service
	userID      uuid.UUID
	replay      bool

	input   textinput.Model
	spinner spinner.Model
	history []chatLine
	waiting bool
	width   int
}

func NewChatModel(svc *chat.Service, userID uuid.UUID, replay bool) ChatModel {
	ti := textinput.New()
	ti.Placeholder = "e.g. spent 12.50 on groceries"
	ti.CharLimit = 500
	ti.Width = 60
	ti.Focus()

	if replay {
		ti.Placeholder = "[TRANSACTION: amount=5, category=coffee, type=expense, description=latte]"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot

	return ChatModel{
		chatService: svc,
		userID:      userID,
		replay:      replay,
		input:       ti,
		spinner:     s,
		width:       80,
	}
}

func (m ChatModel) Title() string { return "Chat" }
func (m ChatModel) ShortHelp() string {
	return "Enter: send | Esc: back"
}

func (m ChatModel) Init() tea.Cmd {
	return textinput.Blink
}

type chatReplyMsg struct {
	res *chat.Result
	err error
}

func (m ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = max(20, msg.Width-10)

		return m, nil

	case chatReplyMsg:
		m.waiting = false

		if msg.err != nil {
			if msg.res != nil {
				m.push("finbot", renderResult(msg.res))
			}

			m.push("finbot", failStyle.Render("Error: "+msg.err.Error()))

			return m, nil
		}

		m.push("finbot", renderResult(msg.res))

		return m, nil

	case spinner.TickMsg:
		if !m.waiting {
			return m, nil
		}

		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc:
			return m, Back
		case tea.KeyEnter:
			text := strings.TrimSpace(m.input.Value())
			if text == "" || m.waiting {
				return m, nil
			}

			m.push("you", text)
			m.input.Reset()
			m.waiting = true

			return m, tea.Batch(m.spinner.Tick, m.sendCmd(text))
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m *ChatModel) push(from, text string) {
	m.history = append(m.history, chatLine{from: from, text: text})
	if len(m.history) > historyLimit {
		m.history = m.history[len(m.history)-historyLimit:]
	}
}

func (m ChatModel) sendCmd(text string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := ChatCtx()
		defer cancel()

		var (
			res *chat.Result
			err error
		)

		if m.replay {
			res, err = m.chatService.Process(ctx, m.userID, text)
		} else {
			res, err = m.chatService.Send(ctx, m.userID, text)
		}

		return chatReplyMsg{res: res, err: err}
	}
}

func renderResult(res *chat.Result) string {
	var b strings.Builder

	b.WriteString(res.Content)

	if s := res.Summary(); s != "" {
		b.WriteString("\n" + okStyle.Render("✓ "+s))
	}

	for _, o := range res.Outcomes {
		if o.Err != nil {
			fmt.Fprintf(&b, "\n%s", failStyle.Render(fmt.Sprintf("✗ #%d %s: %v", o.Index+1, reconcile.ErrorCode(o.Err), o.Err)))
		}
	}

	for _, w := range res.Warnings() {
		b.WriteString("\n" + warnStyle.Render("! "+w.String()))
	}

	if len(res.Skipped) > 0 {
		b.WriteString("\n" + lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("%d malformed marker(s) ignored", len(res.Skipped))))
	}

	return b.String()
}

func (m ChatModel) View() string {
	var lines []string

	for _, l := range m.history {
		label := userStyle.Render("you")
		if l.from != "you" {
			label = botStyle.Render("finbot")
		}

		body := lipgloss.NewStyle().Width(max(20, m.width-12)).Render(l.text)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top, label+": ", body))
	}

	if m.waiting {
		lines = append(lines, m.spinner.View()+" thinking...")
	}

	mode := ""
	if m.replay {
		mode = warnStyle.Render(" (replay mode: no assistant configured)")
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().Bold(true).Render("Chat")+mode,
		"",
		strings.Join(lines, "\n\n"),
		"",
		m.input.View(),
	)

	return lipgloss.NewStyle().Padding(1).Render(content)
}
