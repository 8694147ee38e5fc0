package view

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

// LoginMsg is sent once the user id has been entered.
type LoginMsg struct {
	UserID uuid.UUID
}

// LoginModel asks which user to act as. The terminal client talks to the database directly,
// so there is no token to verify.
type LoginModel struct {
	form   *huh.Form
	userID string
}

func NewLoginModel(initial string) LoginModel {
	m := LoginModel{userID: initial}
	m.form = m.buildForm()

	return m
}

func (m LoginModel) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("user_id").
				Title("User ID").
				Placeholder("00000000-0000-0000-0000-000000000000").
				Value(&m.userID).
				Validate(func(s string) error {
					if _, err := uuid.Parse(strings.TrimSpace(s)); err != nil {
						return fmt.Errorf("not a valid UUID")
					}
					return nil
				}),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m LoginModel) Title() string     { return "Sign In" }
func (m LoginModel) ShortHelp() string { return "Enter: continue | Ctrl+C: quit" }

func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

func (m LoginModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	id := uuid.MustParse(strings.TrimSpace(m.form.GetString("user_id")))

	return m, func() tea.Msg { return LoginMsg{UserID: id} }
}

func (m LoginModel) View() string {
	return lipgloss.NewStyle().Padding(2).Render("Finbot\n\n" + m.form.View())
}
