package prompt

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ragtail-dev/ragtail/internal/ui"
)

// SubmitMsg carries the entered query once the prompt closes.
type SubmitMsg struct {
	Query string
}

// Model is the single-line query prompt for starting a new run.
type Model struct {
	input  textinput.Model
	active bool
	width  int
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Ask the pipeline a question..."
	ti.CharLimit = 512
	return Model{input: ti}
}

func (m *Model) Activate() {
	m.active = true
	m.input.SetValue("")
	m.input.Focus()
}

func (m *Model) Deactivate() {
	m.active = false
	m.input.Blur()
}

func (m Model) IsActive() bool { return m.active }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "enter":
			query := strings.TrimSpace(m.input.Value())
			if query == "" {
				return m, nil
			}
			m.Deactivate()
			return m, func() tea.Msg { return SubmitMsg{Query: query} }
		case "esc":
			m.Deactivate()
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 8
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorPrimary).
		Padding(1, 2).
		Width(64)

	title := lipgloss.NewStyle().Bold(true).
		Foreground(ui.ColorPrimary).
		Render("New Query")

	return style.Render(title + "\n\n" + m.input.View() + "\n\n" +
		ui.StyleMuted.Render("enter to submit, esc to cancel"))
}
