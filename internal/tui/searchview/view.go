package searchview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ragtail-dev/ragtail/internal/model"
	"github.com/ragtail-dev/ragtail/internal/ui"
)

type Mode int

const (
	ModeInput Mode = iota
	ModeResults
)

// Model searches across the cached event histories of expanded runs.
type Model struct {
	input    textinput.Model
	viewport viewport.Model
	results  *model.SearchResults
	mode     Mode
	cursor   int
	width    int
	height   int
	loading  bool
	active   bool
	ready    bool
}

func New() Model {
	ti := textinput.New()
	ti.Placeholder = "Search events (/ prefix for regex)"
	ti.CharLimit = 256

	return Model{
		input: ti,
	}
}

func (m *Model) Activate() {
	m.active = true
	m.mode = ModeInput
	m.input.Focus()
}

func (m *Model) Deactivate() {
	m.active = false
	m.input.Blur()
}

func (m Model) IsActive() bool {
	return m.active
}

func (m Model) IsInputMode() bool {
	return m.mode == ModeInput
}

func (m Model) Query() string {
	return m.input.Value()
}

func (m Model) SelectedMatch() *model.SearchResult {
	if m.results == nil || m.cursor >= len(m.results.Matches) {
		return nil
	}
	return &m.results.Matches[m.cursor]
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ui.SearchDoneMsg:
		m.loading = false
		if msg.Err != nil {
			return m, nil
		}
		m.results = msg.Results
		m.cursor = 0
		m.mode = ModeResults
		m.input.Blur()
		if m.ready {
			m.viewport.SetContent(m.renderResults())
		}

	case tea.KeyMsg:
		if m.mode == ModeInput {
			switch msg.String() {
			case "enter":
				if m.input.Value() != "" {
					m.loading = true
					return m, nil // parent dispatches the search
				}
			case "esc":
				m.Deactivate()
				return m, nil
			}
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}

		// Results mode
		switch {
		case key.Matches(msg, ui.Keys.Down):
			if m.results != nil && m.cursor < len(m.results.Matches)-1 {
				m.cursor++
				if m.ready {
					m.viewport.SetContent(m.renderResults())
				}
			}
		case key.Matches(msg, ui.Keys.Up):
			if m.cursor > 0 {
				m.cursor--
				if m.ready {
					m.viewport.SetContent(m.renderResults())
				}
			}
		case key.Matches(msg, ui.Keys.Search):
			m.mode = ModeInput
			m.input.Focus()
		case key.Matches(msg, ui.Keys.Back):
			m.Deactivate()
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height - 4
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString("\n  " + ui.StyleHeader.Render("Event Search") + "\n\n")
	b.WriteString("  " + m.input.View() + "\n\n")

	if m.loading {
		b.WriteString("  Searching...\n")
		return b.String()
	}

	if m.mode == ModeResults && m.results != nil {
		if m.ready {
			b.WriteString(m.viewport.View())
		} else {
			b.WriteString(m.renderResults())
		}
	}
	return b.String()
}

func (m Model) renderResults() string {
	var b strings.Builder

	summary := fmt.Sprintf("  %d matches across %d runs\n\n",
		m.results.TotalCount, len(m.results.RunCounts))
	b.WriteString(ui.StyleMuted.Render(summary))

	for i, match := range m.results.Matches {
		prefix := "   "
		line := fmt.Sprintf("%s [%s] %s",
			match.RunID, ui.EventLabel(match.EventType), truncate(match.Content, m.width-30))
		if i == m.cursor {
			prefix = " " + ui.StyleInfo.Render(">") + " "
			line = lipgloss.NewStyle().Background(ui.ColorHighlight).Render(line)
		}
		b.WriteString(prefix + line + "\n")
	}
	return b.String()
}

func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
