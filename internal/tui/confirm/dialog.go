// Package confirm hosts the modal that guards run deletion. The dialog
// carries the run ids it is asking about and hands them back in the result,
// so the parent never has to remember what it was confirming.
package confirm

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ragtail-dev/ragtail/internal/ui"
)

// ResultMsg arrives after the dialog deactivates itself, so the parent can
// dispatch the delete without the dialog swallowing the next key.
type ResultMsg struct {
	Confirmed bool
	RunIDs    []string
}

type Model struct {
	runIDs []string
	active bool
	yes    bool
}

// Delete builds the dialog for deleting one run or a selection of runs.
func Delete(runIDs ...string) Model {
	return Model{runIDs: runIDs, active: len(runIDs) > 0}
}

func (m Model) IsActive() bool { return m.active }

func (m Model) RunIDs() []string { return m.runIDs }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if !m.active {
		return m, nil
	}

	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "y", "Y":
		return m.resolve(true)
	case "n", "N", "esc":
		return m.resolve(false)
	case "enter":
		return m.resolve(m.yes)
	case "tab", "left", "right", "h", "l":
		m.yes = !m.yes
	}
	return m, nil
}

func (m Model) resolve(confirmed bool) (Model, tea.Cmd) {
	m.active = false
	ids := m.runIDs
	return m, func() tea.Msg {
		return ResultMsg{Confirmed: confirmed, RunIDs: ids}
	}
}

func (m Model) View() string {
	if !m.active {
		return ""
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ui.ColorWarning).
		Padding(1, 2).
		Width(50)

	title := lipgloss.NewStyle().Bold(true).
		Foreground(ui.ColorWarning).
		Render(m.title())

	yesStyle := lipgloss.NewStyle().Padding(0, 1)
	noStyle := lipgloss.NewStyle().Padding(0, 1)
	if m.yes {
		yesStyle = yesStyle.Bold(true).Background(ui.ColorFailure).Foreground(lipgloss.Color("#F9FAFB"))
		noStyle = noStyle.Foreground(ui.ColorMuted)
	} else {
		yesStyle = yesStyle.Foreground(ui.ColorMuted)
		noStyle = noStyle.Bold(true).Background(ui.ColorSuccess).Foreground(lipgloss.Color("#F9FAFB"))
	}

	var b strings.Builder
	b.WriteString(title)
	b.WriteString("\n\n")
	b.WriteString(m.message())
	b.WriteString("\n\n")
	b.WriteString(yesStyle.Render("Delete"))
	b.WriteString("  ")
	b.WriteString(noStyle.Render("Keep"))
	b.WriteString("\n\ny/n to confirm, esc to cancel")

	return frame.Render(b.String())
}

func (m Model) title() string {
	if len(m.runIDs) == 1 {
		return "Delete Run"
	}
	return "Delete Selected Runs"
}

func (m Model) message() string {
	if len(m.runIDs) == 1 {
		return fmt.Sprintf("Delete run %s? This cannot be undone.", shortID(m.runIDs[0]))
	}
	return fmt.Sprintf("Delete %d selected runs? This cannot be undone.", len(m.runIDs))
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
