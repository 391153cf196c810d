package artifactview

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ragtail-dev/ragtail/internal/ui"
)

// Model shows the artifact bundle of a completed run, pretty-printed.
type Model struct {
	viewport viewport.Model
	runID    string
	content  string
	width    int
	height   int
	ready    bool
	loading  bool
}

func New() Model {
	return Model{}
}

func (m Model) RunID() string { return m.runID }

func (m *Model) SetLoading(runID string) {
	m.runID = runID
	m.loading = true
}

func (m *Model) SetArtifacts(runID string, artifacts map[string]json.RawMessage, fromCache bool) {
	m.runID = runID
	m.loading = false
	m.content = renderArtifacts(runID, artifacts, fromCache)
	if m.ready {
		m.viewport.SetContent(m.content)
		m.viewport.GotoTop()
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.viewport = viewport.New(msg.Width, msg.Height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = msg.Height
		}
		m.viewport.SetContent(m.content)
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return fmt.Sprintf("\n  Loading artifacts for %s...", m.runID)
	}
	if !m.ready || m.content == "" {
		return "\n  No artifacts."
	}
	return m.viewport.View()
}

func renderArtifacts(runID string, artifacts map[string]json.RawMessage, fromCache bool) string {
	var b strings.Builder

	title := "Artifacts: " + runID
	if fromCache {
		title += "  (cached)"
	}
	b.WriteString(" " + ui.StyleHeader.Render(title) + "\n")

	if len(artifacts) == 0 {
		b.WriteString("\n  This run produced no artifacts.\n")
		return b.String()
	}

	names := make([]string, 0, len(artifacts))
	for name := range artifacts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		b.WriteString("\n " + ui.StyleInfo.Render(name) + "\n")
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, artifacts[name], "  ", "  "); err != nil {
			b.WriteString("  " + string(artifacts[name]) + "\n")
			continue
		}
		b.WriteString("  " + pretty.String() + "\n")
	}
	return b.String()
}
