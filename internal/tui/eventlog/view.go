package eventlog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ragtail-dev/ragtail/internal/model"
	"github.com/ragtail-dev/ragtail/internal/ui"
)

// Model renders the event history for one run in a viewport. While the
// run is live it follows the bottom; replaced contents restore the
// previous scroll position otherwise.
type Model struct {
	viewport viewport.Model
	runID    string
	events   []model.Event
	live     bool
	width    int
	height   int
	ready    bool
}

func New() Model {
	return Model{}
}

func (m Model) RunID() string { return m.runID }

// SetEvents replaces the displayed history.
func (m *Model) SetEvents(runID string, events []model.Event, live bool) {
	sameRun := m.runID == runID
	m.runID = runID
	m.events = events
	m.live = live
	if !m.ready {
		return
	}

	wasAtBottom := m.viewport.AtBottom()
	prevOffset := m.viewport.YOffset

	m.viewport.SetContent(m.render())

	if live && (wasAtBottom || !sameRun) {
		m.viewport.GotoBottom()
		return
	}
	if !sameRun {
		m.viewport.GotoTop()
		return
	}
	maxOffset := m.viewport.TotalLineCount() - m.viewport.VisibleLineCount()
	if maxOffset < 0 {
		maxOffset = 0
	}
	if prevOffset > maxOffset {
		m.viewport.GotoBottom()
	} else {
		m.viewport.SetYOffset(prevOffset)
	}
}

func (m *Model) Clear() {
	m.runID = ""
	m.events = nil
	m.live = false
	if m.ready {
		m.viewport.SetContent("")
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
		m.viewport.SetContent(m.render())
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.runID == "" {
		return "\n  Select a run and press enter to expand its events."
	}
	if len(m.events) == 0 {
		return fmt.Sprintf("\n  %s: no events yet.", m.runID)
	}
	if !m.ready {
		return ""
	}
	return m.viewport.View()
}

func (m Model) render() string {
	var b strings.Builder

	title := m.runID
	if m.live {
		title += "  " + ui.StyleInfo.Render("[LIVE]")
	}
	b.WriteString(" " + ui.StyleHeader.Render(title) + "\n\n")

	for _, ev := range m.events {
		b.WriteString(" " + renderEvent(ev) + "\n")
	}
	return b.String()
}

func renderEvent(ev model.Event) string {
	ts := ""
	if t := ev.Time(); !t.IsZero() {
		ts = ui.StyleMuted.Render(t.Format("15:04:05"))
	}

	label := ui.EventLabel(ev.EventType)
	styled := ui.StyleInfo.Render(fmt.Sprintf("%-10s", label))
	switch ev.EventType {
	case "error", "guardrail_triggered":
		styled = ui.StyleFailure.Render(fmt.Sprintf("%-10s", label))
	case "run_complete":
		styled = ui.StyleSuccess.Render(fmt.Sprintf("%-10s", label))
	}

	dur := ""
	if ev.DurationMS != nil {
		dur = ui.StyleMuted.Render(fmt.Sprintf("  %s", (time.Duration(*ev.DurationMS) * time.Millisecond).Truncate(time.Millisecond)))
	}

	detail := ""
	if len(ev.Data) > 0 {
		if raw, err := json.Marshal(ev.Data); err == nil {
			s := string(raw)
			if len(s) > 120 {
				s = s[:117] + "..."
			}
			detail = "  " + ui.StyleMuted.Render(s)
		}
	}

	return fmt.Sprintf("%s  %s %s%s%s", ts, styled, ev.Step, dur, detail)
}
