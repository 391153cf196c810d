package runlist

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ragtail-dev/ragtail/internal/model"
	"github.com/ragtail-dev/ragtail/internal/ui"
)

// Row pairs a registry run with its display state. The tracker owns
// selection and expansion; the list only renders what it is given.
type Row struct {
	Run      model.Run
	Query    string
	Selected bool
	Expanded bool
	Active   bool
}

// --- Custom delegate (avoids DefaultDelegate ANSI corruption during filtering) ---

type rowDelegate struct{}

func (d rowDelegate) Height() int                             { return 2 }
func (d rowDelegate) Spacing() int                            { return 0 }
func (d rowDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d rowDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ri, ok := item.(rowItem)
	if !ok {
		return
	}

	icon := ui.StatusIcon(ri.row.Run.EffectiveStatus())

	mark := " "
	if ri.row.Selected {
		mark = ui.StyleWarning.Render("*")
	}

	arrow := ui.StyleMuted.Render(">")
	if ri.row.Expanded {
		arrow = ui.StyleInfo.Render("v")
	}

	ago := ui.StyleMuted.Render(formatAge(ri.row.Run.Created()) + " ago")
	id := ri.row.Run.ShortID()
	if ri.row.Active {
		id = ui.StyleInfo.Render(id + " (live)")
	}

	line1 := fmt.Sprintf(" %s%s %s %s  %s", mark, icon, arrow, id, ago)
	line2 := fmt.Sprintf("     %s", ui.StyleMuted.Render(summaryFor(ri.row)))

	if index == m.Index() {
		hl := lipgloss.NewStyle().Background(ui.ColorHighlight).Width(m.Width())
		line1 = hl.Render(line1)
		line2 = hl.Render(line2)
	}

	fmt.Fprintf(w, "%s\n%s", line1, line2)
}

func summaryFor(r Row) string {
	if r.Query != "" {
		return r.Query
	}
	return string(r.Run.EffectiveStatus())
}

func formatAge(t time.Time) string {
	if t.IsZero() {
		return "?"
	}
	d := time.Since(t).Truncate(time.Minute)
	if d < time.Minute {
		return "<1m"
	}
	if d < time.Hour {
		return fmt.Sprintf("%dm", int(d.Minutes()))
	}
	if d < 24*time.Hour {
		return fmt.Sprintf("%dh", int(d.Hours()))
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

// --- Item ---

type rowItem struct {
	row Row
}

func (r rowItem) FilterValue() string {
	return r.row.Run.ID + " " + r.row.Query + " " + string(r.row.Run.Status)
}

// --- Model ---

type Model struct {
	list    list.Model
	rows    []Row
	width   int
	height  int
	loading bool
	err     error
}

func New() Model {
	l := list.New(nil, rowDelegate{}, 0, 0)
	l.SetShowTitle(false)
	l.SetShowFilter(true)
	l.SetShowHelp(false)
	l.SetShowStatusBar(true)
	l.SetShowPagination(false)
	l.SetFilteringEnabled(true)
	l.KeyMap.Filter = key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter"))
	l.DisableQuitKeybindings()

	return Model{
		list:    l,
		loading: true,
	}
}

// SetRows replaces the list contents, keeping the cursor on the same
// run where possible.
func (m *Model) SetRows(rows []Row) tea.Cmd {
	m.loading = false
	m.err = nil

	keepID := ""
	if cur := m.SelectedRun(); cur != nil {
		keepID = cur.ID
	}

	m.rows = rows
	items := make([]list.Item, len(rows))
	idx := 0
	for i, r := range rows {
		items[i] = rowItem{row: r}
		if r.Run.ID == keepID {
			idx = i
		}
	}
	cmd := m.list.SetItems(items)
	m.list.Select(idx)
	return cmd
}

func (m *Model) SetError(err error) {
	m.loading = false
	m.err = err
}

func (m Model) SelectedRun() *model.Run {
	if item, ok := m.list.SelectedItem().(rowItem); ok {
		run := item.row.Run
		return &run
	}
	return nil
}

func (m Model) Count() int { return len(m.rows) }

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		// The list's updateKeybindings can disable filtering after a
		// SetSize with zero items; re-enabling here keeps 'f' working.
		if msg.String() == "f" && !m.IsFiltering() && len(m.list.Items()) > 0 {
			m.list.KeyMap.Filter.SetEnabled(true)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.list.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.loading {
		return "\n  Loading runs..."
	}
	if m.err != nil {
		return fmt.Sprintf("\n  Error: %v", m.err)
	}
	if len(m.rows) == 0 {
		return "\n  No runs yet. Press n to submit a query."
	}
	return m.list.View()
}

func (m Model) IsFiltering() bool {
	return m.list.FilterState() == list.Filtering
}

func (m Model) HasActiveFilter() bool {
	return m.list.FilterState() != list.Unfiltered
}
