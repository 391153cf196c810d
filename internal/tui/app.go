package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ragtail-dev/ragtail/internal/api"
	"github.com/ragtail-dev/ragtail/internal/cache"
	"github.com/ragtail-dev/ragtail/internal/config"
	"github.com/ragtail-dev/ragtail/internal/model"
	"github.com/ragtail-dev/ragtail/internal/ops"
	"github.com/ragtail-dev/ragtail/internal/search"
	"github.com/ragtail-dev/ragtail/internal/track"
	"github.com/ragtail-dev/ragtail/internal/tui/artifactview"
	"github.com/ragtail-dev/ragtail/internal/tui/confirm"
	"github.com/ragtail-dev/ragtail/internal/tui/eventlog"
	"github.com/ragtail-dev/ragtail/internal/tui/prompt"
	"github.com/ragtail-dev/ragtail/internal/tui/runlist"
	"github.com/ragtail-dev/ragtail/internal/tui/searchview"
	"github.com/ragtail-dev/ragtail/internal/ui"
)

type Pane int

const (
	PaneList Pane = iota
	PaneEvents
)

// streamOpenedMsg is internal: the SSE connection for a run came up.
type streamOpenedMsg struct {
	RunID  string
	Stream *api.Stream
}

type App struct {
	cfg      *config.Config
	client   *api.Client
	artCache *cache.ArtifactCache
	search   *search.Engine
	tracker  *track.Tracker
	poller   *track.Poller

	// Views
	runsView      runlist.Model
	eventView     eventlog.Model
	artifactView  artifactview.Model
	searchView    searchview.Model
	queryPrompt   prompt.Model
	confirmDialog confirm.Model

	// Live feed plumbing for the active run
	stream       *api.Stream
	streamCancel context.CancelFunc
	pollCancel   context.CancelFunc

	// State
	focusedPane  Pane
	focusedRunID string // run shown in the event pane
	width        int
	height       int
	status       string

	// Server-side list window
	statusFilter model.RunStatus
	listOffset   int
	listTotal    int

	showHelp            bool
	artifactsFullScreen bool
}

// runListPage is the page size requested from the server list endpoint.
const runListPage = 50

func NewApp(cfg *config.Config, client *api.Client, artCache *cache.ArtifactCache) App {
	poller := track.NewPoller(client)
	poller.Grace = cfg.Poll.Grace()
	poller.Interval = cfg.Poll.Interval()
	poller.MaxAttempts = cfg.Poll.MaxAttempts

	return App{
		cfg:          cfg,
		client:       client,
		artCache:     artCache,
		search:       search.New(),
		tracker:      track.New(),
		poller:       poller,
		runsView:     runlist.New(),
		eventView:    eventlog.New(),
		artifactView: artifactview.New(),
		searchView:   searchview.New(),
		queryPrompt:  prompt.New(),
		focusedPane:  PaneList,
		status:       "Loading runs...",
	}
}

func (a App) Init() tea.Cmd {
	return a.fetchRuns()
}

// --- Data fetching commands ---

func (a App) fetchRuns() tea.Cmd {
	client := a.client
	filter := api.RunsFilter{
		Status: string(a.statusFilter),
		Limit:  runListPage,
		Offset: a.listOffset,
	}
	return func() tea.Msg {
		resp, err := client.ListRuns(filter)
		if err != nil {
			return ui.RunsLoadedMsg{Err: err}
		}
		return ui.RunsLoadedMsg{Runs: resp.Runs, TotalCount: resp.Total}
	}
}

func (a App) submitRun(query string) tea.Cmd {
	client := a.client
	workflowID := a.cfg.WorkflowID
	return func() tea.Msg {
		resp, err := client.SubmitRun(model.SubmitRequest{Query: query, WorkflowID: workflowID})
		if err != nil {
			return ui.RunSubmittedMsg{Query: query, Err: err}
		}
		return ui.RunSubmittedMsg{RunID: resp.RunID, Query: query, Status: resp.Status}
	}
}

func (a App) openStream(ctx context.Context, runID string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		s, err := client.StreamRunEvents(ctx, runID)
		if err != nil {
			return ui.StreamClosedMsg{RunID: runID, Err: err}
		}
		return streamOpenedMsg{RunID: runID, Stream: s}
	}
}

func (a App) waitForFrame(runID string, s *api.Stream) tea.Cmd {
	return func() tea.Msg {
		if frame, ok := <-s.Frames(); ok {
			return ui.StreamFrameMsg{RunID: runID, Frame: frame}
		}
		return ui.StreamClosedMsg{RunID: runID, Err: <-s.Done()}
	}
}

func (a App) waitForPoll(poll *track.Poll) tea.Cmd {
	return func() tea.Msg {
		result, ok := <-poll.Results()
		return ui.PollDoneMsg{Result: result, Open: ok}
	}
}

func (a App) fetchRunEvents(runID string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		resp, err := client.GetRunStatus(runID)
		if err != nil {
			return ui.RunEventsMsg{RunID: runID, Err: err}
		}
		return ui.RunEventsMsg{RunID: runID, Events: resp.Events}
	}
}

func (a App) loadArtifacts(runID string) tea.Cmd {
	client := a.client
	artCache := a.artCache
	return func() tea.Msg {
		if artCache.Has(runID) {
			artifacts, err := artCache.Get(runID)
			if err == nil {
				return ui.ArtifactsLoadedMsg{RunID: runID, Artifacts: artifacts, FromCache: true}
			}
		}

		resp, err := client.GetRunStatus(runID)
		if err != nil {
			return ui.ArtifactsLoadedMsg{RunID: runID, Err: err}
		}
		if len(resp.Artifacts) > 0 {
			// Best effort; a failed disk write only costs the next fetch.
			artCache.Store(runID, resp.Artifacts)
		}
		return ui.ArtifactsLoadedMsg{RunID: runID, Artifacts: resp.Artifacts}
	}
}

// --- Action commands ---

func (a App) deleteRun(runID string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		err := client.DeleteRun(runID)
		return ui.RunDeletedMsg{RunID: runID, Err: err}
	}
}

func (a App) bulkDelete(ids []string) tea.Cmd {
	client := a.client
	return func() tea.Msg {
		return ui.BulkDeleteMsg{Result: ops.DeleteRuns(context.Background(), client, ids)}
	}
}

func (a App) executeSearch(pattern string) tea.Cmd {
	histories := a.tracker.EventHistories()
	eng := a.search
	return func() tea.Msg {
		isRegex := false
		p := pattern
		if len(pattern) > 1 && pattern[0] == '/' {
			isRegex = true
			p = pattern[1:]
		}
		results := eng.Search(histories, model.SearchQuery{Pattern: p, IsRegex: isRegex})
		return ui.SearchDoneMsg{Results: results}
	}
}

// --- Update ---

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	// Confirm dialog result (arrives AFTER the dialog deactivates itself)
	if result, ok := msg.(confirm.ResultMsg); ok {
		if result.Confirmed {
			switch len(result.RunIDs) {
			case 0:
			case 1:
				runID := result.RunIDs[0]
				a.status = fmt.Sprintf("Deleting %s...", runID)
				cmds = append(cmds, a.deleteRun(runID))
			default:
				a.status = fmt.Sprintf("Deleting %d runs...", len(result.RunIDs))
				cmds = append(cmds, a.bulkDelete(result.RunIDs))
			}
		}
		return &a, tea.Batch(cmds...)
	}

	// Key events while the dialog is up go to the dialog
	if a.confirmDialog.IsActive() {
		var cmd tea.Cmd
		a.confirmDialog, cmd = a.confirmDialog.Update(msg)
		if cmd != nil {
			cmds = append(cmds, cmd)
		}
		return &a, tea.Batch(cmds...)
	}

	// Query prompt result
	if submit, ok := msg.(prompt.SubmitMsg); ok {
		a.status = "Submitting query..."
		cmds = append(cmds, a.submitRun(submit.Query))
		return &a, tea.Batch(cmds...)
	}

	if a.queryPrompt.IsActive() {
		if _, isKey := msg.(tea.KeyMsg); isKey {
			var cmd tea.Cmd
			a.queryPrompt, cmd = a.queryPrompt.Update(msg)
			cmds = append(cmds, cmd)
			return &a, tea.Batch(cmds...)
		}
	}

	// Search input/results mode
	if a.searchView.IsActive() {
		if keyMsg, isKey := msg.(tea.KeyMsg); isKey {
			wasInput := a.searchView.IsInputMode()
			var cmd tea.Cmd
			a.searchView, cmd = a.searchView.Update(msg)
			cmds = append(cmds, cmd)

			if keyMsg.String() == "enter" {
				if wasInput {
					if query := a.searchView.Query(); query != "" {
						cmds = append(cmds, a.executeSearch(query))
					}
				} else if match := a.searchView.SelectedMatch(); match != nil {
					// Jump to the matched run's event history.
					a.searchView.Deactivate()
					if !a.tracker.IsExpanded(match.RunID) {
						a.tracker.ToggleExpand(match.RunID)
					}
					a.focusedRunID = match.RunID
					a.focusedPane = PaneEvents
					a.refreshEventPane()
					cmds = append(cmds, a.syncRunList())
				}
			}
			return &a, tea.Batch(cmds...)
		}
	}

	// List filter mode: keys go straight to the list
	if _, isKey := msg.(tea.KeyMsg); isKey && a.runsView.IsFiltering() {
		var cmd tea.Cmd
		a.runsView, cmd = a.runsView.Update(msg)
		cmds = append(cmds, cmd)
		return &a, tea.Batch(cmds...)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.propagateSize()

	case tea.KeyMsg:
		// Help overlay dismisses on any key
		if a.showHelp {
			a.showHelp = false
			return &a, nil
		}

		if a.artifactsFullScreen {
			if msg.String() == "esc" || msg.String() == "q" {
				a.artifactsFullScreen = false
				return &a, nil
			}
			var cmd tea.Cmd
			a.artifactView, cmd = a.artifactView.Update(msg)
			return &a, cmd
		}

		switch msg.String() {
		case "q", "ctrl+c":
			a.shutdownFeeds()
			return &a, tea.Quit

		case "?":
			a.showHelp = true
			return &a, nil

		case "tab":
			if a.focusedPane == PaneList {
				a.focusedPane = PaneEvents
			} else {
				a.focusedPane = PaneList
			}

		case "n":
			a.queryPrompt.Activate()
			return &a, nil

		case "r":
			a.status = "Refreshing runs..."
			cmds = append(cmds, a.fetchRuns())

		case "s":
			a.statusFilter = nextStatusFilter(a.statusFilter)
			a.listOffset = 0
			if a.statusFilter == "" {
				a.status = "Showing all runs"
			} else {
				a.status = fmt.Sprintf("Showing %s runs", a.statusFilter)
			}
			cmds = append(cmds, a.fetchRuns())

		case "]":
			if a.listOffset+runListPage < a.listTotal {
				a.listOffset += runListPage
				cmds = append(cmds, a.fetchRuns())
			}

		case "[":
			if a.listOffset > 0 {
				a.listOffset -= runListPage
				if a.listOffset < 0 {
					a.listOffset = 0
				}
				cmds = append(cmds, a.fetchRuns())
			}

		case "/":
			a.searchView.Activate()
			return &a, nil

		case "enter":
			if a.focusedPane == PaneList {
				if run := a.runsView.SelectedRun(); run != nil {
					expanded, needsFetch := a.tracker.ToggleExpand(run.ID)
					if expanded {
						a.focusedRunID = run.ID
						if needsFetch {
							a.status = fmt.Sprintf("Loading events for %s...", run.ShortID())
							cmds = append(cmds, a.fetchRunEvents(run.ID))
						}
					} else if a.focusedRunID == run.ID {
						a.focusedRunID = ""
						a.eventView.Clear()
					}
					a.refreshEventPane()
					cmds = append(cmds, a.syncRunList())
				}
			}

		case " ":
			if a.focusedPane == PaneList {
				if run := a.runsView.SelectedRun(); run != nil {
					a.tracker.ToggleSelect(run.ID)
					cmds = append(cmds, a.syncRunList())
				}
			}

		case "a":
			if a.focusedPane == PaneList && a.runsView.Count() > 0 {
				a.tracker.SelectAll()
				a.status = fmt.Sprintf("%d runs selected", a.tracker.SelectionCount())
				cmds = append(cmds, a.syncRunList())
			}

		case "A":
			a.tracker.ClearSelection()
			a.status = "Selection cleared"
			cmds = append(cmds, a.syncRunList())

		case "d":
			if a.tracker.SelectionCount() > 0 {
				a.confirmDialog = confirm.Delete(a.tracker.SelectedIDs()...)
			} else if run := a.runsView.SelectedRun(); run != nil {
				a.confirmDialog = confirm.Delete(run.ID)
			}

		case "v":
			if run := a.runsView.SelectedRun(); run != nil {
				if !run.EffectiveStatus().IsTerminal() {
					a.status = "Artifacts are available once the run finishes"
				} else {
					a.artifactView.SetLoading(run.ID)
					a.artifactsFullScreen = true
					a.propagateSize()
					cmds = append(cmds, a.loadArtifacts(run.ID))
				}
			}

		case "esc":
			if a.focusedPane == PaneEvents {
				a.focusedPane = PaneList
			}
		}

	case ui.RunsLoadedMsg:
		if msg.Err != nil {
			a.tracker.SetServerRunsFailed()
			a.status = fmt.Sprintf("Error: %v", msg.Err)
		} else {
			a.tracker.SetServerRuns(msg.Runs)
			a.listTotal = msg.TotalCount
			a.status = a.listStatus()
		}
		cmds = append(cmds, a.syncRunList())

	case ui.RunSubmittedMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Submit failed: %v", msg.Err)
			break
		}
		a.shutdownFeeds()
		a.tracker.StartRun(msg.RunID, msg.Query)
		a.focusedRunID = msg.RunID
		a.status = fmt.Sprintf("Run %s started", msg.RunID)

		if msg.Status.IsTerminal() {
			// The backend finished the run within the submit call, so
			// there is nothing to stream. The poller still fetches the
			// authoritative event list and artifacts.
			a.tracker.StreamClosed(msg.RunID)
			cmds = append(cmds, a.startPoll(msg.RunID, msg.Query), a.fetchRuns(), a.syncRunList())
			break
		}

		// Stream and poller start together. Whichever observes a terminal
		// status first wins; the poller also covers a stream that the
		// server keeps open without ever finishing the run.
		ctx, cancel := context.WithCancel(context.Background())
		a.streamCancel = cancel
		cmds = append(cmds,
			a.openStream(ctx, msg.RunID),
			a.startPoll(msg.RunID, msg.Query),
			a.fetchRuns(),
			a.syncRunList())

	case streamOpenedMsg:
		if msg.RunID != a.tracker.ActiveID() {
			break // a newer run took over while connecting
		}
		a.stream = msg.Stream
		cmds = append(cmds, a.waitForFrame(msg.RunID, msg.Stream))

	case ui.StreamFrameMsg:
		if msg.RunID != a.tracker.ActiveID() || a.stream == nil {
			break
		}
		if !msg.Frame.IsControl() {
			a.tracker.AppendEvent(msg.RunID, msg.Frame.Event())
			a.refreshEventPane()
		}
		cmds = append(cmds, a.waitForFrame(msg.RunID, a.stream))

	case ui.StreamClosedMsg:
		if msg.RunID != a.tracker.ActiveID() {
			break
		}
		a.stream = nil
		if a.streamCancel != nil {
			a.streamCancel()
			a.streamCancel = nil
		}
		if a.tracker.Phase() == track.PhaseTerminal {
			// The poller already finished the run; this close is the
			// stream being torn down after the fact.
			break
		}
		a.tracker.StreamClosed(msg.RunID)
		if msg.Err != nil {
			a.status = fmt.Sprintf("Stream dropped (%v), polling for status...", msg.Err)
		} else {
			a.status = "Stream finished, confirming final status..."
		}
		// No-op while the submission-time poll is still in flight; restarts
		// the poll if that one already gave up without a terminal status.
		cmds = append(cmds, a.startPoll(msg.RunID, a.tracker.ActiveQuery()))

	case ui.PollDoneMsg:
		if !msg.Open || msg.Result.RunID != a.tracker.ActiveID() {
			break
		}
		if a.pollCancel != nil {
			a.pollCancel()
			a.pollCancel = nil
		}
		res := msg.Result
		switch {
		case res.Err != nil:
			a.status = fmt.Sprintf("Status check failed: %v", res.Err)
		case res.Exhausted:
			// The run outlived the poll budget; the registry row keeps
			// whatever status the server reports on the next refresh.
		default:
			a.tracker.ApplyTerminal(res.RunID, res.Status, res.Events)
			// The run is settled; a still-open stream has nothing left to
			// add (late frames are dropped once terminal anyway).
			if a.streamCancel != nil {
				a.streamCancel()
				a.streamCancel = nil
			}
			a.stream = nil
			if len(res.Artifacts) > 0 {
				a.artCache.Store(res.RunID, res.Artifacts)
			}
			a.status = fmt.Sprintf("Run %s finished: %s", res.RunID, res.Status)
			a.refreshEventPane()
			cmds = append(cmds, a.fetchRuns())
		}
		cmds = append(cmds, a.syncRunList())

	case ui.RunEventsMsg:
		if msg.Err != nil {
			// Non-nil empty history: the fetch happened, it just failed.
			a.tracker.SetCachedEvents(msg.RunID, []model.Event{})
			a.status = fmt.Sprintf("Error loading events: %v", msg.Err)
		} else {
			a.tracker.SetCachedEvents(msg.RunID, msg.Events)
			a.status = fmt.Sprintf("%d events for %s", len(msg.Events), msg.RunID)
		}
		a.refreshEventPane()

	case ui.RunDeletedMsg:
		if msg.Err != nil {
			a.status = fmt.Sprintf("Delete failed: %v", msg.Err)
			break
		}
		a.forgetRun(msg.RunID)
		a.status = fmt.Sprintf("Run %s deleted", msg.RunID)
		cmds = append(cmds, a.fetchRuns(), a.syncRunList())

	case ui.BulkDeleteMsg:
		for _, id := range msg.Result.Deleted {
			a.forgetRun(id)
		}
		a.tracker.ClearSelection()
		if msg.Result.OK() {
			a.status = fmt.Sprintf("Deleted %d runs", len(msg.Result.Deleted))
		} else {
			a.status = fmt.Sprintf("Deleted %d runs, %d failed: %v",
				len(msg.Result.Deleted), msg.Result.Failed, msg.Result.LastErr)
		}
		cmds = append(cmds, a.fetchRuns(), a.syncRunList())

	case ui.ArtifactsLoadedMsg:
		if msg.Err != nil {
			a.artifactsFullScreen = false
			a.status = fmt.Sprintf("Error loading artifacts: %v", msg.Err)
			break
		}
		a.artifactView.SetArtifacts(msg.RunID, msg.Artifacts, msg.FromCache)

	case ui.SearchDoneMsg:
		var cmd tea.Cmd
		a.searchView, cmd = a.searchView.Update(msg)
		cmds = append(cmds, cmd)
		if msg.Err == nil && msg.Results != nil {
			a.status = fmt.Sprintf("Search: %d matches across %d runs",
				msg.Results.TotalCount, len(msg.Results.RunCounts))
		}

	case ui.StatusMsg:
		a.status = msg.Text
	}

	// Propagate remaining messages to the focused pane.
	// WindowSizeMsg is handled by propagateSize with per-pane dimensions.
	if _, isResize := msg.(tea.WindowSizeMsg); !isResize {
		if keyMsg, isKey := msg.(tea.KeyMsg); isKey {
			if !a.artifactsFullScreen && !a.showHelp {
				var cmd tea.Cmd
				switch a.focusedPane {
				case PaneList:
					a.runsView, cmd = a.runsView.Update(keyMsg)
				case PaneEvents:
					a.eventView, cmd = a.eventView.Update(keyMsg)
				}
				cmds = append(cmds, cmd)
			}
		}
	}

	return &a, tea.Batch(cmds...)
}

// nextStatusFilter cycles the server-side status filter through the known
// statuses and back to unfiltered.
func nextStatusFilter(s model.RunStatus) model.RunStatus {
	switch s {
	case "":
		return model.RunStatusRunning
	case model.RunStatusRunning:
		return model.RunStatusCompleted
	case model.RunStatusCompleted:
		return model.RunStatusFailed
	case model.RunStatusFailed:
		return model.RunStatusBlocked
	default:
		return ""
	}
}

// listStatus summarizes the current server list window for the status bar.
func (a *App) listStatus() string {
	shown := len(a.tracker.Runs())
	label := "runs"
	if a.statusFilter != "" {
		label = string(a.statusFilter) + " runs"
	}
	if a.listTotal > runListPage {
		page := a.listOffset/runListPage + 1
		pages := (a.listTotal + runListPage - 1) / runListPage
		return fmt.Sprintf("%d of %d %s (page %d/%d)", shown, a.listTotal, label, page, pages)
	}
	return fmt.Sprintf("%d %s", shown, label)
}

// startPoll launches the bounded status poll for the active run. Idempotent:
// while a poll is already in flight nothing new starts.
func (a *App) startPoll(runID, query string) tea.Cmd {
	if a.pollCancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.pollCancel = cancel
	return a.waitForPoll(a.poller.Start(ctx, runID, query))
}

// shutdownFeeds cancels the live stream and poll for the current run.
func (a *App) shutdownFeeds() {
	if a.streamCancel != nil {
		a.streamCancel()
		a.streamCancel = nil
	}
	if a.pollCancel != nil {
		a.pollCancel()
		a.pollCancel = nil
	}
	a.stream = nil
}

// forgetRun removes every local trace of a deleted run.
func (a *App) forgetRun(runID string) {
	if runID == a.tracker.ActiveID() {
		a.shutdownFeeds()
	}
	a.tracker.Forget(runID)
	a.artCache.Delete(runID)
	if a.focusedRunID == runID {
		a.focusedRunID = ""
		a.eventView.Clear()
	}
}

func (a *App) syncRunList() tea.Cmd {
	runs := a.tracker.Runs()
	rows := make([]runlist.Row, len(runs))
	for i, r := range runs {
		row := runlist.Row{
			Run:      r,
			Selected: a.tracker.IsSelected(r.ID),
			Expanded: a.tracker.IsExpanded(r.ID),
		}
		if r.ID == a.tracker.ActiveID() {
			row.Query = a.tracker.ActiveQuery()
			row.Active = a.tracker.Phase() == track.PhaseStreaming ||
				a.tracker.Phase() == track.PhasePollingOnly
		}
		rows[i] = row
	}
	return a.runsView.SetRows(rows)
}

func (a *App) refreshEventPane() {
	if a.focusedRunID == "" || !a.tracker.IsExpanded(a.focusedRunID) {
		return
	}
	live := a.focusedRunID == a.tracker.ActiveID() && a.tracker.Streaming()
	a.eventView.SetEvents(a.focusedRunID, a.eventsFor(a.focusedRunID), live)
}

func (a *App) eventsFor(runID string) []model.Event {
	if cached, ok := a.tracker.CachedEvents(runID); ok {
		return cached
	}
	if runID == a.tracker.ActiveID() {
		return a.tracker.Events()
	}
	return nil
}

func (a *App) propagateSize() {
	// header(1) + status(1) = 2 lines of chrome, pane borders add 2 more.
	contentH := a.height - 4
	if contentH < 1 {
		contentH = 1
	}

	leftW := a.width * 45 / 100
	rightW := a.width - leftW - 4
	if rightW < 1 {
		rightW = 1
	}

	a.runsView, _ = a.runsView.Update(tea.WindowSizeMsg{Width: leftW, Height: contentH})
	a.eventView, _ = a.eventView.Update(tea.WindowSizeMsg{Width: rightW, Height: contentH})
	a.artifactView, _ = a.artifactView.Update(tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.searchView, _ = a.searchView.Update(tea.WindowSizeMsg{Width: a.width - 4, Height: contentH})
	a.queryPrompt, _ = a.queryPrompt.Update(tea.WindowSizeMsg{Width: a.width, Height: a.height})
}

// --- View ---

func (a App) View() string {
	header := RenderHeader(a.client.BaseURL(), a.tracker.Phase(), a.tracker.ActiveID(), a.width)

	contentH := a.height - 4
	if contentH < 1 {
		contentH = 1
	}

	var content string
	switch {
	case a.showHelp:
		content = a.renderHelp()
	case a.confirmDialog.IsActive():
		content = a.confirmDialog.View()
	case a.queryPrompt.IsActive():
		content = a.queryPrompt.View()
	case a.searchView.IsActive():
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		content = style.Render(a.searchView.View())
	case a.artifactsFullScreen:
		style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
		content = style.Render(a.artifactView.View())
	default:
		content = a.renderPanes(contentH)
	}

	statusBar := RenderStatusBar(a.status, a.contextHints(), a.width)

	// Hard clamp so the content never overflows the terminal.
	maxContentLines := a.height - 2
	if maxContentLines > 0 {
		lines := strings.Split(content, "\n")
		if len(lines) > maxContentLines {
			lines = lines[:maxContentLines]
			content = strings.Join(lines, "\n")
		}
	}

	return header + "\n" + content + "\n" + statusBar
}

func (a App) renderPanes(contentH int) string {
	leftW := a.width * 45 / 100
	rightW := a.width - leftW - 4
	if rightW < 1 {
		rightW = 1
	}

	leftStyle := ui.StylePane.Width(leftW).Height(contentH)
	rightStyle := ui.StylePane.Width(rightW).Height(contentH)
	if a.focusedPane == PaneList {
		leftStyle = ui.StylePaneFocused.Width(leftW).Height(contentH)
	} else {
		rightStyle = ui.StylePaneFocused.Width(rightW).Height(contentH)
	}

	left := leftStyle.Render(a.runsView.View())
	right := rightStyle.Render(a.eventView.View())

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}

func (a App) contextHints() string {
	if a.showHelp {
		return "any key to close"
	}
	if a.confirmDialog.IsActive() {
		return "y/n:confirm  tab:switch  esc:cancel"
	}
	if a.queryPrompt.IsActive() {
		return "enter:submit  esc:cancel"
	}
	if a.searchView.IsActive() {
		if a.searchView.IsInputMode() {
			return "enter:search  esc:close"
		}
		return "enter:open run  j/k:navigate  /:new search  esc:close"
	}
	if a.artifactsFullScreen {
		return "j/k:scroll  esc:back"
	}

	legend := fmt.Sprintf("%s=done %s=fail %s=blocked %s=live",
		ui.StatusIcon(model.RunStatusCompleted),
		ui.StatusIcon(model.RunStatusFailed),
		ui.StatusIcon(model.RunStatusBlocked),
		ui.StatusIcon(model.RunStatusRunning),
	)
	if a.focusedPane == PaneList {
		return legend + "  |  n:new query  enter:expand  space:select  d:delete  v:artifacts  ?:help"
	}
	return legend + "  |  j/k:scroll  tab:list  esc:back  ?:help"
}

func (a App) renderHelp() string {
	contentH := a.height - 4
	if contentH < 1 {
		contentH = 1
	}

	bold := lipgloss.NewStyle().Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(ui.ColorPrimary).Bold(true).Width(14)
	desc := lipgloss.NewStyle().Foreground(lipgloss.Color("#D1D5DB"))

	row := func(k, d string) string {
		return "  " + keyStyle.Render(k) + desc.Render(d) + "\n"
	}

	var b strings.Builder
	b.WriteString("\n" + bold.Render("  Navigation") + "\n\n")
	b.WriteString(row("tab", "Switch pane"))
	b.WriteString(row("j / k", "Move down / up"))
	b.WriteString(row("esc", "Back"))
	b.WriteString(row("q", "Quit"))

	b.WriteString("\n" + bold.Render("  Runs") + "\n\n")
	b.WriteString(row("n", "Submit a new query"))
	b.WriteString(row("enter", "Expand / collapse event history"))
	b.WriteString(row("space", "Toggle select run"))
	b.WriteString(row("a / A", "Select all / clear selection"))
	b.WriteString(row("d", "Delete run (or all selected)"))
	b.WriteString(row("v", "View artifacts (finished runs)"))
	b.WriteString(row("r", "Refresh run list"))
	b.WriteString(row("s", "Cycle status filter"))
	b.WriteString(row("[ / ]", "Previous / next page"))
	b.WriteString(row("f", "Filter list"))

	b.WriteString("\n" + bold.Render("  Search") + "\n\n")
	b.WriteString(row("/", "Search cached event histories"))
	b.WriteString(row("enter", "Open matched run"))

	b.WriteString("\n" + lipgloss.NewStyle().Foreground(ui.ColorMuted).Render("  Press any key to close") + "\n")

	style := ui.StylePaneFocused.Width(a.width - 2).Height(contentH)
	return style.Render(b.String())
}
