// Package track owns the client-side lifecycle state for pipeline runs: the
// reconciled run list, the live event feed for the active run, the per-run
// event cache, and the expansion/selection sets the console operates on.
//
// A single Tracker instance is owned by the top-level component and mutated
// only from the program's event loop; nothing here is safe for concurrent
// use and nothing here performs I/O.
package track

import (
	"time"

	"github.com/ragtail-dev/ragtail/internal/model"
)

// Phase is the tracker's view of the active run. The stream listener and the
// status poller race toward Terminal; the latest terminal write wins and a
// terminal phase is never demoted.
type Phase int

const (
	// PhaseIdle means no run is being tracked live.
	PhaseIdle Phase = iota
	// PhaseStreaming means the live event channel is open.
	PhaseStreaming
	// PhasePollingOnly means the channel closed (terminal frame, error or
	// transport drop) and only the status poller can still finish the run.
	PhasePollingOnly
	// PhaseTerminal means an authoritative terminal status was observed.
	PhaseTerminal
)

type Tracker struct {
	activeID    string
	activeQuery string
	startedAt   time.Time
	phase       Phase
	terminal    model.RunStatus
	transient   []model.Event

	// confirmed flips once a server run list contained the active id; from
	// then on the placeholder is never synthesized again for this run.
	confirmed bool

	runs []model.Run

	cache    map[string][]model.Event
	expanded map[string]bool
	selected map[string]bool
}

func New() *Tracker {
	return &Tracker{
		phase:    PhaseIdle,
		cache:    make(map[string][]model.Event),
		expanded: make(map[string]bool),
		selected: make(map[string]bool),
	}
}

// StartRun begins tracking a freshly submitted run. Any previous active run
// stops being live (its channel is assumed already closed by the caller) but
// keeps whatever cache entry it had.
func (t *Tracker) StartRun(runID, query string) {
	t.activeID = runID
	t.activeQuery = query
	t.startedAt = time.Now()
	t.phase = PhaseStreaming
	t.terminal = ""
	t.transient = nil
	t.confirmed = false
}

func (t *Tracker) ActiveID() string    { return t.activeID }
func (t *Tracker) ActiveQuery() string { return t.activeQuery }
func (t *Tracker) Phase() Phase        { return t.phase }

// Streaming is the live-channel flag exposed to the UI.
func (t *Tracker) Streaming() bool { return t.phase == PhaseStreaming }

// TerminalStatus returns the final status once the phase is Terminal.
func (t *Tracker) TerminalStatus() model.RunStatus { return t.terminal }

// Events returns the transient event list accumulated for the active run.
func (t *Tracker) Events() []model.Event { return t.transient }

// AppendEvent records a stream-sourced event for the given run, in arrival
// order, unconditionally (reconciliation with poll-sourced lists happens by
// replacement, never by merging). Events for anything but the active run are
// dropped: they belong to a channel that should already be closed.
func (t *Tracker) AppendEvent(runID string, ev model.Event) {
	if runID != t.activeID || t.phase == PhaseTerminal || t.phase == PhaseIdle {
		return
	}
	t.transient = append(t.transient, ev)
	if t.expanded[t.activeID] {
		// Keep the expanded view live. Whole-entry replacement so readers
		// never observe a torn list.
		t.cache[t.activeID] = snapshot(t.transient)
	}
}

// StreamClosed marks the live channel gone. The poller remains the only path
// to a terminal status. Idempotent, and a no-op once terminal.
func (t *Tracker) StreamClosed(runID string) {
	if runID != t.activeID || t.phase != PhaseStreaming {
		return
	}
	t.phase = PhasePollingOnly
}

// ApplyTerminal records an authoritative terminal result for the active run,
// replacing the transient list wholesale when the result carries events.
// Later terminal writes (stream-triggered fetch vs. poller) overwrite
// earlier ones; non-terminal statuses are ignored.
func (t *Tracker) ApplyTerminal(runID string, status model.RunStatus, events []model.Event) {
	if runID != t.activeID || !status.IsTerminal() {
		return
	}
	t.phase = PhaseTerminal
	t.terminal = status
	if events != nil {
		t.transient = snapshot(events)
		if t.expanded[runID] {
			t.cache[runID] = snapshot(events)
		}
	}
	for i := range t.runs {
		if t.runs[i].ID == runID {
			t.runs[i].Status = status
		}
	}
}

// Forget purges every trace of a run: cache entry, expansion, selection, the
// registry row, and live tracking if it was the active run. This is the
// local half of a delete.
func (t *Tracker) Forget(runID string) {
	delete(t.cache, runID)
	delete(t.expanded, runID)
	delete(t.selected, runID)
	for i := range t.runs {
		if t.runs[i].ID == runID {
			t.runs = append(t.runs[:i], t.runs[i+1:]...)
			break
		}
	}
	if runID == t.activeID {
		t.activeID = ""
		t.activeQuery = ""
		t.phase = PhaseIdle
		t.terminal = ""
		t.transient = nil
		t.confirmed = false
	}
}

func snapshot(events []model.Event) []model.Event {
	out := make([]model.Event, len(events))
	copy(out, events)
	return out
}
