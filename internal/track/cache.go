package track

import (
	"sort"

	"github.com/ragtail-dev/ragtail/internal/model"
)

// ToggleExpand flips the run's membership in the expansion set. The returned
// flags tell the caller what to do next: needsFetch is true only on the
// first expansion of a run whose events are neither cached nor available
// from the live feed. Collapsing keeps the cache entry so re-expanding is
// free.
func (t *Tracker) ToggleExpand(runID string) (expanded, needsFetch bool) {
	if t.expanded[runID] {
		delete(t.expanded, runID)
		return false, false
	}
	t.expanded[runID] = true

	if _, ok := t.cache[runID]; ok {
		return true, false
	}
	if runID == t.activeID && t.phase != PhaseIdle {
		// Seed from the events already received live; no fetch needed, and
		// nothing staged before expansion is lost.
		t.cache[runID] = snapshot(t.transient)
		return true, false
	}
	return true, true
}

// SetCachedEvents stores a fetched event list for a run. Callers pass an
// empty (non-nil) list on fetch failure: a run whose history could not be
// loaded shows as having no events, never as an error state.
func (t *Tracker) SetCachedEvents(runID string, events []model.Event) {
	t.cache[runID] = snapshot(events)
}

func (t *Tracker) CachedEvents(runID string) ([]model.Event, bool) {
	events, ok := t.cache[runID]
	return events, ok
}

func (t *Tracker) IsExpanded(runID string) bool { return t.expanded[runID] }

// EventHistories returns every cached event list keyed by run id, for
// cross-run search.
func (t *Tracker) EventHistories() map[string][]model.Event {
	out := make(map[string][]model.Event, len(t.cache))
	for id, events := range t.cache {
		out[id] = events
	}
	return out
}

func (t *Tracker) ToggleSelect(runID string) {
	if t.selected[runID] {
		delete(t.selected, runID)
	} else {
		t.selected[runID] = true
	}
}

// SelectAll sets the selection to exactly the current run list. Ids selected
// before an earlier refresh removed their runs do not survive. Selection
// never implies expansion.
func (t *Tracker) SelectAll() {
	t.selected = make(map[string]bool, len(t.runs))
	for _, r := range t.runs {
		t.selected[r.ID] = true
	}
}

func (t *Tracker) ClearSelection() {
	for id := range t.selected {
		delete(t.selected, id)
	}
}

func (t *Tracker) IsSelected(runID string) bool { return t.selected[runID] }

func (t *Tracker) SelectionCount() int { return len(t.selected) }

// SelectedIDs returns the selected run ids in a stable order.
func (t *Tracker) SelectedIDs() []string {
	ids := make([]string, 0, len(t.selected))
	for id := range t.selected {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
