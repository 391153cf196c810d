package track

import "github.com/ragtail-dev/ragtail/internal/model"

// SetServerRuns merges a fresh server run list with the local notion of the
// active run. While the server has not yet indexed the active run, a
// synthetic placeholder row is prepended; the merge is idempotent, and once
// any refresh has shown the id, the placeholder never resurfaces even if a
// later (stale) refresh omits it again.
func (t *Tracker) SetServerRuns(runs []model.Run) {
	if t.activeID != "" && !t.confirmed {
		for _, r := range runs {
			if r.ID == t.activeID {
				t.confirmed = true
				break
			}
		}
		if !t.confirmed {
			merged := make([]model.Run, 0, len(runs)+1)
			merged = append(merged, t.placeholder())
			merged = append(merged, runs...)
			t.runs = merged
			return
		}
	}
	t.runs = runs
}

// SetServerRunsFailed applies the refresh failure fallback: the console
// still shows the placeholder for an active run (or nothing) rather than
// failing outright.
func (t *Tracker) SetServerRunsFailed() {
	if t.activeID != "" && !t.confirmed {
		t.runs = []model.Run{t.placeholder()}
		return
	}
	t.runs = nil
}

func (t *Tracker) placeholder() model.Run {
	return model.Run{
		ID:        t.activeID,
		Status:    model.RunStatusRunning,
		CreatedAt: float64(t.startedAt.UnixNano()) / 1e9,
	}
}

// Runs returns the reconciled run list in display order.
func (t *Tracker) Runs() []model.Run { return t.runs }

func (t *Tracker) RunByID(runID string) *model.Run {
	for i := range t.runs {
		if t.runs[i].ID == runID {
			return &t.runs[i]
		}
	}
	return nil
}

// RunIDs returns the ids of every known run, in display order.
func (t *Tracker) RunIDs() []string {
	ids := make([]string, len(t.runs))
	for i, r := range t.runs {
		ids[i] = r.ID
	}
	return ids
}
