package track

import (
	"testing"

	"github.com/ragtail-dev/ragtail/internal/model"
)

func TestPlaceholderShownUntilServerCatchesUp(t *testing.T) {
	tr := New()
	tr.StartRun("r2", "what changed?")

	// Server list does not contain the run yet.
	tr.SetServerRuns([]model.Run{})
	runs := tr.Runs()
	if len(runs) != 1 {
		t.Fatalf("got %d runs, want just the placeholder", len(runs))
	}
	if runs[0].ID != "r2" || runs[0].Status != model.RunStatusRunning {
		t.Errorf("placeholder = %+v, want r2/running", runs[0])
	}
	if runs[0].Created().IsZero() {
		t.Error("placeholder should carry a best-effort creation timestamp")
	}
}

func TestPlaceholderMergeIsIdempotent(t *testing.T) {
	tr := New()
	tr.StartRun("r2", "q")

	server := []model.Run{{ID: "old-1", Status: model.RunStatusCompleted}}
	tr.SetServerRuns(server)
	tr.SetServerRuns(server)
	tr.SetServerRuns(server)

	count := 0
	for _, r := range tr.Runs() {
		if r.ID == "r2" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("found %d placeholder rows after repeated refreshes, want 1", count)
	}
	if len(tr.Runs()) != 2 {
		t.Errorf("got %d runs, want 2", len(tr.Runs()))
	}
}

func TestPlaceholderDisappearsPermanently(t *testing.T) {
	tr := New()
	tr.StartRun("r2", "q")

	// Server now knows the run: list used verbatim, no duplicate.
	tr.SetServerRuns([]model.Run{{ID: "r2", Status: model.RunStatusRunning}})
	if len(tr.Runs()) != 1 {
		t.Fatalf("got %d runs, want 1", len(tr.Runs()))
	}

	// A later racing refresh that omits the id must NOT resurrect the
	// placeholder.
	tr.SetServerRuns([]model.Run{{ID: "other", Status: model.RunStatusCompleted}})
	for _, r := range tr.Runs() {
		if r.ID == "r2" {
			t.Error("placeholder resurfaced after the server had confirmed the run")
		}
	}
}

func TestRefreshFailureFallsBackToPlaceholder(t *testing.T) {
	tr := New()
	tr.StartRun("r2", "q")
	tr.SetServerRunsFailed()

	runs := tr.Runs()
	if len(runs) != 1 || runs[0].ID != "r2" {
		t.Fatalf("runs = %+v, want placeholder-only list", runs)
	}
}

func TestRefreshFailureWithoutActiveRunIsEmpty(t *testing.T) {
	tr := New()
	tr.SetServerRunsFailed()
	if len(tr.Runs()) != 0 {
		t.Errorf("got %d runs, want 0", len(tr.Runs()))
	}
}

func TestNoPlaceholderWithoutActiveRun(t *testing.T) {
	tr := New()
	tr.SetServerRuns([]model.Run{{ID: "a"}, {ID: "b"}})
	if len(tr.Runs()) != 2 {
		t.Errorf("got %d runs, want the server list verbatim", len(tr.Runs()))
	}
}
