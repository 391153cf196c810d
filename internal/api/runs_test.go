package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ragtail-dev/ragtail/internal/model"
)

func TestRunsFilterQueryString(t *testing.T) {
	tests := []struct {
		name   string
		filter RunsFilter
		want   string
	}{
		{
			name:   "empty filter",
			filter: RunsFilter{},
			want:   "?limit=50",
		},
		{
			name:   "status filter",
			filter: RunsFilter{Status: "failed", Limit: 10},
			want:   "?limit=10&status=failed",
		},
		{
			name:   "paging",
			filter: RunsFilter{Limit: 25, Offset: 50},
			want:   "?limit=25&offset=50",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.QueryString()
			if got != tt.want {
				t.Errorf("QueryString() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestListRuns(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/runs" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("status"); got != "completed" {
			t.Errorf("status query = %q, want %q", got, "completed")
		}
		w.Write([]byte(`{"runs": [{"run_id": "run-1", "status": "completed", "created_at": 1756400000.5}], "total": 1}`))
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL)
	resp, err := c.ListRuns(RunsFilter{Status: "completed"})
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(resp.Runs) != 1 || resp.Total != 1 {
		t.Fatalf("got %d runs (total %d), want 1", len(resp.Runs), resp.Total)
	}
	r := resp.Runs[0]
	if r.ID != "run-1" || r.Status != model.RunStatusCompleted {
		t.Errorf("unexpected run: %+v", r)
	}
	if r.Created().IsZero() {
		t.Error("Created() should parse epoch seconds")
	}
}

func TestGetRunStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/run/run-7" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{
			"run_id": "run-7",
			"status": "completed",
			"events": [
				{"run_id": "run-7", "event_type": "run_started", "step": "run_started", "timestamp": "2026-08-01T10:00:00.000001"},
				{"run_id": "run-7", "event_type": "run_completed", "step": "run_completed", "timestamp": "2026-08-01T10:00:09.000001"}
			],
			"artifacts": {"answer": {"text": "hello"}}
		}`))
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL)
	resp, err := c.GetRunStatus("run-7")
	if err != nil {
		t.Fatalf("GetRunStatus: %v", err)
	}
	if resp.Status != model.RunStatusCompleted {
		t.Errorf("Status = %q, want completed", resp.Status)
	}
	if len(resp.Events) != 2 {
		t.Fatalf("got %d events, want 2", len(resp.Events))
	}
	if resp.Events[0].Time().IsZero() {
		t.Error("event timestamp should parse without a zone suffix")
	}
	if _, ok := resp.Artifacts["answer"]; !ok {
		t.Error("artifacts should carry the answer bundle")
	}
}

func TestSubmitRun(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/run" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"run_id": "run-9", "status": "running", "sse_endpoint": "/api/run/run-9/stream"}`))
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL)
	resp, err := c.SubmitRun(model.SubmitRequest{Query: "what is covered?", WorkflowID: "default"})
	if err != nil {
		t.Fatalf("SubmitRun: %v", err)
	}
	if resp.RunID != "run-9" {
		t.Errorf("RunID = %q, want run-9", resp.RunID)
	}
}

func TestDeleteRunTreats404AsDeleted(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("unexpected method %s", r.Method)
		}
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail": "Run not found"}`))
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL)
	if err := c.DeleteRun("gone"); err != nil {
		t.Errorf("DeleteRun of a missing run should succeed, got %v", err)
	}
}
