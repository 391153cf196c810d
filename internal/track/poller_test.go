package track

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ragtail-dev/ragtail/internal/model"
)

type scriptedFetcher struct {
	calls    atomic.Int32
	statuses []model.RunStatus // consumed per call; last value repeats
	err      error             // returned on every call when set
}

func (f *scriptedFetcher) GetRunStatus(runID string) (*model.StatusResponse, error) {
	n := int(f.calls.Add(1)) - 1
	if f.err != nil {
		return nil, f.err
	}
	status := f.statuses[len(f.statuses)-1]
	if n < len(f.statuses) {
		status = f.statuses[n]
	}
	resp := &model.StatusResponse{RunID: runID, Status: status}
	if status.IsTerminal() {
		resp.Events = []model.Event{{RunID: runID, EventType: "run_completed"}}
	}
	return resp, nil
}

func fastPoller(f StatusFetcher, attempts int) *Poller {
	return &Poller{Fetch: f, Grace: time.Millisecond, Interval: time.Millisecond, MaxAttempts: attempts}
}

func mustResult(t *testing.T, poll *Poll) Result {
	t.Helper()
	select {
	case res, ok := <-poll.Results():
		if !ok {
			t.Fatal("results channel closed without a result")
		}
		return res
	case <-time.After(5 * time.Second):
		t.Fatal("poll did not finish")
	}
	return Result{}
}

func TestPollerStopsOnTerminalStatus(t *testing.T) {
	f := &scriptedFetcher{statuses: []model.RunStatus{
		model.RunStatusRunning,
		model.RunStatusRunning,
		model.RunStatusCompleted,
	}}
	poll := fastPoller(f, 10).Start(context.Background(), "r1", "the query")

	res := mustResult(t, poll)
	if res.Status != model.RunStatusCompleted {
		t.Errorf("Status = %v, want completed", res.Status)
	}
	if res.Query != "the query" {
		t.Errorf("Query = %q, want carried through", res.Query)
	}
	if len(res.Events) == 0 {
		t.Error("terminal result should carry the event list")
	}
	if got := f.calls.Load(); got != 3 {
		t.Errorf("fetch count = %d, want 3 (no fetches after terminal)", got)
	}
}

func TestPollerAttemptCapIsExact(t *testing.T) {
	const max = 5
	f := &scriptedFetcher{statuses: []model.RunStatus{model.RunStatusRunning}}
	poll := fastPoller(f, max).Start(context.Background(), "r1", "q")

	res := mustResult(t, poll)
	if !res.Exhausted {
		t.Fatal("expected exhaustion result")
	}
	if res.Status != model.RunStatusRunning {
		t.Errorf("exhaustion should report the last-known status, got %v", res.Status)
	}

	// No (N+1)-th fetch gets scheduled after exhaustion.
	time.Sleep(20 * time.Millisecond)
	if got := f.calls.Load(); got != max {
		t.Errorf("fetch count = %d, want exactly %d", got, max)
	}
}

func TestPollerStopsOnFetchError(t *testing.T) {
	f := &scriptedFetcher{err: errors.New("connection refused")}
	poll := fastPoller(f, 10).Start(context.Background(), "r1", "q")

	res := mustResult(t, poll)
	if res.Err == nil {
		t.Fatal("expected an error result")
	}
	time.Sleep(20 * time.Millisecond)
	if got := f.calls.Load(); got != 1 {
		t.Errorf("fetch count = %d, want 1 (errors are not retried)", got)
	}
}

func TestPollerHonorsGracePeriod(t *testing.T) {
	f := &scriptedFetcher{statuses: []model.RunStatus{model.RunStatusCompleted}}
	p := &Poller{Fetch: f, Grace: 50 * time.Millisecond, Interval: time.Millisecond, MaxAttempts: 3}

	start := time.Now()
	poll := p.Start(context.Background(), "r1", "q")
	mustResult(t, poll)
	if elapsed := time.Since(start); elapsed < 50*time.Millisecond {
		t.Errorf("first fetch fired after %v, want the %v grace period honored", elapsed, p.Grace)
	}
}

func TestPollerCancellation(t *testing.T) {
	f := &scriptedFetcher{statuses: []model.RunStatus{model.RunStatusRunning}}
	p := &Poller{Fetch: f, Grace: time.Hour, Interval: time.Hour, MaxAttempts: 3}

	ctx, cancel := context.WithCancel(context.Background())
	poll := p.Start(ctx, "r1", "q")
	cancel()

	select {
	case res, ok := <-poll.Results():
		if ok {
			t.Errorf("cancelled poll should close without a result, got %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancelled poll did not exit")
	}
	if got := f.calls.Load(); got != 0 {
		t.Errorf("fetch count = %d, want 0 when cancelled during grace", got)
	}
}
