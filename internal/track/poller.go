package track

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ragtail-dev/ragtail/internal/model"
)

// Polling defaults. The poller is a bounded fallback, not a guarantee of
// eventual consistency: with the defaults it gives up after two minutes.
const (
	DefaultPollGrace    = 2 * time.Second
	DefaultPollInterval = 2 * time.Second
	DefaultPollAttempts = 60
)

// StatusFetcher is the one server call the poller needs.
type StatusFetcher interface {
	GetRunStatus(runID string) (*model.StatusResponse, error)
}

// Poller creates bounded per-run polling tasks. The first fetch waits out a
// grace period so it cannot race server-side run creation; subsequent
// fetches run at a fixed interval with no backoff.
type Poller struct {
	Fetch       StatusFetcher
	Grace       time.Duration
	Interval    time.Duration
	MaxAttempts int
}

func NewPoller(fetch StatusFetcher) *Poller {
	return &Poller{
		Fetch:       fetch,
		Grace:       DefaultPollGrace,
		Interval:    DefaultPollInterval,
		MaxAttempts: DefaultPollAttempts,
	}
}

// Result is the single outcome of a polling task. Exactly one of these
// conditions holds: Status is terminal (authoritative completion, Events and
// Artifacts populated), Err is set (fetch failed, polling stopped), or
// Exhausted is true (attempt cap hit with the run still not terminal).
type Result struct {
	RunID     string
	Query     string
	Status    model.RunStatus
	Events    []model.Event
	Artifacts map[string]json.RawMessage
	Err       error
	Exhausted bool
}

// Poll is a running polling task. Results yields exactly one Result and is
// then closed; on context cancellation it closes without a result.
type Poll struct {
	results chan Result
}

func (p *Poll) Results() <-chan Result { return p.results }

// Start launches the polling task for a run. Query is carried through so the
// caller can materialize a synthetic run record from a failure result. The
// task checks ctx at every resumption point and exits silently when
// cancelled.
func (p *Poller) Start(ctx context.Context, runID, query string) *Poll {
	poll := &Poll{results: make(chan Result, 1)}
	go p.run(ctx, runID, query, poll)
	return poll
}

func (p *Poller) run(ctx context.Context, runID, query string, poll *Poll) {
	defer close(poll.results)

	timer := time.NewTimer(p.Grace)
	defer timer.Stop()

	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		status, err := p.Fetch.GetRunStatus(runID)
		if err != nil {
			// Errors stop polling outright; the caller decides what to
			// surface.
			poll.results <- Result{RunID: runID, Query: query, Err: err}
			return
		}
		if status.Status.IsTerminal() {
			poll.results <- Result{
				RunID:     runID,
				Query:     query,
				Status:    status.Status,
				Events:    status.Events,
				Artifacts: status.Artifacts,
			}
			return
		}
		if attempt == p.MaxAttempts {
			poll.results <- Result{
				RunID:     runID,
				Query:     query,
				Status:    status.Status,
				Exhausted: true,
			}
			return
		}
		timer.Reset(p.Interval)
	}
}
