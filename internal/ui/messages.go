package ui

import (
	"encoding/json"

	"github.com/ragtail-dev/ragtail/internal/model"
	"github.com/ragtail-dev/ragtail/internal/ops"
	"github.com/ragtail-dev/ragtail/internal/track"
)

// Data fetched messages
type RunsLoadedMsg struct {
	Runs       []model.Run
	TotalCount int
	Err        error
}

type RunSubmittedMsg struct {
	RunID  string
	Query  string
	Status model.RunStatus
	Err    error
}

type RunEventsMsg struct {
	RunID  string
	Events []model.Event
	Err    error
}

// Stream messages
type StreamFrameMsg struct {
	RunID string
	Frame model.Frame
}

type StreamClosedMsg struct {
	RunID string
	Err   error
}

// Poll messages
type PollDoneMsg struct {
	Result track.Result
	Open   bool
}

// Action result messages
type RunDeletedMsg struct {
	RunID string
	Err   error
}

type BulkDeleteMsg struct {
	Result ops.DeleteResult
}

type ArtifactsLoadedMsg struct {
	RunID     string
	Artifacts map[string]json.RawMessage
	FromCache bool
	Err       error
}

type SearchDoneMsg struct {
	Results *model.SearchResults
	Err     error
}

type StatusMsg struct {
	Text string
}
