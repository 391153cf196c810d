package model

import (
	"encoding/json"
	"time"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusBlocked   RunStatus = "blocked"
	RunStatusUnknown   RunStatus = "unknown"
)

// IsTerminal reports whether no further status transitions are expected.
func (s RunStatus) IsTerminal() bool {
	switch s {
	case RunStatusCompleted, RunStatusFailed, RunStatusBlocked:
		return true
	}
	return false
}

type Run struct {
	ID        string    `json:"run_id"`
	Status    RunStatus `json:"status,omitempty"`
	CreatedAt float64   `json:"created_at,omitempty"` // seconds since epoch
}

// EffectiveStatus normalizes an absent or unrecognized status to running:
// the server omits or reports "unknown" for runs it has not finished indexing.
func (r Run) EffectiveStatus() RunStatus {
	switch r.Status {
	case RunStatusCompleted, RunStatusFailed, RunStatusBlocked:
		return r.Status
	}
	return RunStatusRunning
}

func (r Run) Created() time.Time {
	if r.CreatedAt == 0 {
		return time.Time{}
	}
	sec := int64(r.CreatedAt)
	nsec := int64((r.CreatedAt - float64(sec)) * 1e9)
	return time.Unix(sec, nsec)
}

func (r Run) ShortID() string {
	if len(r.ID) >= 8 {
		return r.ID[:8]
	}
	return r.ID
}

type RunsResponse struct {
	Runs   []Run `json:"runs"`
	Total  int   `json:"total"`
	Limit  int   `json:"limit,omitempty"`
	Offset int   `json:"offset,omitempty"`
}

// StatusResponse is the full run status endpoint payload: authoritative
// status, the complete accumulated event list, and the artifact bundle.
type StatusResponse struct {
	RunID     string                     `json:"run_id"`
	Status    RunStatus                  `json:"status"`
	Events    []Event                    `json:"events"`
	Artifacts map[string]json.RawMessage `json:"artifacts"`
}

type SubmitRequest struct {
	Query      string `json:"query"`
	WorkflowID string `json:"workflow_id"`
}

type SubmitResponse struct {
	RunID       string                 `json:"run_id"`
	Status      RunStatus              `json:"status"`
	SSEEndpoint string                 `json:"sse_endpoint"`
	Answer      json.RawMessage        `json:"answer,omitempty"`
	JudgeReport json.RawMessage        `json:"judge_report,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
