package api

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/ragtail-dev/ragtail/internal/model"
)

type RunsFilter struct {
	Status string
	Limit  int
	Offset int
}

func (f RunsFilter) QueryString() string {
	v := url.Values{}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	} else {
		v.Set("limit", "50")
	}
	if f.Offset > 0 {
		v.Set("offset", strconv.Itoa(f.Offset))
	}
	if qs := v.Encode(); qs != "" {
		return "?" + qs
	}
	return ""
}

func (c *Client) ListRuns(filter RunsFilter) (*model.RunsResponse, error) {
	var resp model.RunsResponse
	if err := c.Get("runs"+filter.QueryString(), &resp); err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return &resp, nil
}

// GetRunStatus fetches the full run record: authoritative status, the
// complete event list accumulated so far, and the artifact bundle.
func (c *Client) GetRunStatus(runID string) (*model.StatusResponse, error) {
	var resp model.StatusResponse
	if err := c.Get("run/"+url.PathEscape(runID), &resp); err != nil {
		return nil, fmt.Errorf("get run %s: %w", runID, err)
	}
	return &resp, nil
}

func (c *Client) SubmitRun(req model.SubmitRequest) (*model.SubmitResponse, error) {
	var resp model.SubmitResponse
	if err := c.Post("run", req, &resp); err != nil {
		return nil, fmt.Errorf("submit run: %w", err)
	}
	return &resp, nil
}

func (c *Client) DeleteRun(runID string) error {
	if err := c.Delete("run/" + url.PathEscape(runID)); err != nil {
		// The delete endpoint is idempotent from the console's point of
		// view: a run that is already gone counts as deleted.
		if IsNotFound(err) {
			return nil
		}
		return fmt.Errorf("delete run %s: %w", runID, err)
	}
	return nil
}
