package api

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/ragtail-dev/ragtail/internal/model"
)

// Stream is a live event channel for a single run. Frames() yields parsed
// frames in arrival order; the channel is closed exactly once, after a
// terminal frame (run_complete or error), a transport failure, or context
// cancellation. Done() then reports why: nil for a terminal frame, non-nil
// otherwise.
type Stream struct {
	frames chan model.Frame
	done   chan error
}

func (s *Stream) Frames() <-chan model.Frame { return s.frames }
func (s *Stream) Done() <-chan error         { return s.done }

// StreamRunEvents subscribes to the run's live event channel. Cancelling ctx
// is the only way to abandon the stream early.
func (c *Client) StreamRunEvents(ctx context.Context, runID string) (*Stream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.apiPath("run/"+url.PathEscape(runID)+"/stream"), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "text/event-stream")

	// The streaming request deliberately bypasses the client timeout: a run
	// can stay quiet between pipeline stages for longer than any sane
	// request deadline, and the server sends heartbeats to keep the
	// connection alive.
	resp, err := (&http.Client{}).Do(req)
	if err != nil {
		return nil, fmt.Errorf("open event stream for %s: %w", runID, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, decodeError(resp)
	}

	s := &Stream{
		frames: make(chan model.Frame, 64),
		done:   make(chan error, 1),
	}
	go s.read(ctx, runID, resp)
	return s, nil
}

func (s *Stream) read(ctx context.Context, runID string, resp *http.Response) {
	defer resp.Body.Close()
	defer close(s.frames)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		if ctx.Err() != nil {
			s.done <- ctx.Err()
			return
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ":") {
			// Frame separator or heartbeat comment.
			continue
		}
		data, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}

		var frame model.Frame
		if err := json.Unmarshal([]byte(strings.TrimSpace(data)), &frame); err != nil {
			// One malformed frame must not lose the rest of the stream.
			log.Printf("stream %s: skipping malformed frame: %v", runID, err)
			continue
		}

		select {
		case s.frames <- frame:
		case <-ctx.Done():
			s.done <- ctx.Err()
			return
		}

		if frame.IsTerminal() {
			s.done <- nil
			return
		}
	}

	if err := scanner.Err(); err != nil {
		s.done <- err
		return
	}
	s.done <- fmt.Errorf("event stream for %s closed without a terminal frame", runID)
}
