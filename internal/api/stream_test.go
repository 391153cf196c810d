package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ragtail-dev/ragtail/internal/model"
)

func sseHandler(t *testing.T, lines []string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Fatal("response writer is not a flusher")
		}
		for _, line := range lines {
			w.Write([]byte(line + "\n\n"))
			flusher.Flush()
		}
	}
}

func collect(t *testing.T, s *Stream) ([]model.Frame, error) {
	t.Helper()
	var frames []model.Frame
	for f := range s.Frames() {
		frames = append(frames, f)
	}
	select {
	case err := <-s.Done():
		return frames, err
	case <-time.After(5 * time.Second):
		t.Fatal("stream did not report completion")
		return nil, nil
	}
}

func TestStreamDeliversFramesUntilRunComplete(t *testing.T) {
	ts := httptest.NewServer(sseHandler(t, []string{
		`data: {"type": "connected", "run_id": "r1"}`,
		`: heartbeat`,
		`data: {"type": "retrieval_started", "run_id": "r1", "event_type": "retrieval_started", "step": "retrieval"}`,
		`data: {"type": "generation_completed", "run_id": "r1", "event_type": "generation_completed", "step": "generation"}`,
		`data: {"type": "run_complete", "run_id": "r1"}`,
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL)
	s, err := c.StreamRunEvents(context.Background(), "r1")
	if err != nil {
		t.Fatalf("StreamRunEvents: %v", err)
	}

	frames, done := collect(t, s)
	if done != nil {
		t.Errorf("Done() = %v, want nil after run_complete", done)
	}
	if len(frames) != 4 {
		t.Fatalf("got %d frames, want 4 (heartbeat skipped)", len(frames))
	}
	if frames[0].Type != model.FrameConnected {
		t.Errorf("first frame = %q, want connected", frames[0].Type)
	}
	if !frames[3].IsTerminal() {
		t.Error("last frame should be terminal")
	}
	if ev := frames[1].Event(); ev.EventType != "retrieval_started" || ev.Step != "retrieval" {
		t.Errorf("unexpected domain event: %+v", ev)
	}
}

func TestStreamSkipsMalformedFrame(t *testing.T) {
	ts := httptest.NewServer(sseHandler(t, []string{
		`data: {"type": "retrieval_started", "run_id": "r1"}`,
		`data: {not json at all`,
		`data: {"type": "fusion_completed", "run_id": "r1"}`,
		`data: {"type": "run_complete", "run_id": "r1"}`,
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL)
	s, err := c.StreamRunEvents(context.Background(), "r1")
	if err != nil {
		t.Fatalf("StreamRunEvents: %v", err)
	}

	frames, done := collect(t, s)
	if done != nil {
		t.Errorf("a malformed frame must not terminate the channel, got %v", done)
	}
	// Both well-formed frames around the malformed one survive.
	var types []string
	for _, f := range frames {
		types = append(types, f.Type)
	}
	want := []string{"retrieval_started", "fusion_completed", "run_complete"}
	if len(types) != len(want) {
		t.Fatalf("got frames %v, want %v", types, want)
	}
	for i := range want {
		if types[i] != want[i] {
			t.Fatalf("got frames %v, want %v", types, want)
		}
	}
}

func TestStreamErrorFrameIsTerminal(t *testing.T) {
	ts := httptest.NewServer(sseHandler(t, []string{
		`data: {"type": "error", "message": "pipeline exploded"}`,
		`data: {"type": "never_delivered"}`,
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL)
	s, err := c.StreamRunEvents(context.Background(), "r1")
	if err != nil {
		t.Fatalf("StreamRunEvents: %v", err)
	}

	frames, done := collect(t, s)
	if done != nil {
		t.Errorf("Done() = %v; a parsed error frame is a clean close", done)
	}
	if len(frames) != 1 || frames[0].Type != model.FrameError {
		t.Fatalf("got %d frames, want just the error frame", len(frames))
	}
	if frames[0].Message != "pipeline exploded" {
		t.Errorf("Message = %q", frames[0].Message)
	}
}

func TestStreamTransportDropReportsError(t *testing.T) {
	ts := httptest.NewServer(sseHandler(t, []string{
		`data: {"type": "connected", "run_id": "r1"}`,
		// Server closes without a terminal frame.
	}))
	defer ts.Close()

	c, _ := NewClient(ts.URL)
	s, err := c.StreamRunEvents(context.Background(), "r1")
	if err != nil {
		t.Fatalf("StreamRunEvents: %v", err)
	}

	_, done := collect(t, s)
	if done == nil {
		t.Error("a stream dropped without run_complete must surface an error")
	}
}

func TestStreamCancel(t *testing.T) {
	blocker := make(chan struct{})
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		w.(http.Flusher).Flush()
		<-blocker
	}))
	defer ts.Close()
	defer close(blocker)

	ctx, cancel := context.WithCancel(context.Background())
	c, _ := NewClient(ts.URL)
	s, err := c.StreamRunEvents(ctx, "r1")
	if err != nil {
		t.Fatalf("StreamRunEvents: %v", err)
	}

	cancel()
	_, done := collect(t, s)
	if done == nil {
		t.Error("cancellation should surface through Done()")
	}
}
