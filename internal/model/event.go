package model

import (
	"time"
)

// Event is a single pipeline event belonging to exactly one run. The
// event_type tag is free-form on the wire; the known values are listed in
// the ui package purely for display. Timestamps arrive as ISO strings
// without a guaranteed zone, so they are kept verbatim and parsed lazily.
type Event struct {
	RunID      string                 `json:"run_id"`
	EventType  string                 `json:"event_type"`
	Step       string                 `json:"step"`
	Timestamp  string                 `json:"timestamp,omitempty"`
	DurationMS *int64                 `json:"duration_ms,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
}

// Time parses the event timestamp, returning the zero time if it cannot be
// parsed. Display code treats the zero time as "no timestamp".
func (e Event) Time() time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, e.Timestamp); err == nil {
			return t
		}
	}
	return time.Time{}
}

// Stream frame discriminators that are not domain events.
const (
	FrameConnected   = "connected"
	FrameRunComplete = "run_complete"
	FrameError       = "error"
)

// Frame is one parsed message from the live event channel. Control frames
// carry only Type (plus Message for errors); anything else is a domain
// event whose fields are inlined here.
type Frame struct {
	Type       string                 `json:"type"`
	RunID      string                 `json:"run_id,omitempty"`
	Message    string                 `json:"message,omitempty"`
	EventType  string                 `json:"event_type,omitempty"`
	Step       string                 `json:"step,omitempty"`
	Timestamp  string                 `json:"timestamp,omitempty"`
	DurationMS *int64                 `json:"duration_ms,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
}

// IsTerminal reports whether this frame ends the stream.
func (f Frame) IsTerminal() bool {
	return f.Type == FrameRunComplete || f.Type == FrameError
}

// IsControl reports whether the frame is channel bookkeeping rather than a
// domain event.
func (f Frame) IsControl() bool {
	return f.Type == FrameConnected || f.IsTerminal()
}

// Event converts a domain frame into an Event. Some emitters set only the
// type discriminator, so it doubles as the event type when event_type is
// absent.
func (f Frame) Event() Event {
	et := f.EventType
	if et == "" {
		et = f.Type
	}
	return Event{
		RunID:      f.RunID,
		EventType:  et,
		Step:       f.Step,
		Timestamp:  f.Timestamp,
		DurationMS: f.DurationMS,
		Data:       f.Data,
	}
}
