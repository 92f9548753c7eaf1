package engine

import (
	"sync"
	"time"

	"github.com/skillsenselab/flowkit/component"
)

// EventType identifies a progress event.
type EventType string

const (
	EventVertexStarted   EventType = "vertex_started"
	EventVertexSucceeded EventType = "vertex_succeeded"
	EventVertexFailed    EventType = "vertex_failed"
	EventVertexSkipped   EventType = "vertex_skipped"
	EventRunCompleted    EventType = "run_completed"
)

// Event is one entry in a run's ordered progress stream.
//
// Ordering contract: events for a given vertex arrive as Started followed by
// exactly one of Succeeded, Failed, or Skipped (Skipped vertices have no
// Started event), and RunCompleted is always the last event of a run.
type Event struct {
	Type      EventType         `json:"type"`
	RunID     string            `json:"run_id"`
	Timestamp time.Time         `json:"timestamp"`
	VertexID  string            `json:"vertex_id,omitempty"`
	Outputs   component.Outputs `json:"outputs,omitempty"`
	Error     string            `json:"error,omitempty"`
	// SkippedBecause names the failed upstream vertex that vetoed this one.
	SkippedBecause string `json:"skipped_because,omitempty"`
	// Status is the run's terminal status; set only on RunCompleted.
	Status RunStatus `json:"status,omitempty"`
}

// EventSink receives a run's progress events, in order, from the scheduling
// loop. Publish must not block indefinitely: a slow observer stalls the run.
type EventSink interface {
	Publish(event Event)
}

// SinkFunc adapts a function to an EventSink.
type SinkFunc func(event Event)

// Publish calls f(event).
func (f SinkFunc) Publish(event Event) { f(event) }

// NopSink discards all events.
type NopSink struct{}

// Publish discards the event.
func (NopSink) Publish(Event) {}

// Collector is an EventSink that retains events in arrival order. Safe for
// concurrent use; intended for tests and for callers that inspect a run's
// stream after the fact.
type Collector struct {
	mu     sync.Mutex
	events []Event
}

// Publish appends the event.
func (c *Collector) Publish(event Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, event)
}

// Events returns a copy of the collected events.
func (c *Collector) Events() []Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Event, len(c.events))
	copy(out, c.events)
	return out
}

// MultiSink fans events out to several sinks in order.
type MultiSink []EventSink

// Publish forwards the event to each sink.
func (m MultiSink) Publish(event Event) {
	for _, s := range m {
		s.Publish(event)
	}
}
