package sse

import (
	"encoding/json"

	"github.com/skillsenselab/flowkit/engine"
	"github.com/skillsenselab/flowkit/logger"
)

// RunSink publishes engine events to a Hub as JSON payloads. It implements
// engine.EventSink.
type RunSink struct {
	hub *Hub
}

// NewRunSink creates a sink that broadcasts events through the given hub.
func NewRunSink(hub *Hub) *RunSink {
	return &RunSink{hub: hub}
}

// Publish serializes the event and broadcasts it to the event's run.
func (s *RunSink) Publish(ev engine.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logger.Error("[SSE] failed to marshal event", map[string]interface{}{
			"run_id":     ev.RunID,
			"event_type": string(ev.Type),
			"error":      err.Error(),
		})
		return
	}
	s.hub.Broadcast(ev.RunID, data)
}
