package sse

import (
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/skillsenselab/flowkit/logger"
)

// Client is one connected event-stream subscriber, bound to a single run.
type Client struct {
	id     string
	runID  string
	events chan []byte
}

// NewClient creates a subscriber for the given run with the given channel
// capacity.
func NewClient(runID string, buffer int) *Client {
	if buffer <= 0 {
		buffer = 256
	}
	return &Client{
		id:     fmt.Sprintf("%s:%s", runID, uuid.NewString()),
		runID:  runID,
		events: make(chan []byte, buffer),
	}
}

// ID returns the client's unique identifier.
func (c *Client) ID() string { return c.id }

// RunID returns the run the client is subscribed to.
func (c *Client) RunID() string { return c.runID }

// Events returns the channel for receiving serialized events.
func (c *Client) Events() <-chan []byte { return c.events }

// Send queues data for the client. Returns false and drops the message when
// the channel is full (the client is too slow).
func (c *Client) Send(data []byte) bool {
	select {
	case c.events <- data:
		return true
	default:
		logger.Warn("[SSE] client channel full, dropping event", map[string]interface{}{
			"client_id": c.id,
		})
		return false
	}
}

// Close closes the client's event channel.
func (c *Client) Close() { close(c.events) }

// Hub routes serialized run events to subscribed clients. Subscription and
// delivery are keyed by run id, so multiple concurrent runs stream
// independently through one hub.
type Hub struct {
	mu      sync.RWMutex
	byRun   map[string]map[string]*Client // run id -> client id -> client
	stopped bool
}

// NewHub creates a new empty hub.
func NewHub() *Hub {
	return &Hub{byRun: make(map[string]map[string]*Client)}
}

// Subscribe registers a client for its run's events.
func (h *Hub) Subscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		client.Close()
		return
	}
	clients, ok := h.byRun[client.runID]
	if !ok {
		clients = make(map[string]*Client)
		h.byRun[client.runID] = clients
	}
	clients[client.id] = client
	logger.Debug("[SSE] client subscribed", map[string]interface{}{
		"client_id": client.id,
		"run_id":    client.runID,
	})
}

// Unsubscribe removes a client and closes its channel.
func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.byRun[client.runID]
	if !ok {
		return
	}
	if _, registered := clients[client.id]; !registered {
		return
	}
	delete(clients, client.id)
	if len(clients) == 0 {
		delete(h.byRun, client.runID)
	}
	client.Close()
	logger.Debug("[SSE] client unsubscribed", map[string]interface{}{
		"client_id": client.id,
		"run_id":    client.runID,
	})
}

// Broadcast delivers data to every client subscribed to the run.
func (h *Hub) Broadcast(runID string, data []byte) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, client := range h.byRun[runID] {
		client.Send(data)
	}
}

// SubscriberCount returns the number of clients subscribed to a run.
func (h *Hub) SubscriberCount(runID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.byRun[runID])
}

// Stop closes all clients and rejects further subscriptions. Safe to call
// multiple times.
func (h *Hub) Stop() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.stopped {
		return
	}
	h.stopped = true
	for runID, clients := range h.byRun {
		for id, client := range clients {
			client.Close()
			delete(clients, id)
		}
		delete(h.byRun, runID)
	}
}
