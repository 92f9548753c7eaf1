package sse

import (
	"testing"
)

func TestHubRoutesByRun(t *testing.T) {
	hub := NewHub()
	defer hub.Stop()

	c1 := NewClient("run-1", 4)
	c2 := NewClient("run-1", 4)
	other := NewClient("run-2", 4)
	hub.Subscribe(c1)
	hub.Subscribe(c2)
	hub.Subscribe(other)

	hub.Broadcast("run-1", []byte("hello"))

	for _, c := range []*Client{c1, c2} {
		select {
		case data := <-c.Events():
			if string(data) != "hello" {
				t.Errorf("unexpected payload: %s", data)
			}
		default:
			t.Errorf("client %s received nothing", c.ID())
		}
	}
	select {
	case data := <-other.Events():
		t.Errorf("run-2 client must not see run-1 events, got %s", data)
	default:
	}
}

func TestHubUnsubscribeClosesClient(t *testing.T) {
	hub := NewHub()
	defer hub.Stop()

	c := NewClient("run-1", 4)
	hub.Subscribe(c)
	if hub.SubscriberCount("run-1") != 1 {
		t.Fatalf("expected 1 subscriber, got %d", hub.SubscriberCount("run-1"))
	}

	hub.Unsubscribe(c)
	if hub.SubscriberCount("run-1") != 0 {
		t.Errorf("expected 0 subscribers, got %d", hub.SubscriberCount("run-1"))
	}
	if _, open := <-c.Events(); open {
		t.Error("expected closed channel after unsubscribe")
	}

	// Unsubscribing twice is a no-op, not a double close.
	hub.Unsubscribe(c)
}

func TestHubSlowClientDropsEvents(t *testing.T) {
	hub := NewHub()
	defer hub.Stop()

	c := NewClient("run-1", 1)
	hub.Subscribe(c)

	hub.Broadcast("run-1", []byte("first"))
	hub.Broadcast("run-1", []byte("second")) // dropped, buffer full

	if data := <-c.Events(); string(data) != "first" {
		t.Errorf("expected first event, got %s", data)
	}
	select {
	case data := <-c.Events():
		t.Errorf("second event should have been dropped, got %s", data)
	default:
	}
}

func TestHubStop(t *testing.T) {
	hub := NewHub()
	c := NewClient("run-1", 4)
	hub.Subscribe(c)

	hub.Stop()
	if _, open := <-c.Events(); open {
		t.Error("expected closed channel after Stop")
	}

	// Subscriptions after Stop are rejected with a closed channel.
	late := NewClient("run-1", 4)
	hub.Subscribe(late)
	if _, open := <-late.Events(); open {
		t.Error("expected closed channel for post-Stop subscription")
	}

	hub.Stop() // idempotent
}

func TestNewClientBufferFloor(t *testing.T) {
	c := NewClient("run-1", 0)
	if cap(c.events) == 0 {
		t.Error("expected a non-zero default buffer")
	}
	if c.RunID() != "run-1" {
		t.Errorf("unexpected run id %s", c.RunID())
	}
	if c.ID() == "" {
		t.Error("expected a generated client id")
	}
}
