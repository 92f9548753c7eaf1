package sse

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestServeRunEventsStreams(t *testing.T) {
	hub := NewHub()
	defer hub.Stop()

	srv := httptest.NewServer(ServeRunEvents(hub, HandlerConfig{ClientBuffer: 8}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?run_id=run-1", nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("expected event-stream content type, got %q", ct)
	}

	// Wait for the subscription to land, then broadcast.
	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount("run-1") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}
	hub.Broadcast("run-1", []byte(`{"type":"vertex_started"}`))

	reader := bufio.NewReader(resp.Body)
	line, err := reader.ReadString('\n')
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.HasPrefix(line, "data: ") {
		t.Fatalf("expected SSE data frame, got %q", line)
	}
	if !strings.Contains(line, "vertex_started") {
		t.Errorf("unexpected payload: %q", line)
	}

	cancel()
}

func TestServeRunEventsRequiresRunID(t *testing.T) {
	hub := NewHub()
	defer hub.Stop()

	srv := httptest.NewServer(ServeRunEvents(hub, HandlerConfig{}))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", resp.StatusCode)
	}
}

func TestServeRunEventsUnsubscribesOnDisconnect(t *testing.T) {
	hub := NewHub()
	defer hub.Stop()

	srv := httptest.NewServer(ServeRunEvents(hub, HandlerConfig{}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"?run_id=run-9", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.SubscriberCount("run-9") == 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never subscribed")
		}
		time.Sleep(5 * time.Millisecond)
	}

	cancel()
	deadline = time.Now().Add(2 * time.Second)
	for hub.SubscriberCount("run-9") != 0 {
		if time.Now().After(deadline) {
			t.Fatal("handler never unsubscribed after disconnect")
		}
		time.Sleep(5 * time.Millisecond)
	}
}
