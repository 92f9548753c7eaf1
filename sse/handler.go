package sse

import (
	"fmt"
	"net/http"
	"time"

	"github.com/skillsenselab/flowkit/logger"
)

// HandlerConfig tunes the SSE HTTP handler.
type HandlerConfig struct {
	// ClientBuffer is the per-client event channel capacity.
	ClientBuffer int
	// KeepAlive is the interval between comment keep-alives (0 disables).
	KeepAlive time.Duration
}

// ServeRunEvents returns an HTTP handler that streams a run's events over
// Server-Sent Events. The run id is taken from the "run_id" query parameter.
// The stream stays open until the client disconnects or the hub shuts down.
func ServeRunEvents(hub *Hub, cfg HandlerConfig) http.Handler {
	if cfg.ClientBuffer <= 0 {
		cfg.ClientBuffer = 256
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		runID := r.URL.Query().Get("run_id")
		if runID == "" {
			http.Error(w, "missing run_id", http.StatusBadRequest)
			return
		}
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		client := NewClient(runID, cfg.ClientBuffer)
		hub.Subscribe(client)
		defer hub.Unsubscribe(client)

		var keepAlive <-chan time.Time
		if cfg.KeepAlive > 0 {
			ticker := time.NewTicker(cfg.KeepAlive)
			defer ticker.Stop()
			keepAlive = ticker.C
		}

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case <-keepAlive:
				if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
					return
				}
				flusher.Flush()
			case data, open := <-client.Events():
				if !open {
					return
				}
				if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
					logger.Debug("[SSE] write failed, closing stream", map[string]interface{}{
						"client_id": client.ID(),
					})
					return
				}
				flusher.Flush()
			}
		}
	})
}
