// Package sse streams audit events to HTTP clients as Server-Sent Events.
package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain"
)

// Handler fans audit events out to connected clients.
type Handler struct {
	mu      sync.RWMutex
	clients map[chan *domain.Event]struct{}
}

// NewHandler subscribes to audit and returns a handler that streams its events.
func NewHandler(audit *application.AuditService) *Handler {
	h := &Handler{clients: make(map[chan *domain.Event]struct{})}
	audit.Subscribe(h.broadcast)
	return h
}

func (h *Handler) broadcast(e *domain.Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.clients {
		select {
		case ch <- e:
		default:
			// slow client
		}
	}
}

// Clients reports how many streams are open.
func (h *Handler) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// ServeHTTP streams events until the client disconnects. The optional
// actions query parameter is a comma separated allow-list, e.g.
// ?actions=task.added,task.deleted.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	filter := make(map[string]bool)
	if actions := r.URL.Query().Get("actions"); actions != "" {
		for _, a := range strings.Split(actions, ",") {
			filter[strings.TrimSpace(a)] = true
		}
	}

	// Registered before the headers go out, so a client that has seen
	// the response sees every later event.
	ch := make(chan *domain.Event, 64)
	h.mu.Lock()
	h.clients[ch] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.clients, ch)
		h.mu.Unlock()
	}()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-ch:
			if len(filter) > 0 && !filter[e.Action] {
				continue
			}
			data, err := json.Marshal(e)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "id: %s\nevent: %s\ndata: %s\n\n", e.ID, e.Action, data)
			flusher.Flush()
		}
	}
}
