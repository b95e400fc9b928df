package sse_test

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/hilal/internal/infrastructure/sse"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/felixgeelhaar/hilal/pkg/storage"
)

func newAudit(t *testing.T) *application.AuditService {
	t.Helper()
	store, err := storage.NewFileEventStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return application.NewAuditService(store)
}

func waitForClients(t *testing.T, h *sse.Handler, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for h.Clients() != n {
		if time.Now().After(deadline) {
			t.Fatalf("expected %d clients, have %d", n, h.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestHandler_StreamsFilteredEvents(t *testing.T) {
	audit := newAudit(t)
	handler := sse.NewHandler(audit)
	server := httptest.NewServer(handler)
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, server.URL+"?actions=task.deleted_all", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer resp.Body.Close() //nolint:errcheck // test body

	if ct := resp.Header.Get("Content-Type"); ct != "text/event-stream" {
		t.Errorf("expected text/event-stream, got %s", ct)
	}
	waitForClients(t, handler, 1)

	_ = audit.Log(domain.EventTaskAdded, "task:1", "api", nil)
	_ = audit.Log(domain.EventTaskDeletedAll, "task:7", "api", map[string]interface{}{"title": "Taraweeh"})

	reader := bufio.NewReader(resp.Body)
	var lines []string
	for len(lines) < 3 {
		line, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read stream: %v", err)
		}
		if line = strings.TrimSpace(line); line != "" {
			lines = append(lines, line)
		}
	}
	if lines[1] != "event: task.deleted_all" {
		t.Errorf("filtered stream should skip task.added, got %q", lines)
	}
	if !strings.Contains(lines[2], `"aggregate":"task:7"`) || !strings.Contains(lines[2], "Taraweeh") {
		t.Errorf("unexpected data line %q", lines[2])
	}

	cancel()
	waitForClients(t, handler, 0)
}
