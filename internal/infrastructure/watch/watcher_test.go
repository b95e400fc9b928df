package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestStoreWatcher_ReportsKeys(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan Change, 4)

	w, err := NewStoreWatcher(dir, 50*time.Millisecond, nil, func(c Change) { changes <- c })
	if err != nil {
		t.Fatalf("NewStoreWatcher failed: %v", err)
	}
	if w.Dir() != dir {
		t.Errorf("unexpected dir %s", w.Dir())
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Run(ctx) }()
	time.Sleep(50 * time.Millisecond)

	tmp := filepath.Join(dir, "activeDate.json.tmp")
	if err := os.WriteFile(tmp, []byte(`"2025-03-05"`), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, filepath.Join(dir, "activeDate.json")); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		if len(c.Keys) != 1 || c.Keys[0] != "activeDate" {
			t.Errorf("unexpected keys %v", c.Keys)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestStoreWatcher_StopsOnCancel(t *testing.T) {
	w, err := NewStoreWatcher(t.TempDir(), 0, nil, nil)
	if err != nil {
		t.Fatalf("NewStoreWatcher failed: %v", err)
	}
	if w.debounce != DefaultDebounce {
		t.Errorf("expected default debounce, got %s", w.debounce)
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestNewStoreWatcher_MissingDir(t *testing.T) {
	if _, err := NewStoreWatcher(filepath.Join(t.TempDir(), "nope"), 0, nil, nil); err == nil {
		t.Error("expected error for missing directory")
	}
}
