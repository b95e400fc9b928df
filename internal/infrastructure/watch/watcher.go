package watch

import (
	"context"
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is used when NewStoreWatcher gets a zero window.
const DefaultDebounce = 300 * time.Millisecond

// Change is one batch of keys touched within a debounce window.
type Change struct {
	Keys []string
	At   time.Time
}

// StoreWatcher watches a single store directory with fsnotify.
type StoreWatcher struct {
	watcher  *fsnotify.Watcher
	dir      string
	filter   *KeyFilter
	debounce time.Duration
	onChange func(Change)
}

// NewStoreWatcher watches dir. A nil filter uses DefaultKeyFilter.
func NewStoreWatcher(dir string, debounce time.Duration, filter *KeyFilter, onChange func(Change)) (*StoreWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if filter == nil {
		filter = DefaultKeyFilter()
	}
	return &StoreWatcher{
		watcher:  w,
		dir:      dir,
		filter:   filter,
		debounce: debounce,
		onChange: onChange,
	}, nil
}

// Dir returns the watched directory.
func (w *StoreWatcher) Dir() string { return w.dir }

// Run blocks until ctx is done or the watcher fails.
func (w *StoreWatcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	debouncer := NewDebouncer(w.debounce, func(keys []string) {
		if w.onChange != nil {
			w.onChange(Change{Keys: keys, At: time.Now()})
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !relevant(event.Op) {
				continue
			}
			// Saves land as a rename of key.json.tmp onto key.json, so the
			// create on the final name is what gets reported.
			if key, ok := w.filter.Key(event.Name); ok {
				debouncer.Add(key)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) ||
		op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename)
}
