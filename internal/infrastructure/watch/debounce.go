// Package watch reports changes to the files under a workspace's .hilal
// directory, coalesced per debounce window.
package watch

import (
	"sync"
	"time"
)

// Debouncer collects items and hands them to the callback once the window
// passes with no new item. Duplicates within a window are kept once, in
// first-seen order.
type Debouncer[T comparable] struct {
	window   time.Duration
	mu       sync.Mutex
	timer    *time.Timer
	pending  []T
	seen     map[T]struct{}
	callback func([]T)
}

func NewDebouncer[T comparable](window time.Duration, callback func([]T)) *Debouncer[T] {
	return &Debouncer[T]{
		window:   window,
		seen:     make(map[T]struct{}),
		callback: callback,
	}
}

// Add queues item and restarts the window.
func (d *Debouncer[T]) Add(item T) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[item]; !ok {
		d.seen[item] = struct{}{}
		d.pending = append(d.pending, item)
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.flush)
}

func (d *Debouncer[T]) flush() {
	d.mu.Lock()
	batch := d.pending
	d.pending = nil
	d.seen = make(map[T]struct{})
	d.mu.Unlock()

	if len(batch) > 0 && d.callback != nil {
		d.callback(batch)
	}
}

// Stop drops anything still pending.
func (d *Debouncer[T]) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = nil
	d.seen = make(map[T]struct{})
}
