package quran

import (
	"context"
	"errors"
	"sync"
)

// ErrBusy indicates another page load is still running.
var ErrBusy = errors.New("page load already in progress")

// ReaderSession is a window of consecutive pages that grows in both
// directions. Every Open starts a new epoch; results of fetches begun in an
// older epoch are dropped with ErrStaleResult.
type ReaderSession struct {
	src Source

	mu      sync.Mutex
	epoch   uint64
	pages   []PageData
	visible int
	loading bool
}

// NewReaderSession returns a closed session reading from src.
func NewReaderSession(src Source) *ReaderSession {
	return &ReaderSession{src: src}
}

// Epoch returns the current generation.
func (r *ReaderSession) Epoch() uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.epoch
}

// Open resets the window to page and the one after it.
func (r *ReaderSession) Open(ctx context.Context, page int) (Position, error) {
	if page < 1 || page > LastPage {
		return Position{}, ErrInvalidPage
	}
	r.mu.Lock()
	r.epoch++
	epoch := r.epoch
	r.pages = nil
	r.visible = 0
	r.loading = false
	r.mu.Unlock()

	first, err := r.src.GetPage(ctx, page)
	if err != nil {
		return Position{}, err
	}
	loaded := []PageData{first}
	if page < LastPage {
		second, err := r.src.GetPage(ctx, page+1)
		if err == nil && len(second.Verses) > 0 {
			loaded = append(loaded, second)
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return Position{}, ErrStaleResult
	}
	r.pages = loaded
	r.visible = 0
	return r.src.PositionForPage(page), nil
}

func (r *ReaderSession) begin(after bool) (uint64, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pages) == 0 {
		return 0, 0, ErrNotOpen
	}
	if r.loading {
		return 0, 0, ErrBusy
	}
	target := r.pages[0].PageNumber - 1
	if after {
		target = r.pages[len(r.pages)-1].PageNumber + 1
	}
	if target < 1 || target > LastPage {
		return 0, 0, ErrEndOfContent
	}
	r.loading = true
	return r.epoch, target, nil
}

func (r *ReaderSession) load(ctx context.Context, after bool) (PageData, error) {
	epoch, target, err := r.begin(after)
	if err != nil {
		return PageData{}, err
	}
	page, err := r.src.GetPage(ctx, target)

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.epoch != epoch {
		return PageData{}, ErrStaleResult
	}
	r.loading = false
	if err != nil {
		return PageData{}, err
	}
	if len(page.Verses) == 0 {
		return PageData{}, ErrEndOfContent
	}
	if after {
		r.pages = append(r.pages, page)
	} else {
		r.pages = append([]PageData{page}, r.pages...)
		r.visible++
	}
	return page, nil
}

// LoadNext fetches the page after the window.
func (r *ReaderSession) LoadNext(ctx context.Context) (PageData, error) {
	return r.load(ctx, true)
}

// LoadPrevious fetches the page before the window. The visible page stays
// the same.
func (r *ReaderSession) LoadPrevious(ctx context.Context) (PageData, error) {
	return r.load(ctx, false)
}

// SetVisiblePage moves the cursor to a loaded page.
func (r *ReaderSession) SetVisiblePage(page int) (Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, p := range r.pages {
		if p.PageNumber == page {
			r.visible = i
			return r.src.PositionForPage(page), nil
		}
	}
	if len(r.pages) == 0 {
		return Position{}, ErrNotOpen
	}
	return Position{}, ErrInvalidPage
}

// Step moves the cursor one page within the loaded window, clamping at
// either edge.
func (r *ReaderSession) Step(forward bool) (Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pages) == 0 {
		return Position{}, ErrNotOpen
	}
	if forward && r.visible < len(r.pages)-1 {
		r.visible++
	} else if !forward && r.visible > 0 {
		r.visible--
	}
	return r.src.PositionForPage(r.pages[r.visible].PageNumber), nil
}

// Visible returns the page under the cursor and its position.
func (r *ReaderSession) Visible() (PageData, Position, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.pages) == 0 {
		return PageData{}, Position{}, ErrNotOpen
	}
	p := r.pages[r.visible]
	return p, r.src.PositionForPage(p.PageNumber), nil
}

// Pages lists the loaded page numbers in order.
func (r *ReaderSession) Pages() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.pages))
	for i, p := range r.pages {
		out[i] = p.PageNumber
	}
	return out
}
