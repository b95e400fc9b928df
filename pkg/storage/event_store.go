package storage

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/google/uuid"
)

// maxEventLine bounds one journal line. task.deleted_all events carry a
// snapshot of every removed copy and can get long.
const maxEventLine = 1 << 20

// FileEventStore is the audit journal: one JSON event per line, each
// chained to the hash of the line before it.
type FileEventStore struct {
	mu   sync.RWMutex
	dir  string
	path string
	head string
}

var _ domain.EventLog = (*FileEventStore)(nil)

// NewFileEventStore opens the journal under dir and picks up the chain
// head. The directory is only created on the first Append so that an
// untouched workspace still reads as uninitialized.
func NewFileEventStore(dir string) (*FileEventStore, error) {
	s := &FileEventStore{dir: dir, path: filepath.Join(dir, EventsFile)}
	err := s.scan(func(e *domain.Event) bool {
		s.head = e.Hash
		return true
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (s *FileEventStore) Path() string {
	return s.path
}

// Append stamps the event with an id, a timestamp if missing and its place
// in the chain, then writes it out.
func (s *FileEventStore) Append(event *domain.Event) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	event.PrevHash = s.head
	event.Hash = event.CalculateHash()

	if err := os.MkdirAll(s.dir, 0750); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("open events file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close events file: %w", cerr)
		}
	}()

	// Encode appends the newline.
	if err := json.NewEncoder(f).Encode(event); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	s.head = event.Hash
	return nil
}

// LoadAll returns the whole journal, oldest first.
func (s *FileEventStore) LoadAll() ([]*domain.Event, error) {
	return s.Select(nil)
}

// Select returns the events match accepts, oldest first. A nil match
// accepts everything.
func (s *FileEventStore) Select(match func(*domain.Event) bool) ([]*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Event
	err := s.scan(func(e *domain.Event) bool {
		if match == nil || match(e) {
			out = append(out, e)
		}
		return true
	})
	return out, err
}

// Last returns the newest event, or nil for an empty journal.
func (s *FileEventStore) Last() (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var last *domain.Event
	err := s.scan(func(e *domain.Event) bool {
		last = e
		return true
	})
	return last, err
}

// scan feeds each decoded line to fn until fn returns false. A missing
// file is an empty journal.
func (s *FileEventStore) scan(fn func(*domain.Event) bool) error {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("open events file: %w", err)
	}
	defer f.Close() //nolint:errcheck // read-only file

	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), maxEventLine)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		e := new(domain.Event)
		if err := json.Unmarshal(sc.Bytes(), e); err != nil {
			return fmt.Errorf("events line %d: %w", line, err)
		}
		if !fn(e) {
			return nil
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("scan events: %w", err)
	}
	return nil
}
