package application_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/felixgeelhaar/hilal/pkg/domain"
)

// MockStore is an in-memory domain.Store with injectable failures.
type MockStore struct {
	mu        sync.Mutex
	Data      map[string]string
	Writes    map[string]int
	SaveError error
	LoadError error
	// FailKeys makes Get fail for the listed keys only.
	FailKeys map[string]error
}

func NewMockStore() *MockStore {
	return &MockStore{Data: map[string]string{}, Writes: map[string]int{}}
}

func (m *MockStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadError != nil {
		return "", false, m.LoadError
	}
	if err := m.FailKeys[key]; err != nil {
		return "", false, err
	}
	v, ok := m.Data[key]
	return v, ok, nil
}

func (m *MockStore) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Writes[key]++
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Data[key] = value
	return nil
}

// MockAudit records logged actions.
type MockAudit struct {
	mu     sync.Mutex
	Events []domain.Event
	LogErr error
}

func (m *MockAudit) Log(action, aggregate, actor string, metadata map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, domain.Event{Action: action, Aggregate: aggregate, Actor: actor, Metadata: metadata})
	return m.LogErr
}

func (m *MockAudit) Actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.Events))
	for i, e := range m.Events {
		out[i] = e.Action
	}
	return out
}

// captureLog collects lgr output lines.
type captureLog struct {
	mu    sync.Mutex
	lines []string
}

func (c *captureLog) Logf(format string, args ...interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = append(c.lines, fmt.Sprintf(format, args...))
}

func (c *captureLog) Lines() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.lines...)
}
