package application

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain"
)

type AuditService struct {
	log domain.EventLog
	Now func() time.Time

	mu   sync.RWMutex
	subs map[int]func(*domain.Event)
	next int
}

// Compile-time check that AuditService implements AuditLogger
var _ domain.AuditLogger = (*AuditService)(nil)

func NewAuditService(log domain.EventLog) *AuditService {
	return &AuditService{log: log, Now: time.Now, subs: map[int]func(*domain.Event){}}
}

// Subscribe registers fn to receive every event after it is appended. fn
// runs on the logging goroutine and must not block. The returned func
// removes the subscription.
func (s *AuditService) Subscribe(fn func(*domain.Event)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.next
	s.next++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Log appends an event. The event log assigns the id and chains the hash.
func (s *AuditService) Log(action, aggregate, actor string, metadata map[string]interface{}) error {
	event := &domain.Event{
		Timestamp: s.Now().UTC(),
		Action:    action,
		Aggregate: aggregate,
		Actor:     actor,
		Metadata:  metadata,
	}
	if err := s.log.Append(event); err != nil {
		return err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, fn := range s.subs {
		fn(event)
	}
	return nil
}

func (s *AuditService) GetTimeline() ([]*domain.Event, error) {
	return s.log.LoadAll()
}

// Filter returns the events with the given action, oldest first.
func (s *AuditService) Filter(action string) ([]*domain.Event, error) {
	events, err := s.log.LoadAll()
	if err != nil {
		return nil, err
	}
	var out []*domain.Event
	for _, e := range events {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out, nil
}

// VerifyIntegrity reports broken links in the hash chain. An empty result
// means the trail is intact.
func (s *AuditService) VerifyIntegrity() ([]string, error) {
	events, err := s.log.LoadAll()
	if err != nil {
		return nil, err
	}
	return domain.VerifyChain(events), nil
}
