package application

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/felixgeelhaar/hilal/pkg/domain/tasbeeh"
	"github.com/go-pkgz/lgr"
	"github.com/google/uuid"
)

// TasbeehService owns the dhikr counters, the active selection and the
// feedback settings.
type TasbeehService struct {
	mu     sync.Mutex
	blobs  *blobs
	audit  domain.AuditLogger
	log    lgr.L
	state  tasbeeh.State
	loaded bool

	Now   func() time.Time
	NewID func() string
}

func NewTasbeehService(store domain.Store, audit domain.AuditLogger, log lgr.L) *TasbeehService {
	log = loggerOrNoOp(log)
	return &TasbeehService{
		blobs: newBlobs(store, log),
		audit: audit,
		log:   log,
		Now:   time.Now,
		NewID: func() string { return uuid.New().String() },
	}
}

// Load reads the counters, seeding the defaults on first run.
func (s *TasbeehService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadLocked(ctx)
	return nil
}

func (s *TasbeehService) loadLocked(ctx context.Context) {
	list, found := load[[]tasbeeh.Tasbeeh](ctx, s.blobs, domain.KeyTasbeehs)
	if !found {
		list = tasbeeh.Defaults(s.Now())
		persist(ctx, s.blobs, domain.KeyTasbeehs, list)
	}

	st := tasbeeh.State{Tasbeehs: list, Settings: tasbeeh.DefaultSettings()}
	if active, ok := load[string](ctx, s.blobs, domain.KeyTasbeehActive); ok {
		st.ActiveID = active
	}
	if _, ok := st.Active(); !ok {
		st.ActiveID = ""
		if len(list) > 0 {
			st.ActiveID = list[0].ID
		}
	}
	if v, ok := load[bool](ctx, s.blobs, domain.KeyVibration); ok {
		st.Settings.VibrationEnabled = v
	}
	if v, ok := load[bool](ctx, s.blobs, domain.KeySound); ok {
		st.Settings.SoundEnabled = v
	}
	s.state = st
	s.loaded = true
}

func (s *TasbeehService) ensureLoaded(ctx context.Context) {
	if !s.loaded {
		s.loadLocked(ctx)
	}
}

func (s *TasbeehService) save(ctx context.Context) {
	persist(ctx, s.blobs, domain.KeyTasbeehs, s.state.Tasbeehs)
	persist(ctx, s.blobs, domain.KeyTasbeehActive, s.state.ActiveID)
}

// State returns a copy of the counters and settings.
func (s *TasbeehService) State(ctx context.Context) tasbeeh.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	return s.state.Clone()
}

// Add creates a counter and selects it.
func (s *TasbeehService) Add(ctx context.Context, in tasbeeh.New) (tasbeeh.Tasbeeh, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, t, err := tasbeeh.Add(s.state, in, s.NewID(), s.Now())
	if err != nil {
		return tasbeeh.Tasbeeh{}, err
	}
	s.state = next
	s.save(ctx)
	return t, nil
}

func (s *TasbeehService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, err := tasbeeh.Delete(s.state, id)
	if err != nil {
		return err
	}
	s.state = next
	s.save(ctx)
	return nil
}

func (s *TasbeehService) Select(ctx context.Context, id string) (tasbeeh.Tasbeeh, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, err := tasbeeh.Select(s.state, id)
	if err != nil {
		return tasbeeh.Tasbeeh{}, err
	}
	s.state = next
	persist(ctx, s.blobs, domain.KeyTasbeehActive, s.state.ActiveID)
	t, _ := s.state.Active()
	return t, nil
}

// Increment counts one on the active counter. reached is true on the count
// that meets the target; callers use it to vibrate.
func (s *TasbeehService) Increment(ctx context.Context) (t tasbeeh.Tasbeeh, reached bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, t, reached, err := tasbeeh.Increment(s.state)
	if err != nil {
		return tasbeeh.Tasbeeh{}, false, err
	}
	s.state = next
	persist(ctx, s.blobs, domain.KeyTasbeehs, s.state.Tasbeehs)
	if reached {
		record(ctx, s.audit, s.log, domain.EventTargetReached, "tasbeeh:"+t.ID, map[string]interface{}{
			"name":   t.Name,
			"target": t.Target,
		})
	}
	return t, reached, nil
}

func (s *TasbeehService) Decrement(ctx context.Context) (tasbeeh.Tasbeeh, error) {
	return s.apply(ctx, tasbeeh.Decrement)
}

func (s *TasbeehService) Reset(ctx context.Context) (tasbeeh.Tasbeeh, error) {
	return s.apply(ctx, tasbeeh.Reset)
}

func (s *TasbeehService) apply(ctx context.Context, fn func(tasbeeh.State) (tasbeeh.State, tasbeeh.Tasbeeh, error)) (tasbeeh.Tasbeeh, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, t, err := fn(s.state)
	if err != nil {
		return tasbeeh.Tasbeeh{}, err
	}
	s.state = next
	persist(ctx, s.blobs, domain.KeyTasbeehs, s.state.Tasbeehs)
	return t, nil
}

// SetCount overwrites any counter's count.
func (s *TasbeehService) SetCount(ctx context.Context, id string, count int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	next, err := tasbeeh.SetCount(s.state, id, count)
	if err != nil {
		return err
	}
	s.state = next
	persist(ctx, s.blobs, domain.KeyTasbeehs, s.state.Tasbeehs)
	return nil
}

// UpdateSettings stores the vibration and sound toggles.
func (s *TasbeehService) UpdateSettings(ctx context.Context, settings tasbeeh.Settings) tasbeeh.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoaded(ctx)
	s.state.Settings = settings
	persist(ctx, s.blobs, domain.KeyVibration, settings.VibrationEnabled)
	persist(ctx, s.blobs, domain.KeySound, settings.SoundEnabled)
	return settings
}
