package tasbeeh_test

import (
	"errors"
	"testing"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain/tasbeeh"
)

var now = time.Date(2025, 3, 2, 20, 0, 0, 0, time.UTC)

func defaults() tasbeeh.State {
	return tasbeeh.State{Tasbeehs: tasbeeh.Defaults(now), ActiveID: "1", Settings: tasbeeh.DefaultSettings()}
}

func TestAdd(t *testing.T) {
	s, added, err := tasbeeh.Add(defaults(), tasbeeh.New{Name: "  Astaghfirullah ", Target: 100}, "x1", now)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	if added.Name != "Astaghfirullah" || added.Color != tasbeeh.Palette[0] {
		t.Errorf("unexpected counter: %+v", added)
	}
	if s.ActiveID != "x1" || len(s.Tasbeehs) != 4 {
		t.Errorf("expected new counter active, got %s (%d)", s.ActiveID, len(s.Tasbeehs))
	}
}

func TestAdd_Validation(t *testing.T) {
	tests := []struct {
		name string
		in   tasbeeh.New
		want error
	}{
		{"blank name", tasbeeh.New{Name: " "}, tasbeeh.ErrNameRequired},
		{"negative target", tasbeeh.New{Name: "a", Target: -1}, tasbeeh.ErrInvalidTarget},
		{"negative count", tasbeeh.New{Name: "a", Count: -3}, tasbeeh.ErrInvalidCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, err := tasbeeh.Add(defaults(), tt.in, "x", now)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if len(s.Tasbeehs) != 3 {
				t.Error("state changed on rejected add")
			}
		})
	}
}

func TestDelete_ActiveFallsBackToFirst(t *testing.T) {
	s := defaults()
	s, _ = tasbeeh.Select(s, "2")
	s, err := tasbeeh.Delete(s, "2")
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if s.ActiveID != "1" {
		t.Errorf("expected fallback to first, got %q", s.ActiveID)
	}

	s, _ = tasbeeh.Delete(s, "1")
	s, _ = tasbeeh.Delete(s, "3")
	if s.ActiveID != "" {
		t.Errorf("expected no active counter, got %q", s.ActiveID)
	}
	if _, ok := s.Active(); ok {
		t.Error("Active should report none")
	}
}

func TestDelete_InactiveKeepsSelection(t *testing.T) {
	s, _ := tasbeeh.Delete(defaults(), "3")
	if s.ActiveID != "1" {
		t.Errorf("expected selection kept, got %q", s.ActiveID)
	}
	if _, err := tasbeeh.Delete(s, "3"); !errors.Is(err, tasbeeh.ErrTasbeehNotFound) {
		t.Errorf("expected ErrTasbeehNotFound, got %v", err)
	}
}

func TestIncrement_ReachesTargetOnce(t *testing.T) {
	s := defaults()
	hits := 0
	for i := 0; i < 40; i++ {
		var reached bool
		var err error
		s, _, reached, err = tasbeeh.Increment(s)
		if err != nil {
			t.Fatalf("Increment failed: %v", err)
		}
		if reached {
			hits++
		}
	}
	if hits != 1 {
		t.Errorf("expected target reached once, got %d", hits)
	}
	active, _ := s.Active()
	if active.Count != 40 || !active.Reached() {
		t.Errorf("unexpected counter %+v", active)
	}
}

func TestDecrement_FloorsAtZero(t *testing.T) {
	s, c, err := tasbeeh.Decrement(defaults())
	if err != nil {
		t.Fatalf("Decrement failed: %v", err)
	}
	if c.Count != 0 || s.Tasbeehs[0].Count != 0 {
		t.Errorf("expected 0, got %d", c.Count)
	}
}

func TestReset(t *testing.T) {
	s := defaults()
	s, _, _, _ = tasbeeh.Increment(s)
	s, _, _, _ = tasbeeh.Increment(s)
	s, c, _ := tasbeeh.Reset(s)
	if c.Count != 0 || s.Tasbeehs[0].Count != 0 {
		t.Errorf("expected reset count, got %d", c.Count)
	}
}

func TestNoActive(t *testing.T) {
	s := tasbeeh.State{}
	if _, _, _, err := tasbeeh.Increment(s); !errors.Is(err, tasbeeh.ErrNoActive) {
		t.Errorf("expected ErrNoActive, got %v", err)
	}
}

func TestSetCount(t *testing.T) {
	s, err := tasbeeh.SetCount(defaults(), "3", 12)
	if err != nil {
		t.Fatalf("SetCount failed: %v", err)
	}
	if s.Tasbeehs[2].Count != 12 {
		t.Errorf("expected 12, got %d", s.Tasbeehs[2].Count)
	}
	if _, err := tasbeeh.SetCount(s, "3", -1); !errors.Is(err, tasbeeh.ErrInvalidCount) {
		t.Errorf("expected ErrInvalidCount, got %v", err)
	}
}

func TestProgress(t *testing.T) {
	c := tasbeeh.Tasbeeh{Target: 33, Count: 11}
	if p := c.Progress(); p < 33.3 || p > 33.4 {
		t.Errorf("unexpected progress %v", p)
	}
	if (tasbeeh.Tasbeeh{Count: 5}).Progress() != 0 {
		t.Error("open-ended counter should report 0")
	}
}
