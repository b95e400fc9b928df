package quran_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain/quran"
)

func TestViewMachine(t *testing.T) {
	m, err := quran.NewViewMachine("", nil)
	if err != nil {
		t.Fatalf("NewViewMachine failed: %v", err)
	}
	if m.Current() != quran.ViewList {
		t.Fatalf("expected list, got %s", m.Current())
	}

	steps := []struct {
		event string
		want  string
	}{
		{quran.EventSearch, quran.ViewSearch},
		{quran.EventClear, quran.ViewList},
		{quran.EventSearch, quran.ViewSearch},
		{quran.EventOpen, quran.ViewReader},
		{quran.EventBack, quran.ViewList},
	}
	for _, s := range steps {
		if err := m.Send(s.event); err != nil {
			t.Fatalf("%s failed: %v", s.event, err)
		}
		if m.Current() != s.want {
			t.Fatalf("after %s expected %s, got %s", s.event, s.want, m.Current())
		}
	}

	if err := m.Send(quran.EventBack); err == nil {
		t.Error("expected error for back from list")
	}
}

func TestViewMachine_GuardBlocksOpen(t *testing.T) {
	m, _ := quran.NewViewMachine(quran.ViewList, func() bool { return false })
	if err := m.Send(quran.EventOpen); err == nil {
		t.Error("expected guarded open to fail")
	}
	if m.Current() != quran.ViewList {
		t.Errorf("view changed despite guard: %s", m.Current())
	}
}

func TestPushRecent(t *testing.T) {
	at := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	var list []quran.RecentRead
	list = quran.PushRecent(list, quran.RecentRead{ID: "a", Surah: 1, Page: 1, Timestamp: at})
	list = quran.PushRecent(list, quran.RecentRead{ID: "b", Surah: 2, Page: 2, Timestamp: at})
	list = quran.PushRecent(list, quran.RecentRead{ID: "c", Surah: 2, Page: 3, Timestamp: at})
	list = quran.PushRecent(list, quran.RecentRead{ID: "d", Surah: 2, Page: 2, Timestamp: at})

	ids := ""
	for _, r := range list {
		ids += r.ID
	}
	if ids != "dca" {
		t.Errorf("expected dca, got %s", ids)
	}

	list = quran.PushRecent(list, quran.RecentRead{ID: "e", Surah: 5, Page: 106, Timestamp: at})
	if len(list) != quran.MaxRecent || list[0].ID != "e" || list[2].ID != "c" {
		t.Errorf("unexpected trimmed list %+v", list)
	}
}

func TestSettingsFontSize(t *testing.T) {
	s := quran.DefaultSettings()
	if s.FontSize != 18 || !s.ShowArabic || s.DarkMode {
		t.Fatalf("unexpected defaults %+v", s)
	}
	if _, err := s.WithFontSize(40); err == nil {
		t.Error("expected range error")
	}
	s, _ = s.WithFontSize(quran.MaxFontSize)
	if s.StepFontSize(true).FontSize != quran.MaxFontSize {
		t.Error("step should not exceed max")
	}
	if s.StepFontSize(false).FontSize != quran.MaxFontSize-quran.FontSizeStep {
		t.Error("step down failed")
	}
}
