package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
	"github.com/felixgeelhaar/hilal/pkg/storage"
)

func newTestDashboard(t *testing.T) (dashboardModel, *application.ChecklistService) {
	t.Helper()
	svc := application.NewChecklistService(storage.NewMemoryStore(), nil, checklist.DefaultCampaign(), nil)
	svc.Now = func() time.Time { return time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC) }
	return newDashboardModel(context.Background(), svc), svc
}

func press(m dashboardModel, key tea.KeyMsg) (dashboardModel, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(dashboardModel), cmd
}

func TestDashboardModel(t *testing.T) {
	m, svc := newTestDashboard(t)
	if m.day.Date != "2025-03-05" || len(m.table.Rows()) != 7 {
		t.Fatalf("unexpected initial day %s with %d rows", m.day.Date, len(m.table.Rows()))
	}
	if view := m.View(); !strings.Contains(view, "Day 5 of 29") || !strings.Contains(view, "Completed 0/7") {
		t.Errorf("unexpected view:\n%s", view)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeySpace})
	if !m.day.Tasks[0].IsCompleted || m.table.Rows()[0][0] != "[x]" {
		t.Fatal("space should complete the selected task")
	}
	day, _ := svc.Day(context.Background(), "2025-03-05")
	if day.Status.Completed != 1 {
		t.Errorf("toggle not applied to the service, status %+v", day.Status)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRight})
	if m.day.Date != "2025-03-06" || m.day.DayIndex != 6 {
		t.Fatalf("right should move to the next day, got %s", m.day.Date)
	}
	if m.day.Tasks[0].IsCompleted {
		t.Error("a new day starts with open tasks")
	}
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")})
	if m.day.Date != "2025-03-05" || !m.day.Tasks[0].IsCompleted {
		t.Errorf("h should return to the previous day, got %s", m.day.Date)
	}

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	if !strings.Contains(m.View(), "reloaded all") {
		t.Errorf("expected reload notice:\n%s", m.View())
	}

	_, cmd := press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestDashboardModel_StoreChanged(t *testing.T) {
	m, svc := newTestDashboard(t)
	if _, err := svc.AddTask(context.Background(), "2025-03-05", checklist.NewTask{Title: "Sadaqah", Description: "Give"}); err != nil {
		t.Fatalf("add: %v", err)
	}
	next, _ := m.Update(storeChangedMsg{keys: []string{"tasksByDate"}})
	m = next.(dashboardModel)
	if len(m.table.Rows()) != 8 {
		t.Errorf("expected the new task after reload, got %d rows", len(m.table.Rows()))
	}
	if !strings.Contains(m.View(), "reloaded tasksByDate") {
		t.Error("missing reload notice")
	}
}

func TestDashboardCommand_Skip(t *testing.T) {
	t.Setenv("HILAL_SKIP_DASHBOARD_RUN", "true")
	if _, err := runCLI(t, "dashboard"); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
}

func TestServerCommands_Skip(t *testing.T) {
	t.Setenv("HILAL_SKIP_MCP_START", "true")
	t.Setenv("HILAL_SKIP_SERVE", "true")
	if _, err := runCLI(t, "mcp", "--transport", "http"); err != nil {
		t.Fatalf("mcp: %v", err)
	}
	if _, err := runCLI(t, "serve", "--addr", ":0"); err != nil {
		t.Fatalf("serve: %v", err)
	}
}
