package application_test

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/application"
	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
)

var fixedNow = time.Date(2025, 3, 5, 10, 0, 0, 0, time.UTC)

func newChecklist(t *testing.T, store *MockStore) (*application.ChecklistService, *MockAudit, *captureLog) {
	t.Helper()
	audit := &MockAudit{}
	logs := &captureLog{}
	svc := application.NewChecklistService(store, audit, checklist.DefaultCampaign(), logs)
	svc.Now = func() time.Time { return fixedNow }
	return svc, audit, logs
}

func TestChecklistService_LoadSeedsAndMaterializesToday(t *testing.T) {
	store := NewMockStore()
	svc, audit, _ := newChecklist(t, store)
	ctx := context.Background()

	day, err := svc.Day(ctx, "")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if day.Date != "2025-03-05" || day.DayIndex != 5 || day.Length != 29 {
		t.Errorf("unexpected day %s index %d length %d", day.Date, day.DayIndex, day.Length)
	}
	if len(day.Tasks) != checklist.DefaultCatalogSize {
		t.Fatalf("expected %d tasks, got %d", checklist.DefaultCatalogSize, len(day.Tasks))
	}

	var recurring []checklist.Task
	if err := json.Unmarshal([]byte(store.Data[domain.KeyRecurringTasks]), &recurring); err != nil {
		t.Fatalf("recurring blob not persisted: %v", err)
	}
	if len(recurring) != 7 || recurring[0].CreatedAt != "2025-03-01" {
		t.Errorf("unexpected seeded templates %+v", recurring)
	}
	if !strings.Contains(store.Data[domain.KeyTasksByDate], "2025-03-05") {
		t.Error("materialized day not persisted")
	}
	if got := audit.Actions(); len(got) != 1 || got[0] != domain.EventRecurringSeeded {
		t.Errorf("expected seed event, got %v", got)
	}

	// A second service over the same store must not seed again.
	again, audit2, _ := newChecklist(t, store)
	if err := again.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(audit2.Actions()) != 0 {
		t.Errorf("reseeded on second load: %v", audit2.Actions())
	}
}

func TestChecklistService_LoadUsesStoredActiveDate(t *testing.T) {
	store := NewMockStore()
	store.Data[domain.KeyActiveDate] = `"2025-03-10"`
	svc, _, _ := newChecklist(t, store)

	day, err := svc.Day(context.Background(), "")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if day.Date != "2025-03-10" || day.DayIndex != 10 || !day.Active {
		t.Errorf("unexpected active day %+v", day)
	}
}

func TestChecklistService_AddRecurringAndDuplicate(t *testing.T) {
	store := NewMockStore()
	svc, audit, _ := newChecklist(t, store)
	ctx := application.WithActor(context.Background(), "cli")

	out, err := svc.AddTask(ctx, "", checklist.NewTask{
		Title:       "Sadaqah",
		Description: "Give charity",
		Recurring:   true,
	})
	if err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}
	if out.Warning != nil || out.Date != "2025-03-05" {
		t.Errorf("unexpected outcome %+v", out)
	}
	recurring, _ := svc.Recurring(ctx)
	if len(recurring) != 8 || recurring[7].CreatedAt != "2025-03-05" {
		t.Fatalf("template not appended: %+v", recurring)
	}

	dup, err := svc.AddTask(ctx, "2025-03-06", checklist.NewTask{
		Title:       "fajr salah",
		Description: "again",
		Recurring:   true,
	})
	if err != nil {
		t.Fatalf("duplicate add should not fail: %v", err)
	}
	if dup.Warning == nil || dup.Warning.Existing != 1 {
		t.Fatalf("expected duplicate warning, got %+v", dup.Warning)
	}
	if !errors.Is(dup.Warning, checklist.ErrDuplicateRecurring) {
		t.Error("warning should match ErrDuplicateRecurring")
	}
	recurring, _ = svc.Recurring(ctx)
	if len(recurring) != 8 {
		t.Errorf("duplicate reached templates: %d", len(recurring))
	}
	day, _ := svc.Day(ctx, "2025-03-06")
	last := day.Tasks[len(day.Tasks)-1]
	if last.Title != "fajr salah" {
		t.Errorf("duplicate not added to its date: %+v", last)
	}

	events := audit.Events
	added := events[len(events)-1]
	if added.Action != domain.EventTaskAdded || added.Actor != "cli" || added.Metadata["duplicate"] != true {
		t.Errorf("unexpected audit event %+v", added)
	}
}

func TestChecklistService_ValidationLeavesStateUntouched(t *testing.T) {
	store := NewMockStore()
	svc, _, _ := newChecklist(t, store)
	ctx := context.Background()
	before, _ := svc.Snapshot(ctx)
	writes := store.Writes[domain.KeyTasksByDate]

	tests := []checklist.NewTask{
		{Title: "", Description: "desc"},
		{Title: "t", Description: " "},
		{Title: "t", Description: "d", HasChecklist: true, Items: []string{"a", ""}},
	}
	for _, in := range tests {
		if _, err := svc.AddTask(ctx, "", in); !errors.Is(err, checklist.ErrValidation) {
			t.Errorf("AddTask(%+v) expected ValidationError, got %v", in, err)
		}
	}

	after, _ := svc.Snapshot(ctx)
	if len(after.TasksByDate["2025-03-05"]) != len(before.TasksByDate["2025-03-05"]) {
		t.Error("rejected add changed the day")
	}
	if store.Writes[domain.KeyTasksByDate] != writes {
		t.Error("rejected add wrote to the store")
	}
}

func TestChecklistService_ToggleCascadesAndPersists(t *testing.T) {
	store := NewMockStore()
	svc, _, _ := newChecklist(t, store)
	ctx := context.Background()

	task, err := svc.ToggleTask(ctx, "", 1)
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !task.IsCompleted || task.ItemsDone() != 3 {
		t.Errorf("cascade failed: %+v", task)
	}

	task, err = svc.ToggleChecklistItem(ctx, "", 1, "1-2")
	if err != nil {
		t.Fatalf("ToggleChecklistItem failed: %v", err)
	}
	if task.IsCompleted {
		t.Error("task should be incomplete after unchecking an item")
	}

	var byDate checklist.TasksByDate
	_ = json.Unmarshal([]byte(store.Data[domain.KeyTasksByDate]), &byDate)
	if byDate["2025-03-05"][0].ChecklistItems[1].IsCompleted {
		t.Error("item toggle not persisted")
	}

	if _, err := svc.ToggleTask(ctx, "", 999); !errors.Is(err, checklist.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if _, err := svc.ToggleChecklistItem(ctx, "", 1, "nope"); !errors.Is(err, checklist.ErrItemNotFound) {
		t.Errorf("expected ErrItemNotFound, got %v", err)
	}
	if _, err := svc.ToggleTask(ctx, "05/03/2025", 1); !errors.Is(err, checklist.ErrInvalidDate) {
		t.Errorf("expected ErrInvalidDate, got %v", err)
	}
}

func TestChecklistService_ToggleOnFreshDateMaterializes(t *testing.T) {
	svc, _, _ := newChecklist(t, NewMockStore())
	ctx := context.Background()
	task, err := svc.ToggleTask(ctx, "2025-03-20", 3)
	if err != nil {
		t.Fatalf("ToggleTask failed: %v", err)
	}
	if !task.IsCompleted {
		t.Error("expected task completed")
	}
	snap, _ := svc.Snapshot(ctx)
	if len(snap.TasksByDate["2025-03-20"]) != 7 {
		t.Error("fresh date not materialized")
	}
	if snap.ActiveDate != "2025-03-05" {
		t.Error("toggling another date must not change the active date")
	}
}

func TestChecklistService_DeleteAllRecordsHistory(t *testing.T) {
	store := NewMockStore()
	svc, audit, _ := newChecklist(t, store)
	ctx := context.Background()

	if _, err := svc.ChangeActiveDate(ctx, "2025-03-04"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.ToggleTask(ctx, "2025-03-04", 3); err != nil {
		t.Fatal(err)
	}

	if err := svc.DeleteTask(ctx, "", 3, checklist.DeleteAll); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}

	snap, _ := svc.Snapshot(ctx)
	for date, tasks := range snap.TasksByDate {
		for _, task := range tasks {
			if task.ID == 3 {
				t.Errorf("task 3 still on %s", date)
			}
		}
	}
	if _, ok := snap.TasksByDate["2025-03-05"]; !ok {
		t.Error("date keys must survive delete-all")
	}
	if strings.Contains(store.Data[domain.KeyRecurringTasks], "Quran Reading") {
		t.Error("template not removed from persisted set")
	}

	last := audit.Events[len(audit.Events)-1]
	if last.Action != domain.EventTaskDeletedAll || last.Aggregate != "task:3" {
		t.Fatalf("unexpected event %+v", last)
	}
	history, ok := last.Metadata["history"].(map[string]bool)
	if !ok {
		t.Fatalf("history missing: %+v", last.Metadata)
	}
	if !history["2025-03-04"] || history["2025-03-05"] {
		t.Errorf("unexpected history %v", history)
	}
}

func TestChecklistService_DeleteCurrent(t *testing.T) {
	svc, audit, _ := newChecklist(t, NewMockStore())
	ctx := context.Background()

	if err := svc.DeleteTask(ctx, "", 7, checklist.DeleteCurrent); err != nil {
		t.Fatalf("DeleteTask failed: %v", err)
	}
	day, _ := svc.Day(ctx, "")
	if len(day.Tasks) != 6 {
		t.Errorf("expected 6 tasks, got %d", len(day.Tasks))
	}
	next, _ := svc.Day(ctx, "2025-03-06")
	if len(next.Tasks) != 7 {
		t.Error("delete-current must not touch templates")
	}
	if err := svc.DeleteTask(ctx, "", 7, checklist.DeleteCurrent); !errors.Is(err, checklist.ErrTaskNotFound) {
		t.Errorf("expected ErrTaskNotFound, got %v", err)
	}
	if got := audit.Actions(); got[len(got)-1] != domain.EventTaskDeleted {
		t.Errorf("expected task.deleted, got %v", got)
	}
}

func TestChecklistService_StorageFailuresAreSwallowed(t *testing.T) {
	store := NewMockStore()
	svc, _, logs := newChecklist(t, store)
	ctx := context.Background()
	if err := svc.Load(ctx); err != nil {
		t.Fatal(err)
	}

	store.SaveError = errors.New("disk full")
	task, err := svc.ToggleTask(ctx, "", 4)
	if err != nil {
		t.Fatalf("storage failure must not surface: %v", err)
	}
	if !task.IsCompleted {
		t.Error("in-memory state should still change")
	}
	day, _ := svc.Day(ctx, "")
	if !day.Tasks[3].IsCompleted {
		t.Error("in-memory state rolled back")
	}

	found := false
	for _, line := range logs.Lines() {
		if strings.HasPrefix(line, "[WARN] persist tasksByDate failed") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected persist warning, got %v", logs.Lines())
	}
}

func TestChecklistService_LoadErrorFallsBackToSeed(t *testing.T) {
	store := NewMockStore()
	store.LoadError = errors.New("unreachable")
	svc, _, _ := newChecklist(t, store)

	day, err := svc.Day(context.Background(), "")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if len(day.Tasks) != 7 {
		t.Errorf("expected seeded tasks, got %d", len(day.Tasks))
	}
	if len(store.Writes) != 0 {
		t.Errorf("nothing should be written after failed reads, got %v", store.Writes)
	}
}

const customTemplate = `[{"id":42,"title":"My custom","description":"","hasChecklist":false,"checklistItems":[],"isCompleted":false,"createdAt":"2025-03-01"}]`

func TestChecklistService_FailedReadKeepsStoredData(t *testing.T) {
	history := `{"2025-03-03":[{"id":42,"title":"My custom","description":"","hasChecklist":false,"checklistItems":[],"isCompleted":true}]}`
	tests := []struct {
		name  string
		setup func(*MockStore)
		keep  string
	}{
		{
			name: "unreadable templates",
			setup: func(m *MockStore) {
				m.Data[domain.KeyRecurringTasks] = customTemplate
				m.Data[domain.KeyTasksByDate] = history
				m.FailKeys = map[string]error{domain.KeyRecurringTasks: errors.New("disk busy")}
			},
			keep: domain.KeyRecurringTasks,
		},
		{
			name: "unreadable history",
			setup: func(m *MockStore) {
				m.Data[domain.KeyRecurringTasks] = customTemplate
				m.Data[domain.KeyTasksByDate] = history
				m.FailKeys = map[string]error{domain.KeyTasksByDate: errors.New("disk busy")}
			},
			keep: domain.KeyTasksByDate,
		},
		{
			name: "corrupt history",
			setup: func(m *MockStore) {
				m.Data[domain.KeyRecurringTasks] = customTemplate
				m.Data[domain.KeyTasksByDate] = `{"2025-03-03":[],"2025-03-04":[{"id":42,"title":"My custom","description":"","hasChecklist":false,"checklistItems":[],"isCompleted":false,"createdAt":"yesterday"}]}`
			},
			keep: domain.KeyTasksByDate,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := NewMockStore()
			tt.setup(store)
			before := store.Data[tt.keep]
			svc, audit, _ := newChecklist(t, store)
			ctx := context.Background()

			day, err := svc.Day(ctx, "")
			if err != nil {
				t.Fatalf("Day failed: %v", err)
			}
			if _, err := svc.ToggleTask(ctx, "", day.Tasks[0].ID); err != nil {
				t.Fatalf("ToggleTask failed: %v", err)
			}
			if _, err := svc.Day(ctx, "2025-03-06"); err != nil {
				t.Fatalf("Day failed: %v", err)
			}

			if got := store.Data[tt.keep]; got != before {
				t.Errorf("%s overwritten:\nbefore %s\nafter  %s", tt.keep, before, got)
			}
			if store.Writes[tt.keep] != 0 {
				t.Errorf("expected no writes to %s, got %d", tt.keep, store.Writes[tt.keep])
			}
			for _, a := range audit.Actions() {
				if a == domain.EventRecurringSeeded {
					t.Error("seeded over existing templates")
				}
			}
		})
	}
}

func TestChecklistService_ReloadReleasesHeldKey(t *testing.T) {
	store := NewMockStore()
	store.Data[domain.KeyRecurringTasks] = customTemplate
	store.FailKeys = map[string]error{domain.KeyTasksByDate: errors.New("disk busy")}
	svc, _, _ := newChecklist(t, store)
	ctx := context.Background()

	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if store.Writes[domain.KeyTasksByDate] != 0 {
		t.Fatal("history written while unreadable")
	}

	store.FailKeys = nil
	if err := svc.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	day, err := svc.Day(ctx, "")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if len(day.Tasks) != 1 || day.Tasks[0].Title != "My custom" {
		t.Errorf("expected the stored template on today, got %+v", day.Tasks)
	}
	if !strings.Contains(store.Data[domain.KeyTasksByDate], "2025-03-05") {
		t.Error("history not written after a successful read")
	}
}

func TestChecklistService_InvalidStoredActiveDate(t *testing.T) {
	store := NewMockStore()
	store.Data[domain.KeyActiveDate] = `"2025-02-30"`
	svc, _, logs := newChecklist(t, store)
	ctx := context.Background()

	day, err := svc.Day(ctx, "")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if day.Date != "2025-03-05" {
		t.Errorf("expected today, got %s", day.Date)
	}
	warned := false
	for _, l := range logs.Lines() {
		if strings.HasPrefix(l, "[WARN]") && strings.Contains(l, "2025-02-30") {
			warned = true
		}
	}
	if !warned {
		t.Errorf("expected a warning, got %v", logs.Lines())
	}

	if _, err := svc.ChangeActiveDate(ctx, "2025-03-09"); err != nil {
		t.Fatalf("ChangeActiveDate failed: %v", err)
	}
	if got := store.Data[domain.KeyActiveDate]; got != `"2025-03-09"` {
		t.Errorf("active date not repaired, stored %s", got)
	}
}

func TestChecklistService_CorruptBlobIsIgnored(t *testing.T) {
	store := NewMockStore()
	store.Data[domain.KeyTasksByDate] = `{"2025-03-05": "oops"}`
	svc, _, logs := newChecklist(t, store)

	day, err := svc.Day(context.Background(), "")
	if err != nil {
		t.Fatalf("Day failed: %v", err)
	}
	if len(day.Tasks) != 7 {
		t.Errorf("expected a fresh day, got %d tasks", len(day.Tasks))
	}
	if lines := logs.Lines(); len(lines) == 0 || !strings.Contains(lines[0], "load tasksByDate failed") {
		t.Errorf("expected load warning, got %v", lines)
	}
}

func TestChecklistService_ChangeActiveDate(t *testing.T) {
	store := NewMockStore()
	svc, _, _ := newChecklist(t, store)
	ctx := context.Background()

	tests := []struct {
		date    string
		index   int
		wantErr error
	}{
		{"2025-02-20", 0, nil},
		{"2025-03-01", 1, nil},
		{"2025-03-29", 29, nil},
		{"2025-04-15", 29, nil},
		{"not-a-date", 0, checklist.ErrInvalidDate},
	}
	for _, tt := range tests {
		day, err := svc.ChangeActiveDate(ctx, tt.date)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s: expected %v, got %v", tt.date, tt.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("%s: %v", tt.date, err)
		}
		if day.DayIndex != tt.index || !day.Active {
			t.Errorf("%s: index %d active %v, want %d", tt.date, day.DayIndex, day.Active, tt.index)
		}
	}
	if store.Data[domain.KeyActiveDate] != `"2025-04-15"` {
		t.Errorf("active date not persisted: %s", store.Data[domain.KeyActiveDate])
	}
}

func TestChecklistService_Calendar(t *testing.T) {
	svc, _, _ := newChecklist(t, NewMockStore())
	ctx := context.Background()
	for _, id := range []int64{1, 2, 3, 4, 5, 6, 7} {
		if _, err := svc.ToggleTask(ctx, "", id); err != nil {
			t.Fatal(err)
		}
	}

	days, err := svc.Calendar(ctx)
	if err != nil {
		t.Fatalf("Calendar failed: %v", err)
	}
	if len(days) != 5 || days[0].Date != "2025-03-01" || days[4].Date != "2025-03-05" {
		t.Fatalf("unexpected calendar range %+v", days)
	}
	today := days[4]
	if !today.Completed || !today.Active || today.Status != (checklist.Status{Completed: 7, Total: 7}) {
		t.Errorf("unexpected today cell %+v", today)
	}
	// Before the earliest stored date nothing is projected.
	if days[0].Status != (checklist.Status{}) || days[0].Completed {
		t.Errorf("unexpected first cell %+v", days[0])
	}
}
