package application

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/hilal/pkg/domain"
	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
	"github.com/go-pkgz/lgr"
)

// ChecklistService owns the checklist state. Every mutation runs a reducer
// under the lock and then persists the changed blobs best-effort.
type ChecklistService struct {
	mu       sync.Mutex
	blobs    *blobs
	audit    domain.AuditLogger
	log      lgr.L
	campaign checklist.Campaign
	state    checklist.State
	loaded   bool

	Now func() time.Time
}

// DayView is one date's list with its position in the campaign.
type DayView struct {
	Date     string           `json:"date"`
	DayIndex int              `json:"dayIndex"`
	Length   int              `json:"length"`
	Active   bool             `json:"active"`
	Tasks    []checklist.Task `json:"tasks"`
	Status   checklist.Status `json:"status"`
}

// CalendarDay is one cell of the campaign calendar.
type CalendarDay struct {
	Date      string           `json:"date"`
	DayIndex  int              `json:"dayIndex"`
	Status    checklist.Status `json:"status"`
	Completed bool             `json:"completed"`
	Active    bool             `json:"active"`
}

// AddOutcome is the result of AddTask. Warning is set when a recurring add
// collided with an existing template and was kept on the date only.
type AddOutcome struct {
	Task    checklist.Task              `json:"task"`
	Date    string                      `json:"date"`
	Warning *checklist.DuplicateWarning `json:"warning,omitempty"`
}

func NewChecklistService(store domain.Store, audit domain.AuditLogger, campaign checklist.Campaign, log lgr.L) *ChecklistService {
	log = loggerOrNoOp(log)
	return &ChecklistService{
		blobs:    newBlobs(store, log),
		audit:    audit,
		log:      log,
		campaign: campaign,
		Now:      time.Now,
	}
}

// Campaign returns the window day indexes are measured against.
func (s *ChecklistService) Campaign() checklist.Campaign {
	return s.campaign
}

func (s *ChecklistService) today() string {
	return checklist.FormatDate(s.Now())
}

// Load reads persisted state, seeds the recurring set on first run and
// activates the stored active date, or today. Load is called lazily by every
// other operation; calling it again rereads the store.
func (s *ChecklistService) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked(ctx)
}

func (s *ChecklistService) loadLocked(ctx context.Context) error {
	byDate, _ := load[checklist.TasksByDate](ctx, s.blobs, domain.KeyTasksByDate)
	if byDate == nil {
		byDate = checklist.TasksByDate{}
	}
	recurring, found := load[[]checklist.Task](ctx, s.blobs, domain.KeyRecurringTasks)
	switch {
	case found:
	case s.blobs.Held(domain.KeyRecurringTasks):
		// Work from the defaults in memory; the stored templates stay untouched.
		recurring = checklist.Seed(s.campaign.StartDate())
	default:
		recurring = checklist.Seed(s.campaign.StartDate())
		persist(ctx, s.blobs, domain.KeyRecurringTasks, recurring)
		record(ctx, s.audit, s.log, domain.EventRecurringSeeded, "recurring", map[string]interface{}{
			"count":     len(recurring),
			"createdAt": s.campaign.StartDate(),
		})
		s.log.Logf("[INFO] seeded %d recurring tasks", len(recurring))
	}

	active, found := load[string](ctx, s.blobs, domain.KeyActiveDate)
	if !found {
		active = s.today()
	} else if _, err := checklist.ParseDate(active); err != nil {
		s.log.Logf("[WARN] stored active date %q is not a date, using today: %v", active, err)
		active = s.today()
	}

	base := checklist.State{TasksByDate: byDate, Recurring: recurring}
	next, err := checklist.ChangeActiveDate(base, active, s.campaign)
	if err != nil {
		return err
	}
	s.state = next
	s.loaded = true
	if _, stored := byDate[active]; !stored {
		persist(ctx, s.blobs, domain.KeyTasksByDate, s.state.TasksByDate)
	}
	s.log.Logf("[DEBUG] checklist loaded, active=%s day=%d", s.state.ActiveDate, s.state.DayIndex)
	return nil
}

func (s *ChecklistService) ensureLoaded(ctx context.Context) error {
	if s.loaded {
		return nil
	}
	return s.loadLocked(ctx)
}

// resolveDate defaults an empty date to the active one and materializes a
// date that has no stored list yet.
func (s *ChecklistService) resolveDate(ctx context.Context, date string) (string, error) {
	if date == "" {
		return s.state.ActiveDate, nil
	}
	if _, err := checklist.ParseDate(date); err != nil {
		return "", err
	}
	if _, ok := s.state.TasksByDate[date]; !ok {
		next := s.state.Clone()
		next.TasksByDate[date] = checklist.Materialize(date, next.Recurring)
		s.state = next
		persist(ctx, s.blobs, domain.KeyTasksByDate, s.state.TasksByDate)
	}
	return date, nil
}

func (s *ChecklistService) view(date string) DayView {
	tasks, _ := s.state.Day(date)
	d, _ := checklist.ParseDate(date)
	return DayView{
		Date:     date,
		DayIndex: s.campaign.DayIndex(d),
		Length:   s.campaign.Length(),
		Active:   date == s.state.ActiveDate,
		Tasks:    tasks,
		Status:   checklist.CompletionStatus(date, s.state.TasksByDate, s.state.Recurring),
	}
}

// Day returns the list for date, or for the active date when date is empty.
func (s *ChecklistService) Day(ctx context.Context, date string) (DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return DayView{}, err
	}
	date, err := s.resolveDate(ctx, date)
	if err != nil {
		return DayView{}, err
	}
	return s.view(date), nil
}

// ToggleTask flips a task and cascades the value to its checklist items.
func (s *ChecklistService) ToggleTask(ctx context.Context, date string, id int64) (checklist.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return checklist.Task{}, err
	}
	date, err := s.resolveDate(ctx, date)
	if err != nil {
		return checklist.Task{}, err
	}
	next, err := checklist.ToggleTask(s.state, date, id)
	if err != nil {
		return checklist.Task{}, fmt.Errorf("toggle task %d on %s: %w", id, date, err)
	}
	s.state = next
	persist(ctx, s.blobs, domain.KeyTasksByDate, s.state.TasksByDate)
	return s.task(date, id), nil
}

// ToggleChecklistItem flips one item and recomputes its task.
func (s *ChecklistService) ToggleChecklistItem(ctx context.Context, date string, id int64, itemID string) (checklist.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return checklist.Task{}, err
	}
	date, err := s.resolveDate(ctx, date)
	if err != nil {
		return checklist.Task{}, err
	}
	next, err := checklist.ToggleChecklistItem(s.state, date, id, itemID)
	if err != nil {
		return checklist.Task{}, fmt.Errorf("toggle item %s of task %d on %s: %w", itemID, id, date, err)
	}
	s.state = next
	persist(ctx, s.blobs, domain.KeyTasksByDate, s.state.TasksByDate)
	return s.task(date, id), nil
}

func (s *ChecklistService) task(date string, id int64) checklist.Task {
	for _, t := range s.state.TasksByDate[date] {
		if t.ID == id {
			return t.Clone()
		}
	}
	return checklist.Task{}
}

// AddTask validates and appends a task to date. A duplicate recurring title
// is not an error; the outcome carries the warning instead.
func (s *ChecklistService) AddTask(ctx context.Context, date string, in checklist.NewTask) (AddOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return AddOutcome{}, err
	}
	if date == "" {
		date = s.state.ActiveDate
	}
	res, err := checklist.AddTask(s.state, date, in, s.Now())
	if err != nil {
		return AddOutcome{}, err
	}
	s.state = res.State
	persist(ctx, s.blobs, domain.KeyTasksByDate, s.state.TasksByDate)
	if in.Recurring && res.Warning == nil {
		persist(ctx, s.blobs, domain.KeyRecurringTasks, s.state.Recurring)
	}
	if res.Warning != nil {
		s.log.Logf("[INFO] recurring title %q already exists, added to %s only", in.Title, date)
	}

	record(ctx, s.audit, s.log, domain.EventTaskAdded, taskAggregate(res.Task.ID), map[string]interface{}{
		"date":      date,
		"title":     res.Task.Title,
		"recurring": in.Recurring && res.Warning == nil,
		"duplicate": res.Warning != nil,
	})
	return AddOutcome{Task: res.Task, Date: date, Warning: res.Warning}, nil
}

// DeleteTask removes a task from date, or with DeleteAll from the template
// set and every stored date. Delete-all records the per-date completion it
// discards in the audit log.
func (s *ChecklistService) DeleteTask(ctx context.Context, date string, id int64, mode checklist.DeleteMode) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return err
	}
	date, err := s.resolveDate(ctx, date)
	if err != nil {
		return err
	}

	title := s.titleOf(date, id)
	history := checklist.History(s.state, id)

	next, err := checklist.DeleteTask(s.state, date, id, mode)
	if err != nil {
		return fmt.Errorf("delete task %d: %w", id, err)
	}
	s.state = next
	persist(ctx, s.blobs, domain.KeyTasksByDate, s.state.TasksByDate)

	if mode == checklist.DeleteAll {
		persist(ctx, s.blobs, domain.KeyRecurringTasks, s.state.Recurring)
		record(ctx, s.audit, s.log, domain.EventTaskDeletedAll, taskAggregate(id), map[string]interface{}{
			"title":   title,
			"history": history,
		})
		return nil
	}
	record(ctx, s.audit, s.log, domain.EventTaskDeleted, taskAggregate(id), map[string]interface{}{
		"title": title,
		"date":  date,
	})
	return nil
}

func (s *ChecklistService) titleOf(date string, id int64) string {
	if t := s.task(date, id); t.ID == id {
		return t.Title
	}
	for _, t := range s.state.Recurring {
		if t.ID == id {
			return t.Title
		}
	}
	return ""
}

// ChangeActiveDate activates date, materializing it on first access.
func (s *ChecklistService) ChangeActiveDate(ctx context.Context, date string) (DayView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return DayView{}, err
	}
	_, existed := s.state.TasksByDate[date]
	next, err := checklist.ChangeActiveDate(s.state, date, s.campaign)
	if err != nil {
		return DayView{}, err
	}
	s.state = next
	if !existed {
		persist(ctx, s.blobs, domain.KeyTasksByDate, s.state.TasksByDate)
	}
	persist(ctx, s.blobs, domain.KeyActiveDate, s.state.ActiveDate)
	return s.view(date), nil
}

// Calendar lists every selectable campaign day up to today.
func (s *ChecklistService) Calendar(ctx context.Context) ([]CalendarDay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	dates := s.campaign.Dates(s.Now())
	out := make([]CalendarDay, 0, len(dates))
	for _, date := range dates {
		d, _ := checklist.ParseDate(date)
		out = append(out, CalendarDay{
			Date:      date,
			DayIndex:  s.campaign.DayIndex(d),
			Status:    checklist.CompletionStatus(date, s.state.TasksByDate, s.state.Recurring),
			Completed: checklist.IsDateCompleted(date, s.state.TasksByDate),
			Active:    date == s.state.ActiveDate,
		})
	}
	return out, nil
}

// Recurring returns the template set.
func (s *ChecklistService) Recurring(ctx context.Context) ([]checklist.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	return s.state.Clone().Recurring, nil
}

// Snapshot returns a copy of the whole state.
func (s *ChecklistService) Snapshot(ctx context.Context) (checklist.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureLoaded(ctx); err != nil {
		return checklist.State{}, err
	}
	return s.state.Clone(), nil
}

func taskAggregate(id int64) string {
	return fmt.Sprintf("task:%d", id)
}
