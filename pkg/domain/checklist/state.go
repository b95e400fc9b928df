package checklist

import (
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// State is the full checklist state. Reducers never mutate the State they are
// given; callers persist the returned value.
type State struct {
	TasksByDate TasksByDate `json:"tasksByDate"`
	Recurring   []Task      `json:"recurringTasks"`
	ActiveDate  string      `json:"activeDate"`
	DayIndex    int         `json:"dayIndex"`
}

// Clone returns a deep copy of the state.
func (s State) Clone() State {
	return State{
		TasksByDate: s.TasksByDate.Clone(),
		Recurring:   cloneTasks(s.Recurring),
		ActiveDate:  s.ActiveDate,
		DayIndex:    s.DayIndex,
	}
}

// Day returns a copy of the stored list for date and whether it exists.
func (s State) Day(date string) ([]Task, bool) {
	tasks, ok := s.TasksByDate[date]
	return cloneTasks(tasks), ok
}

// DeleteMode selects the reach of DeleteTask.
type DeleteMode string

const (
	DeleteCurrent DeleteMode = "current"
	DeleteAll     DeleteMode = "all"
)

// ParseDeleteMode accepts "current", "all" or the empty string (current).
func ParseDeleteMode(s string) (DeleteMode, error) {
	switch DeleteMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", DeleteCurrent:
		return DeleteCurrent, nil
	case DeleteAll:
		return DeleteAll, nil
	}
	return "", ErrInvalidDeleteMode
}

// NewTask is the user input for AddTask.
type NewTask struct {
	Title        string
	Description  string
	HasChecklist bool
	Items        []string
	Recurring    bool
}

// AddResult carries the outcome of a successful AddTask.
type AddResult struct {
	State   State
	Task    Task
	Warning *DuplicateWarning
}

func findTask(tasks []Task, id int64) int {
	for i, t := range tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ToggleTask flips a task on date. With checklist items the new value is
// pushed to every item.
func ToggleTask(s State, date string, id int64) (State, error) {
	idx := findTask(s.TasksByDate[date], id)
	if idx < 0 {
		return s, ErrTaskNotFound
	}
	next := s.Clone()
	t := &next.TasksByDate[date][idx]
	t.IsCompleted = !t.IsCompleted
	if t.HasItems() {
		for i := range t.ChecklistItems {
			t.ChecklistItems[i].IsCompleted = t.IsCompleted
		}
	}
	return next, nil
}

// ToggleChecklistItem flips one item and recomputes the task's completion as
// the AND of its items.
func ToggleChecklistItem(s State, date string, id int64, itemID string) (State, error) {
	idx := findTask(s.TasksByDate[date], id)
	if idx < 0 {
		return s, ErrTaskNotFound
	}
	item := -1
	for i, it := range s.TasksByDate[date][idx].ChecklistItems {
		if it.ID == itemID {
			item = i
			break
		}
	}
	if item < 0 {
		return s, ErrItemNotFound
	}

	next := s.Clone()
	t := &next.TasksByDate[date][idx]
	t.ChecklistItems[item].IsCompleted = !t.ChecklistItems[item].IsCompleted
	all := true
	for _, it := range t.ChecklistItems {
		if !it.IsCompleted {
			all = false
			break
		}
	}
	t.IsCompleted = all
	return next, nil
}

// Validate checks the fields AddTask requires.
func (n NewTask) Validate() error {
	if strings.TrimSpace(n.Title) == "" {
		return &ValidationError{Field: "title", Reason: ErrMissingField}
	}
	if strings.TrimSpace(n.Description) == "" {
		return &ValidationError{Field: "description", Reason: ErrMissingField}
	}
	if n.HasChecklist {
		for i, text := range n.Items {
			if strings.TrimSpace(text) == "" {
				return &ValidationError{Field: "items[" + strconv.Itoa(i) + "]", Reason: ErrEmptyChecklistItem}
			}
		}
	}
	return nil
}

// NextID returns a time-derived id strictly greater than any id in s.
func NextID(s State, now time.Time) int64 {
	id := now.UnixMilli()
	bump := func(tasks []Task) {
		for _, t := range tasks {
			if t.ID >= id {
				id = t.ID + 1
			}
		}
	}
	bump(s.Recurring)
	for _, tasks := range s.TasksByDate {
		bump(tasks)
	}
	return id
}

func sameTitle(a, b string) bool {
	fold := cases.Fold()
	return fold.String(strings.TrimSpace(a)) == fold.String(strings.TrimSpace(b))
}

// AddTask validates the input and appends a new task to date. A recurring
// task is also appended to the template set with CreatedAt=date, unless a
// template with the same title (case-insensitive) exists; then the task is
// kept on date only and a DuplicateWarning is returned. A date without a
// stored list is materialized first.
func AddTask(s State, date string, in NewTask, now time.Time) (AddResult, error) {
	if err := in.Validate(); err != nil {
		return AddResult{State: s}, err
	}
	if _, err := ParseDate(date); err != nil {
		return AddResult{State: s}, err
	}

	next := s.Clone()
	if next.TasksByDate == nil {
		next.TasksByDate = TasksByDate{}
	}
	if _, ok := next.TasksByDate[date]; !ok {
		next.TasksByDate[date] = Materialize(date, next.Recurring)
	}

	task := Task{
		ID:             NextID(s, now),
		Title:          in.Title,
		Description:    in.Description,
		HasChecklist:   in.HasChecklist,
		ChecklistItems: []ChecklistItem{},
	}
	if in.HasChecklist {
		for i, text := range in.Items {
			task.ChecklistItems = append(task.ChecklistItems, ChecklistItem{
				ID:   strconv.FormatInt(task.ID, 10) + "-" + strconv.Itoa(i+1),
				Text: text,
			})
		}
	}
	next.TasksByDate[date] = append(next.TasksByDate[date], task)

	res := AddResult{Task: task.Clone()}
	if in.Recurring {
		for _, tmpl := range next.Recurring {
			if sameTitle(tmpl.Title, in.Title) {
				res.Warning = &DuplicateWarning{Title: in.Title, Existing: tmpl.ID}
				break
			}
		}
		if res.Warning == nil {
			tmpl := task.Clone()
			tmpl.CreatedAt = date
			next.Recurring = append(next.Recurring, tmpl)
		}
	}
	res.State = next
	return res, nil
}

// DeleteTask removes a task. DeleteCurrent removes it from date only;
// DeleteAll removes it from the template set and from every stored date,
// leaving the date keys in place.
func DeleteTask(s State, date string, id int64, mode DeleteMode) (State, error) {
	switch mode {
	case DeleteCurrent:
		if findTask(s.TasksByDate[date], id) < 0 {
			return s, ErrTaskNotFound
		}
		next := s.Clone()
		next.TasksByDate[date] = removeTask(next.TasksByDate[date], id)
		return next, nil
	case DeleteAll:
		found := findTask(s.Recurring, id) >= 0
		for _, tasks := range s.TasksByDate {
			if findTask(tasks, id) >= 0 {
				found = true
				break
			}
		}
		if !found {
			return s, ErrTaskNotFound
		}
		next := s.Clone()
		next.Recurring = removeTask(next.Recurring, id)
		for k, tasks := range next.TasksByDate {
			next.TasksByDate[k] = removeTask(tasks, id)
		}
		return next, nil
	}
	return s, ErrInvalidDeleteMode
}

func removeTask(tasks []Task, id int64) []Task {
	out := make([]Task, 0, len(tasks))
	for _, t := range tasks {
		if t.ID != id {
			out = append(out, t)
		}
	}
	return out
}

// History returns the completion flag of task id on every stored date.
func History(s State, id int64) map[string]bool {
	out := map[string]bool{}
	for date, tasks := range s.TasksByDate {
		if i := findTask(tasks, id); i >= 0 {
			out[date] = tasks[i].IsCompleted
		}
	}
	return out
}

// ChangeActiveDate makes date active, materializing and storing its list if
// none exists, and recomputes the day index against c.
func ChangeActiveDate(s State, date string, c Campaign) (State, error) {
	d, err := ParseDate(date)
	if err != nil {
		return s, err
	}
	next := s.Clone()
	if next.TasksByDate == nil {
		next.TasksByDate = TasksByDate{}
	}
	if _, ok := next.TasksByDate[date]; !ok {
		next.TasksByDate[date] = Materialize(date, next.Recurring)
	}
	next.ActiveDate = date
	next.DayIndex = c.DayIndex(d)
	return next, nil
}
