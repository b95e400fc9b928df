package checklist

// ChecklistItem is a sub-step of a task.
type ChecklistItem struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	IsCompleted bool   `json:"isCompleted"`
}

// Task is a single entry in a day's checklist. Recurring templates carry
// CreatedAt; copies materialized onto a date keep the template's ID.
type Task struct {
	ID             int64           `json:"id"`
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	HasChecklist   bool            `json:"hasChecklist"`
	ChecklistItems []ChecklistItem `json:"checklistItems"`
	IsCompleted    bool            `json:"isCompleted"`
	CreatedAt      string          `json:"createdAt,omitempty"`
}

// TasksByDate maps an ISO date (YYYY-MM-DD) to that day's ordered task list.
type TasksByDate map[string][]Task

// Clone returns a deep copy of the task.
func (t Task) Clone() Task {
	c := t
	if t.ChecklistItems != nil {
		c.ChecklistItems = make([]ChecklistItem, len(t.ChecklistItems))
		copy(c.ChecklistItems, t.ChecklistItems)
	}
	return c
}

// HasItems reports whether completion is derived from checklist items.
func (t Task) HasItems() bool {
	return t.HasChecklist && len(t.ChecklistItems) > 0
}

// ItemsDone counts completed checklist items.
func (t Task) ItemsDone() int {
	n := 0
	for _, it := range t.ChecklistItems {
		if it.IsCompleted {
			n++
		}
	}
	return n
}

// Progress returns the share of completed checklist items as a percentage.
// Tasks without items report 100 when completed and 0 otherwise.
func (t Task) Progress() float64 {
	if !t.HasItems() {
		if t.IsCompleted {
			return 100
		}
		return 0
	}
	return float64(t.ItemsDone()) / float64(len(t.ChecklistItems)) * 100
}

func cloneTasks(in []Task) []Task {
	if in == nil {
		return nil
	}
	out := make([]Task, len(in))
	for i, t := range in {
		out[i] = t.Clone()
	}
	return out
}

// Clone returns a deep copy of the map and every list in it.
func (m TasksByDate) Clone() TasksByDate {
	out := make(TasksByDate, len(m))
	for k, v := range m {
		out[k] = cloneTasks(v)
	}
	return out
}
