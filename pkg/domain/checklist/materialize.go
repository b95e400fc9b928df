package checklist

// Materialize builds the task list for a date from the recurring templates.
// Templates created after date are skipped. Copies keep the template id and
// order, and start with every task and item incomplete. An empty template set
// yields an empty list.
func Materialize(date string, recurring []Task) []Task {
	out := make([]Task, 0, len(recurring))
	for _, tmpl := range recurring {
		if tmpl.CreatedAt != "" && tmpl.CreatedAt > date {
			continue
		}
		t := tmpl.Clone()
		t.IsCompleted = false
		if t.ChecklistItems == nil {
			t.ChecklistItems = []ChecklistItem{}
		}
		for i := range t.ChecklistItems {
			t.ChecklistItems[i].IsCompleted = false
		}
		out = append(out, t)
	}
	return out
}
