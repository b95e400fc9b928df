package checklist

import "sort"

// Status is the completed/total count shown for a calendar day.
type Status struct {
	Completed int `json:"completed"`
	Total     int `json:"total"`
}

// EarliestDate returns the smallest stored date key, or "" when none exist.
func (m TasksByDate) EarliestDate() string {
	earliest := ""
	for k := range m {
		if earliest == "" || k < earliest {
			earliest = k
		}
	}
	return earliest
}

// Dates returns the stored date keys in ascending order.
func (m TasksByDate) Dates() []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CompletionStatus reports progress for a calendar day.
//
// A stored day counts its own tasks. A day after the earliest stored day that
// has no list yet is projected as the templates created before it plus
// DefaultCatalogSize. Seeded catalog templates are counted twice by that
// projection; callers rely on the figure as is. Anything else is {0, 0}.
func CompletionStatus(date string, byDate TasksByDate, recurring []Task) Status {
	if tasks, ok := byDate[date]; ok {
		done := 0
		for _, t := range tasks {
			if t.IsCompleted {
				done++
			}
		}
		return Status{Completed: done, Total: len(tasks)}
	}
	earliest := byDate.EarliestDate()
	if earliest != "" && date > earliest {
		n := 0
		for _, t := range recurring {
			if t.CreatedAt < date {
				n++
			}
		}
		return Status{Total: n + DefaultCatalogSize}
	}
	return Status{}
}

// IsDateCompleted is true when date has at least one task and all are done.
func IsDateCompleted(date string, byDate TasksByDate) bool {
	tasks := byDate[date]
	if len(tasks) == 0 {
		return false
	}
	for _, t := range tasks {
		if !t.IsCompleted {
			return false
		}
	}
	return true
}
