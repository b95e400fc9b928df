package checklist

import "errors"

// Domain errors for the daily checklist.
var (
	// ErrValidation is matched by every *ValidationError.
	ErrValidation = errors.New("validation error")

	// ErrMissingField indicates a blank title or description.
	ErrMissingField = errors.New("missing field")

	// ErrEmptyChecklistItem indicates a checklist item with blank text.
	ErrEmptyChecklistItem = errors.New("empty checklist item")

	// ErrTaskNotFound indicates no task with the id exists on the date.
	ErrTaskNotFound = errors.New("task not found")

	// ErrItemNotFound indicates no checklist item with the id exists on the task.
	ErrItemNotFound = errors.New("checklist item not found")

	// ErrDuplicateRecurring indicates a recurring template with the same title exists.
	ErrDuplicateRecurring = errors.New("recurring task already exists")

	// ErrInvalidDate indicates a date string that is not YYYY-MM-DD.
	ErrInvalidDate = errors.New("invalid date")

	// ErrInvalidDeleteMode indicates a delete mode other than current or all.
	ErrInvalidDeleteMode = errors.New("invalid delete mode")
)

// ValidationError rejects an add before any state changes.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason.Error()
	}
	return "validation error: " + e.Reason.Error() + " (" + e.Field + ")"
}

// Is allows errors.Is to match ErrValidation and the underlying reason.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation || target == e.Reason
}

// DuplicateWarning is returned alongside a successful add when the task was
// kept on the date only because a recurring template with the title exists.
type DuplicateWarning struct {
	Title    string `json:"title"`
	Existing int64  `json:"existingId"`
}

func (w *DuplicateWarning) Error() string {
	return "a recurring task named \"" + w.Title + "\" already exists; added to this date only"
}

// Is allows errors.Is to work with DuplicateWarning.
func (w *DuplicateWarning) Is(target error) bool {
	return target == ErrDuplicateRecurring
}
