package cli

import (
	"errors"
	"fmt"

	"github.com/felixgeelhaar/hilal/pkg/domain/checklist"
	"github.com/felixgeelhaar/hilal/pkg/domain/quran"
	"github.com/felixgeelhaar/hilal/pkg/domain/tasbeeh"
)

// CLIError wraps domain errors with user-facing messages and actionable hints.
type CLIError struct {
	Message  string
	Hint     string
	Err      error
	ExitCode int
}

func (e *CLIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *CLIError) Unwrap() error {
	return e.Err
}

// NewCLIError creates a CLIError with a default exit code of 1.
func NewCLIError(msg, hint string, err error) *CLIError {
	return &CLIError{
		Message:  msg,
		Hint:     hint,
		Err:      err,
		ExitCode: 1,
	}
}

// MapError converts known domain errors into CLIErrors with actionable hints.
// Unmapped errors are returned as-is.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return err
	}

	var valErr *checklist.ValidationError
	if errors.As(err, &valErr) {
		return &CLIError{
			Message:  valErr.Error(),
			Hint:     fmt.Sprintf("Check the %s value and retry", valErr.Field),
			Err:      err,
			ExitCode: 2,
		}
	}

	switch {
	case errors.Is(err, checklist.ErrTaskNotFound):
		return NewCLIError("task not found", "Run 'hilal tasks list' to see the ids for that date", err)
	case errors.Is(err, checklist.ErrItemNotFound):
		return NewCLIError("checklist item not found", "Run 'hilal tasks list --json' to see item ids", err)
	case errors.Is(err, checklist.ErrInvalidDate):
		return NewCLIError("invalid date", "Dates use the YYYY-MM-DD form, e.g. 2025-03-05", err)
	case errors.Is(err, checklist.ErrInvalidDeleteMode):
		return NewCLIError("invalid delete mode", "Use --mode current or --mode all", err)
	case errors.Is(err, tasbeeh.ErrTasbeehNotFound):
		return NewCLIError("tasbeeh not found", "Run 'hilal tasbeeh list' to see counter ids", err)
	case errors.Is(err, tasbeeh.ErrNoActive):
		return NewCLIError("no active tasbeeh", "Run 'hilal tasbeeh select <id>' first", err)
	case errors.Is(err, tasbeeh.ErrNameRequired), errors.Is(err, tasbeeh.ErrInvalidTarget), errors.Is(err, tasbeeh.ErrInvalidCount):
		return &CLIError{Message: "invalid tasbeeh", Hint: "Give a name and a target of 0 or more", Err: err, ExitCode: 2}
	case errors.Is(err, quran.ErrSurahNotFound):
		return NewCLIError("surah not found", "Surahs are numbered 1 to 114; try 'hilal quran surahs'", err)
	case errors.Is(err, quran.ErrInvalidPage):
		return NewCLIError("invalid page", fmt.Sprintf("Pages run from 1 to %d", quran.LastPage), err)
	case errors.Is(err, quran.ErrEndOfContent):
		return NewCLIError("no more pages in that direction", "", err)
	case errors.Is(err, quran.ErrInvalidFontSize):
		return NewCLIError("font size out of range", fmt.Sprintf("Use a size between %d and %d", quran.MinFontSize, quran.MaxFontSize), err)
	}

	return err
}
