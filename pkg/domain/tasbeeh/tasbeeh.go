// Package tasbeeh models dhikr counters and the active selection.
package tasbeeh

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrTasbeehNotFound indicates no counter with the id exists.
	ErrTasbeehNotFound = errors.New("tasbeeh not found")

	// ErrNameRequired indicates a blank counter name.
	ErrNameRequired = errors.New("tasbeeh name is required")

	// ErrInvalidTarget indicates a negative target.
	ErrInvalidTarget = errors.New("target must be a positive number")

	// ErrInvalidCount indicates a negative count.
	ErrInvalidCount = errors.New("count cannot be negative")

	// ErrNoActive indicates an operation on the active counter while none is selected.
	ErrNoActive = errors.New("no active tasbeeh")
)

// Palette is the set of colors a counter can take.
var Palette = []string{
	"#4CAF50",
	"#2196F3",
	"#9C27B0",
	"#FF9800",
	"#F44336",
	"#009688",
	"#795548",
	"#607D8B",
}

// Tasbeeh is a named dhikr counter. A zero Target means open-ended.
type Tasbeeh struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Text      string    `json:"text,omitempty"`
	Target    int       `json:"target"`
	Count     int       `json:"count"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"createdAt"`
}

// Progress is Count over Target as a percentage, 0 without a target.
func (t Tasbeeh) Progress() float64 {
	if t.Target <= 0 {
		return 0
	}
	return float64(t.Count) / float64(t.Target) * 100
}

// Reached reports whether a target exists and has been met.
func (t Tasbeeh) Reached() bool {
	return t.Target > 0 && t.Count >= t.Target
}

// Settings are the feedback toggles.
type Settings struct {
	VibrationEnabled bool `json:"vibrationEnabled"`
	SoundEnabled     bool `json:"soundEnabled"`
}

// DefaultSettings enables both kinds of feedback.
func DefaultSettings() Settings {
	return Settings{VibrationEnabled: true, SoundEnabled: true}
}

// Defaults returns the counters seeded on first run.
func Defaults(now time.Time) []Tasbeeh {
	return []Tasbeeh{
		{ID: "1", Name: "Subhanallah", Target: 33, Color: "#4CAF50", CreatedAt: now},
		{ID: "2", Name: "Alhamdulillah", Target: 33, Color: "#2196F3", CreatedAt: now},
		{ID: "3", Name: "Allahu Akbar", Target: 34, Color: "#9C27B0", CreatedAt: now},
	}
}

// New is the input for Add.
type New struct {
	Name   string
	Text   string
	Target int
	Count  int
	Color  string
}

// Validate checks name, target and count, and defaults the color.
func (n *New) Validate() error {
	n.Name = strings.TrimSpace(n.Name)
	if n.Name == "" {
		return ErrNameRequired
	}
	if n.Target < 0 {
		return ErrInvalidTarget
	}
	if n.Count < 0 {
		return ErrInvalidCount
	}
	if n.Color == "" {
		n.Color = Palette[0]
	}
	return nil
}
