package checklist

import (
	"fmt"
	"time"
)

// DateLayout is the ISO calendar date format used for every date key.
const DateLayout = "2006-01-02"

// Default campaign window.
const (
	DefaultStart = "2025-03-01"
	DefaultEnd   = "2025-03-29"
)

// ParseDate parses a YYYY-MM-DD string as a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return d, nil
}

// FormatDate renders the calendar date of t, ignoring its clock and zone offset.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysBetween counts whole calendar days from a to b. Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	a = time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	b = time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}

// Campaign is the fixed window the day index is measured against.
type Campaign struct {
	Start time.Time
	End   time.Time
}

// NewCampaign parses both bounds and rejects an inverted window.
func NewCampaign(start, end string) (Campaign, error) {
	s, err := ParseDate(start)
	if err != nil {
		return Campaign{}, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return Campaign{}, err
	}
	if e.Before(s) {
		return Campaign{}, fmt.Errorf("campaign end %s is before start %s", end, start)
	}
	return Campaign{Start: s, End: e}, nil
}

// DefaultCampaign returns the built-in window.
func DefaultCampaign() Campaign {
	c, _ := NewCampaign(DefaultStart, DefaultEnd)
	return c
}

// StartDate returns the first day as a date key.
func (c Campaign) StartDate() string { return FormatDate(c.Start) }

// EndDate returns the last day as a date key.
func (c Campaign) EndDate() string { return FormatDate(c.End) }

// Length is the number of days in the window, both ends included.
func (c Campaign) Length() int {
	return DaysBetween(c.Start, c.End) + 1
}

// DayIndex maps a date to its 1-based day in the window. Dates before the
// window map to 0 and dates on or past the last day clamp to Length.
func (c Campaign) DayIndex(date time.Time) int {
	offset := DaysBetween(c.Start, date)
	n := c.Length()
	switch {
	case offset < 0:
		return 0
	case offset >= n:
		return n
	default:
		return offset + 1
	}
}

// Contains reports whether date falls inside the window.
func (c Campaign) Contains(date time.Time) bool {
	off := DaysBetween(c.Start, date)
	return off >= 0 && off < c.Length()
}

// Dates lists the selectable days: start through the earlier of today and end.
func (c Campaign) Dates(today time.Time) []string {
	last := c.End
	if DaysBetween(today, last) > 0 {
		last = today
	}
	var out []string
	for d := c.Start; DaysBetween(d, last) >= 0; d = d.AddDate(0, 0, 1) {
		out = append(out, FormatDate(d))
	}
	return out
}
