package tasbeeh

import "time"

// State holds every counter and the active selection.
type State struct {
	Tasbeehs []Tasbeeh `json:"tasbeehs"`
	ActiveID string    `json:"activeId,omitempty"`
	Settings Settings  `json:"settings"`
}

// Clone returns a copy that shares nothing with s.
func (s State) Clone() State {
	c := s
	if s.Tasbeehs != nil {
		c.Tasbeehs = make([]Tasbeeh, len(s.Tasbeehs))
		copy(c.Tasbeehs, s.Tasbeehs)
	}
	return c
}

func (s State) index(id string) int {
	for i, t := range s.Tasbeehs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Active returns the selected counter.
func (s State) Active() (Tasbeeh, bool) {
	if i := s.index(s.ActiveID); i >= 0 {
		return s.Tasbeehs[i], true
	}
	return Tasbeeh{}, false
}

// Add appends a counter and makes it active.
func Add(s State, in New, id string, now time.Time) (State, Tasbeeh, error) {
	if err := in.Validate(); err != nil {
		return s, Tasbeeh{}, err
	}
	t := Tasbeeh{
		ID:        id,
		Name:      in.Name,
		Text:      in.Text,
		Target:    in.Target,
		Count:     in.Count,
		Color:     in.Color,
		CreatedAt: now,
	}
	next := s.Clone()
	next.Tasbeehs = append(next.Tasbeehs, t)
	next.ActiveID = id
	return next, t, nil
}

// Delete removes a counter. Deleting the active one selects the first
// remaining counter, or none.
func Delete(s State, id string) (State, error) {
	i := s.index(id)
	if i < 0 {
		return s, ErrTasbeehNotFound
	}
	next := s.Clone()
	next.Tasbeehs = append(next.Tasbeehs[:i], next.Tasbeehs[i+1:]...)
	if next.ActiveID == id {
		next.ActiveID = ""
		if len(next.Tasbeehs) > 0 {
			next.ActiveID = next.Tasbeehs[0].ID
		}
	}
	return next, nil
}

// Select makes id the active counter.
func Select(s State, id string) (State, error) {
	if s.index(id) < 0 {
		return s, ErrTasbeehNotFound
	}
	next := s.Clone()
	next.ActiveID = id
	return next, nil
}

func (s State) withActive(fn func(t *Tasbeeh)) (State, Tasbeeh, error) {
	i := s.index(s.ActiveID)
	if i < 0 {
		return s, Tasbeeh{}, ErrNoActive
	}
	next := s.Clone()
	fn(&next.Tasbeehs[i])
	return next, next.Tasbeehs[i], nil
}

// Increment adds one to the active counter. reached is true only on the
// increment that meets the target.
func Increment(s State) (next State, t Tasbeeh, reached bool, err error) {
	next, t, err = s.withActive(func(t *Tasbeeh) { t.Count++ })
	if err != nil {
		return s, t, false, err
	}
	return next, t, t.Target > 0 && t.Count == t.Target, nil
}

// Decrement subtracts one from the active counter, stopping at zero.
func Decrement(s State) (State, Tasbeeh, error) {
	return s.withActive(func(t *Tasbeeh) {
		if t.Count > 0 {
			t.Count--
		}
	})
}

// Reset zeroes the active counter.
func Reset(s State) (State, Tasbeeh, error) {
	return s.withActive(func(t *Tasbeeh) { t.Count = 0 })
}

// SetCount overwrites the count of any counter.
func SetCount(s State, id string, count int) (State, error) {
	if count < 0 {
		return s, ErrInvalidCount
	}
	i := s.index(id)
	if i < 0 {
		return s, ErrTasbeehNotFound
	}
	next := s.Clone()
	next.Tasbeehs[i].Count = count
	return next, nil
}
