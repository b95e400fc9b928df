package domain

// EventLog persists audit events in order.
type EventLog interface {
	Append(event *Event) error
	LoadAll() ([]*Event, error)
}
