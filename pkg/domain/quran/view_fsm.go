package quran

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// View states.
const (
	ViewList   = "list"
	ViewSearch = "search"
	ViewReader = "reader"
)

// View events.
const (
	EventSearch = "search"
	EventClear  = "clear"
	EventOpen   = "open"
	EventBack   = "back"
)

// ViewContext carries the guard consulted before entering the reader.
type ViewContext struct {
	CanOpen func() bool
}

// ViewMachine tracks which screen of the Quran browser is showing.
type ViewMachine struct {
	interpreter *statekit.Interpreter[ViewContext]
}

// NewViewMachine builds the browser state machine starting at initial. A nil
// canOpen always allows opening the reader.
func NewViewMachine(initial string, canOpen func() bool) (*ViewMachine, error) {
	if initial == "" {
		initial = ViewList
	}
	if canOpen == nil {
		canOpen = func() bool { return true }
	}

	builder := statekit.NewMachine[ViewContext]("quran-view").
		WithInitial(statekit.StateID(initial)).
		WithContext(ViewContext{CanOpen: canOpen}).
		WithGuard("hasPosition", func(ctx ViewContext, e statekit.Event) bool {
			return ctx.CanOpen()
		})

	builder.State(ViewList).
		On(EventSearch).Target(ViewSearch).
		On(EventOpen).Target(ViewReader).Guard("hasPosition").
		Done()

	builder.State(ViewSearch).
		On(EventClear).Target(ViewList).
		On(EventOpen).Target(ViewReader).Guard("hasPosition").
		Done()

	builder.State(ViewReader).
		On(EventBack).Target(ViewList).
		Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build view machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()
	return &ViewMachine{interpreter: interpreter}, nil
}

// Send applies an event. An event that leaves the view unchanged is an error.
func (m *ViewMachine) Send(event string) error {
	before := m.Current()
	m.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	if m.Current() != before {
		return nil
	}
	return fmt.Errorf("cannot %s from the %s view", event, before)
}

// Current returns the active view.
func (m *ViewMachine) Current() string {
	return string(m.interpreter.State().Value)
}
