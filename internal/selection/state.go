// Package selection implements the interactive choice of which targets to benchmark.
//
// The choice is modelled as a small state machine. State values are immutable
// and Transition is a pure function; Session wraps a State for callers that
// want a mutable handle, and the prompt adapter in this package turns survey
// answers into Transition events.
package selection

import (
	"errors"
	"fmt"

	"github.com/devbench/devbench/pkg/catalog"
)

var (
	// ErrEmptySelection is returned when confirming with nothing selected
	ErrEmptySelection = errors.New("select at least one target")

	// ErrNotOpen is returned for events after the session has finished
	ErrNotOpen = errors.New("selection is no longer open")

	// ErrCancelled is returned when the user aborted the selection
	ErrCancelled = errors.New("selection cancelled")

	// ErrNotConfirmed is returned when asking for the result of an open session
	ErrNotConfirmed = errors.New("selection has not been confirmed")
)

// Phase is the lifecycle stage of a selection
type Phase int

const (
	// PhaseOpen accepts toggles; every name starts selected
	PhaseOpen Phase = iota
	// PhaseConfirmed is terminal and guarantees a non-empty selection
	PhaseConfirmed
	// PhaseCancelled is terminal; no benchmark was requested
	PhaseCancelled
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseOpen:
		return "open"
	case PhaseConfirmed:
		return "confirmed"
	case PhaseCancelled:
		return "cancelled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// EventKind identifies a user action
type EventKind int

const (
	// EventToggle flips one name
	EventToggle EventKind = iota
	// EventConfirm finishes the selection
	EventConfirm
	// EventCancel aborts the selection
	EventCancel
)

// Event is a user action fed into Transition
type Event struct {
	Kind EventKind
	// Name is only used by EventToggle
	Name string
}

// Toggle builds a toggle event for name
func Toggle(name string) Event { return Event{Kind: EventToggle, Name: name} }

// Confirm builds a confirm event
func Confirm() Event { return Event{Kind: EventConfirm} }

// Cancel builds a cancel event
func Cancel() Event { return Event{Kind: EventCancel} }

// State is an immutable snapshot of a selection
type State struct {
	names    []string
	selected map[string]bool
	phase    Phase
}

// NewState returns an open state over names with every name selected
func NewState(names []string) State {
	s := State{
		names:    append([]string(nil), names...),
		selected: make(map[string]bool, len(names)),
		phase:    PhaseOpen,
	}
	for _, name := range names {
		s.selected[name] = true
	}
	return s
}

// Phase returns the current phase
func (s State) Phase() Phase { return s.phase }

// IsSelected reports whether name is currently selected
func (s State) IsSelected(name string) bool { return s.selected[name] }

// CanConfirm reports whether a confirm event would currently be accepted
func (s State) CanConfirm() bool {
	return s.phase == PhaseOpen && len(s.selected) > 0
}

// Snapshot returns the selected names in catalog order
func (s State) Snapshot() []string {
	out := make([]string, 0, len(s.selected))
	for _, name := range s.names {
		if s.selected[name] {
			out = append(out, name)
		}
	}
	return out
}

// Transition applies ev to s. On error the returned state is s unchanged.
func Transition(s State, ev Event) (State, error) {
	if s.phase != PhaseOpen {
		return s, ErrNotOpen
	}

	switch ev.Kind {
	case EventToggle:
		if !s.known(ev.Name) {
			return s, fmt.Errorf("%w: %q", catalog.ErrUnknownTarget, ev.Name)
		}
		next := s.clone()
		if next.selected[ev.Name] {
			delete(next.selected, ev.Name)
		} else {
			next.selected[ev.Name] = true
		}
		return next, nil
	case EventConfirm:
		if !s.CanConfirm() {
			return s, ErrEmptySelection
		}
		next := s.clone()
		next.phase = PhaseConfirmed
		return next, nil
	case EventCancel:
		next := s.clone()
		next.phase = PhaseCancelled
		return next, nil
	default:
		return s, fmt.Errorf("unknown selection event %d", ev.Kind)
	}
}

func (s State) known(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

func (s State) clone() State {
	next := State{
		names:    s.names,
		selected: make(map[string]bool, len(s.selected)),
		phase:    s.phase,
	}
	for name := range s.selected {
		next.selected[name] = true
	}
	return next
}

// String renders the event for logs
func (ev Event) String() string {
	switch ev.Kind {
	case EventToggle:
		return "toggle(" + ev.Name + ")"
	case EventConfirm:
		return "confirm"
	case EventCancel:
		return "cancel"
	default:
		return fmt.Sprintf("event(%d)", int(ev.Kind))
	}
}
