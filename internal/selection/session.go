package selection

import (
	"fmt"

	"github.com/devbench/devbench/internal/debug"
	"github.com/devbench/devbench/pkg/catalog"
)

// Session is a mutable handle over a selection State
type Session struct {
	state      State
	canConfirm bool
}

// NewSession opens a selection over the catalog's names, all pre-selected
func NewSession(c *catalog.Catalog) *Session {
	return newSession(NewState(c.Names()))
}

func newSession(state State) *Session {
	s := &Session{state: state}
	s.refresh()
	return s
}

// Apply feeds one event through Transition
func (s *Session) Apply(ev Event) error {
	next, err := Transition(s.state, ev)
	if err != nil {
		debug.Log("Selection event %v refused: %v", ev, err)
		return err
	}
	s.state = next
	s.refresh()
	return nil
}

// Toggle flips the membership of name
func (s *Session) Toggle(name string) error { return s.Apply(Toggle(name)) }

// Confirm finishes the selection; refused while nothing is selected
func (s *Session) Confirm() error { return s.Apply(Confirm()) }

// Cancel aborts the selection
func (s *Session) Cancel() error { return s.Apply(Cancel()) }

// CanConfirm reports whether Confirm would currently succeed.
// It is recomputed after every accepted event.
func (s *Session) CanConfirm() bool { return s.canConfirm }

// Phase returns the current phase
func (s *Session) Phase() Phase { return s.state.Phase() }

// Snapshot returns the selected names in catalog order
func (s *Session) Snapshot() []string { return s.state.Snapshot() }

// State returns the current immutable state
func (s *Session) State() State { return s.state }

// Result returns the confirmed names, ErrCancelled or ErrNotConfirmed
func (s *Session) Result() ([]string, error) {
	switch s.state.Phase() {
	case PhaseConfirmed:
		return s.state.Snapshot(), nil
	case PhaseCancelled:
		return nil, ErrCancelled
	default:
		return nil, ErrNotConfirmed
	}
}

// SetSelected toggles names until exactly desired is selected.
// Unknown names in desired are rejected before any toggle is applied, and a
// finished session refuses it like any other event.
func (s *Session) SetSelected(desired []string) error {
	if s.state.Phase() != PhaseOpen {
		return ErrNotOpen
	}
	next, err := reconcile(s.state, desired)
	if err != nil {
		return err
	}
	s.state = next
	s.refresh()
	return nil
}

func (s *Session) refresh() {
	s.canConfirm = s.state.CanConfirm()
}

// reconcile returns s after the toggles that make desired the selection
func reconcile(s State, desired []string) (State, error) {
	want := make(map[string]bool, len(desired))
	for _, name := range desired {
		if !s.known(name) {
			return s, fmt.Errorf("%w: %q", catalog.ErrUnknownTarget, name)
		}
		want[name] = true
	}

	var err error
	for _, name := range s.names {
		if s.IsSelected(name) != want[name] {
			if s, err = Transition(s, Toggle(name)); err != nil {
				return s, err
			}
		}
	}
	return s, nil
}
