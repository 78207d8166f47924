package fsm

import (
	"errors"
	"fmt"
	"sync"
)

// State is the phase of one physical terminal interaction. Exactly one state
// is active per terminal at a time.
type State int

const (
	StateIdle State = iota
	StateCardPresented
	StatePinEntry
	StateAuthenticated
	StateInTransaction
	StateDispensing
	StateCompleted
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateCardPresented:
		return "CardPresented"
	case StatePinEntry:
		return "PinEntry"
	case StateAuthenticated:
		return "Authenticated"
	case StateInTransaction:
		return "InTransaction"
	case StateDispensing:
		return "Dispensing"
	case StateCompleted:
		return "Completed"
	case StateError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ErrInvalidTransition is wrapped by every rejected transition; the state is
// left unchanged.
var ErrInvalidTransition = errors.New("invalid state transition")

// transitions is the legal-successor table. StateError is additionally
// reachable from every state (unrecoverable fault), so it is omitted here.
var transitions = map[State][]State{
	StateIdle:          {StateCardPresented},
	StateCardPresented: {StatePinEntry, StateIdle},
	StatePinEntry:      {StateAuthenticated, StateIdle},
	StateAuthenticated: {StateInTransaction, StateIdle},
	StateInTransaction: {StateDispensing, StateCompleted},
	StateDispensing:    {StateCompleted},
	StateCompleted:     {StateAuthenticated, StateIdle},
	StateError:         {StateIdle},
}

// Machine is a per-terminal finite-state machine: a deterministic, total
// function over (state, requested transition) that either moves or rejects.
type Machine struct {
	mu    sync.Mutex
	state State
}

func New() *Machine {
	return &Machine{state: StateIdle}
}

func (m *Machine) Current() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// TransitionTo moves to next if the transition is legal. A fault transition
// to StateError is legal from any state.
func (m *Machine) TransitionTo(next State) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if next == StateError {
		m.state = StateError
		return nil
	}

	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			return nil
		}
	}

	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, next)
}

// RecoverToAuthenticated is the first-class escape hatch for a terminal
// stuck at Completed or Error after a missed auto-transition.
func (m *Machine) RecoverToAuthenticated() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateCompleted && m.state != StateError {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, m.state, StateAuthenticated)
	}

	m.state = StateAuthenticated
	return nil
}

// Reset forces the machine back to Idle from any state.
func (m *Machine) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state = StateIdle
}
