package fsm

import (
	"errors"
	"testing"
)

func TestMachineHappyPath(t *testing.T) {
	m := New()

	path := []State{
		StateCardPresented,
		StatePinEntry,
		StateAuthenticated,
		StateInTransaction,
		StateDispensing,
		StateCompleted,
	}
	for _, next := range path {
		if err := m.TransitionTo(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if m.Current() != StateCompleted {
		t.Fatalf("expected Completed, got %s", m.Current())
	}
}

func TestMachineRejectsIllegalTransitions(t *testing.T) {
	cases := []struct {
		from State
		to   State
	}{
		{StateIdle, StateAuthenticated},
		{StateIdle, StateDispensing},
		{StateCardPresented, StateInTransaction},
		{StatePinEntry, StateDispensing},
		{StateDispensing, StateIdle},
		{StateDispensing, StateInTransaction},
		{StateError, StateAuthenticated},
	}

	for _, tc := range cases {
		m := &Machine{state: tc.from}
		err := m.TransitionTo(tc.to)
		if !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("%s -> %s: expected ErrInvalidTransition, got %v", tc.from, tc.to, err)
		}
		if m.Current() != tc.from {
			t.Fatalf("%s -> %s: state changed on rejected transition", tc.from, tc.to)
		}
	}
}

func TestMachineErrorReachableFromAnyState(t *testing.T) {
	for state := StateIdle; state <= StateError; state++ {
		m := &Machine{state: state}
		if err := m.TransitionTo(StateError); err != nil {
			t.Fatalf("fault from %s: %v", state, err)
		}
		if m.Current() != StateError {
			t.Fatalf("expected Error from %s, got %s", state, m.Current())
		}
	}
}

func TestMachineCompletedReturnsToAuthenticated(t *testing.T) {
	m := &Machine{state: StateCompleted}
	if err := m.TransitionTo(StateAuthenticated); err != nil {
		t.Fatalf("Completed -> Authenticated: %v", err)
	}
	if err := m.TransitionTo(StateInTransaction); err != nil {
		t.Fatalf("expected another transaction without re-authentication: %v", err)
	}
}

func TestMachineRecoverToAuthenticated(t *testing.T) {
	for _, state := range []State{StateCompleted, StateError} {
		m := &Machine{state: state}
		if err := m.RecoverToAuthenticated(); err != nil {
			t.Fatalf("recover from %s: %v", state, err)
		}
		if m.Current() != StateAuthenticated {
			t.Fatalf("expected Authenticated after recover from %s", state)
		}
	}

	m := &Machine{state: StatePinEntry}
	if err := m.RecoverToAuthenticated(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition recovering from PinEntry, got %v", err)
	}
}

func TestMachineReset(t *testing.T) {
	m := &Machine{state: StateDispensing}
	m.Reset()
	if m.Current() != StateIdle {
		t.Fatalf("expected Idle after reset, got %s", m.Current())
	}
}
