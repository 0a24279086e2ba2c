package internal

import (
	"strconv"
	"strings"
)

type stateRefKind int

const (
	refIndex stateRefKind = iota
	refCurrent
	refAll
)

// StateRef designates one side of a reference state: an electronic state
// index, the current state, or all states.
type StateRef struct {
	kind  stateRefKind
	index int
}

// StateIndex refers to electronic state i. 0 is the ground state.
func StateIndex(i int) (StateRef, error) {
	if i < 0 {
		return StateRef{}, newFieldError(ErrMalformedReferenceState, FieldReferenceState, i)
	}
	return StateRef{kind: refIndex, index: i}, nil
}

func CurrentStateRef() StateRef {
	return StateRef{kind: refCurrent}
}

func AllStatesRef() StateRef {
	return StateRef{kind: refAll}
}

func (r StateRef) Index() (int, bool) {
	return r.index, r.kind == refIndex
}

func (r StateRef) IsCurrent() bool {
	return r.kind == refCurrent
}

func (r StateRef) IsAll() bool {
	return r.kind == refAll
}

func (r StateRef) String() string {
	switch r.kind {
	case refCurrent:
		return "c"
	case refAll:
		return "a"
	default:
		return strconv.Itoa(r.index)
	}
}

func parseStateRef(token string) (StateRef, bool) {
	switch token {
	case "c":
		return CurrentStateRef(), true
	case "a":
		return AllStatesRef(), true
	}
	i, err := strconv.Atoi(token)
	if err != nil || i < 0 || strings.HasPrefix(token, "+") {
		return StateRef{}, false
	}
	return StateRef{kind: refIndex, index: i}, true
}

type StateKind int

const (
	StateSingle StateKind = iota + 1
	StateAll
	StateTransition
)

// ReferenceState is the electronic state or transition a quantity refers to.
// The zero value is invalid.
type ReferenceState struct {
	kind     StateKind
	ref      StateRef
	from, to StateRef
}

// SingleState refers to one state. An all-states ref yields AllStates().
func SingleState(ref StateRef) ReferenceState {
	if ref.IsAll() {
		return AllStates()
	}
	return ReferenceState{kind: StateSingle, ref: ref}
}

func CurrentState() ReferenceState {
	return SingleState(CurrentStateRef())
}

func AllStates() ReferenceState {
	return ReferenceState{kind: StateAll, ref: AllStatesRef()}
}

// Transition refers to the electronic transition from -> to.
func Transition(from, to StateRef) ReferenceState {
	return ReferenceState{kind: StateTransition, from: from, to: to}
}

// ParseReferenceState reads a state token: an index, "c", "a", or "i->j" where
// either side is an index or a sentinel.
func ParseReferenceState(token string) (ReferenceState, error) {
	if from, to, found := strings.Cut(token, "->"); found {
		initial, okFrom := parseStateRef(from)
		final, okTo := parseStateRef(to)
		if !okFrom || !okTo {
			return ReferenceState{}, newFieldError(ErrMalformedReferenceState, FieldReferenceState, token)
		}
		return Transition(initial, final), nil
	}

	ref, ok := parseStateRef(token)
	if !ok {
		return ReferenceState{}, newFieldError(ErrMalformedReferenceState, FieldReferenceState, token)
	}
	return SingleState(ref), nil
}

func (s ReferenceState) Kind() StateKind {
	return s.kind
}

func (s ReferenceState) IsValid() bool {
	return s.kind != 0
}

// State returns the referenced state for single and all-states references.
func (s ReferenceState) State() (StateRef, bool) {
	return s.ref, s.kind == StateSingle || s.kind == StateAll
}

// Transition returns the initial and final states of a transition.
func (s ReferenceState) Transition() (StateRef, StateRef, bool) {
	return s.from, s.to, s.kind == StateTransition
}

func (s ReferenceState) IsCurrent() bool {
	return s.kind == StateSingle && s.ref.IsCurrent()
}

func (s ReferenceState) String() string {
	switch s.kind {
	case StateTransition:
		return s.from.String() + "->" + s.to.String()
	case StateSingle, StateAll:
		return s.ref.String()
	default:
		return ""
	}
}
