package fonts

import (
	"errors"
	"fmt"
)

// State is the progress of one enforcement run.
//
//	SCANNING → DONE                             clean file
//	SCANNING → ISSUES_FOUND → REPORTED          dry run, or fix could not apply
//	SCANNING → ISSUES_FOUND → REWRITTEN → DONE  fix mode
type State uint8

const (
	StateScanning State = iota
	StateIssuesFound
	StateReported
	StateRewritten
	StateDone
)

var stateNames = [...]string{
	StateScanning:    "SCANNING",
	StateIssuesFound: "ISSUES_FOUND",
	StateReported:    "REPORTED",
	StateRewritten:   "REWRITTEN",
	StateDone:        "DONE",
}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint8(s))
}

// ErrInvalidTransition reports a transition outside the state graph.
var ErrInvalidTransition = errors.New("fonts: invalid state transition")

var transitions = map[State][]State{
	StateScanning:    {StateDone, StateIssuesFound},
	StateIssuesFound: {StateReported, StateRewritten},
	StateRewritten:   {StateDone},
}

// machine keeps the current state and the path taken.
type machine struct {
	state   State
	history []State
}

func newMachine() *machine {
	return &machine{state: StateScanning, history: []State{StateScanning}}
}

func (m *machine) to(next State) error {
	for _, allowed := range transitions[m.state] {
		if allowed == next {
			m.state = next
			m.history = append(m.history, next)
			return nil
		}
	}
	return fmt.Errorf("%w: %s → %s", ErrInvalidTransition, m.state, next)
}

// Terminal reports whether no further transition is possible.
func (s State) Terminal() bool {
	return len(transitions[s]) == 0
}
