// Package requests tracks the lifecycle of the four backend operations the
// redirect list issues.
package requests

import (
	"redirector/internal/domain/models"
)

// Op identifies a backend operation.
type Op int

// Operations.
const (
	Get Op = iota
	Add
	Remove
	GetStatistics

	opCount
)

// Ops lists every operation.
var Ops = []Op{Get, Add, Remove, GetStatistics}

func (o Op) String() string {
	switch o {
	case Get:
		return "get"
	case Add:
		return "add"
	case Remove:
		return "remove"
	case GetStatistics:
		return "getstatistics"
	default:
		return "unknown"
	}
}

// State - lifecycle of the latest request of one operation.
type State struct {
	Loading bool
	Loaded  bool
	Err     error
}

// Pending is the state of a request in flight.
func (State) Pending() State {
	return State{Loading: true}
}

// Succeeded is the state after a response arrived. Items the backend refused
// are kept as a PartialFailureError next to Loaded.
func (State) Succeeded(op Op, failed []models.FailedItem) State {
	s := State{Loaded: true}
	if len(failed) > 0 {
		s.Err = &models.PartialFailureError{Op: op.String(), Failed: failed}
	}
	return s
}

// Failed is the state after the request errored.
func (State) Failed(err error) State {
	return State{Err: err}
}

// Tracker holds one State per operation. The zero value is ready to use.
type Tracker struct {
	states [opCount]State
}

// State returns the current state of op.
func (t *Tracker) State(op Op) State {
	return t.states[op]
}

// Start marks op as pending.
func (t *Tracker) Start(op Op) {
	t.states[op] = t.states[op].Pending()
}

// Succeed marks op as loaded.
func (t *Tracker) Succeed(op Op, failed []models.FailedItem) {
	t.states[op] = t.states[op].Succeeded(op, failed)
}

// Fail marks op as failed with err.
func (t *Tracker) Fail(op Op, err error) {
	t.states[op] = t.states[op].Failed(err)
}

// Snapshot copies all states.
func (t *Tracker) Snapshot() map[Op]State {
	out := make(map[Op]State, opCount)
	for _, op := range Ops {
		out[op] = t.states[op]
	}
	return out
}
