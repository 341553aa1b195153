// SPDX-FileCopyrightText: The skycast authors
//
// SPDX-License-Identifier: MIT

// Package netmon observes the OS network path state and exposes the current
// connectivity as a process-wide readable value. Monitors are single-writer:
// a background observer updates the state, any goroutine may read it.
package netmon

import "sync/atomic"

// State represents the current network connectivity state.
type State int32

const (
	// StateConnected indicates that a usable network path is available.
	StateConnected State = iota
	// StateDisconnected indicates that no usable network path is available.
	StateDisconnected
)

// String satisfies the fmt.Stringer interface for the State type.
func (s State) String() string {
	switch s {
	case StateConnected:
		return "connected"
	case StateDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Monitor is implemented by each connectivity observer backend.
type Monitor interface {
	State() State
}

// Static is a Monitor with a fixed state. It serves as the optimistic fallback
// when no observation backend is available and as a test double.
type Static struct {
	state State
}

// NewStatic returns a Static monitor pinned to the given state.
func NewStatic(state State) *Static {
	return &Static{state: state}
}

// State returns the pinned state.
func (s *Static) State() State {
	return s.state
}

// stateCell holds a State that is written by a single observer goroutine and
// read from any goroutine without tearing.
type stateCell struct {
	val atomic.Int32
}

func (c *stateCell) load() State {
	return State(c.val.Load())
}

func (c *stateCell) store(s State) {
	c.val.Store(int32(s))
}
