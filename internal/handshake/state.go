// Package handshake tracks the progress of a single handshake attempt.
package handshake

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// State represents the current phase of a handshake attempt.
type State int

const (
	// StateInit is the phase before any message has moved.
	StateInit State = iota

	// StateHandSent indicates the initiator has written its Hand.
	StateHandSent

	// StateShakeReceived indicates the initiator has read the Shake reply.
	StateShakeReceived

	// StateHandReceived indicates the responder has read the peer's Hand.
	StateHandReceived

	// StateShakeSent indicates the responder has written its Shake reply.
	StateShakeSent

	// StateComplete indicates the handshake finished successfully.
	StateComplete

	// StateFailed indicates the handshake failed.
	StateFailed
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateInit:
		return "Init"
	case StateHandSent:
		return "HandSent"
	case StateShakeReceived:
		return "ShakeReceived"
	case StateHandReceived:
		return "HandReceived"
	case StateShakeSent:
		return "ShakeSent"
	case StateComplete:
		return "Complete"
	case StateFailed:
		return "Failed"
	default:
		return fmt.Sprintf("State(%d)", s)
	}
}

// ErrInvalidTransition indicates an invalid state transition was attempted.
var ErrInvalidTransition = errors.New("invalid handshake state transition")

// Tracker records the phase, duration, and terminal error of one handshake
// attempt. There are no retries: a handshake either completes or fails, and
// the caller decides whether to dial again on a fresh connection.
//
// All methods are safe for concurrent use.
type Tracker struct {
	mu        sync.Mutex
	state     State
	lastError error
	startTime time.Time
}

// NewTracker creates a tracker in StateInit.
func NewTracker() *Tracker {
	return &Tracker{
		state:     StateInit,
		startTime: time.Now(),
	}
}

// State returns the current state.
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// LastError returns the error recorded by Fail, if any.
func (t *Tracker) LastError() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastError
}

// Duration returns the time elapsed since the attempt started.
func (t *Tracker) Duration() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return time.Since(t.startTime)
}

// Transition moves to a new state, or reports ErrInvalidTransition.
func (t *Tracker) Transition(to State) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !isValidTransition(t.state, to) {
		return fmt.Errorf("%w: %v -> %v", ErrInvalidTransition, t.state, to)
	}

	t.state = to
	return nil
}

// Fail marks the attempt as failed with the given error.
func (t *Tracker) Fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = StateFailed
	t.lastError = err
}

// IsComplete returns true if the attempt completed successfully.
func (t *Tracker) IsComplete() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateComplete
}

// IsTerminal returns true if the attempt reached Complete or Failed.
func (t *Tracker) IsTerminal() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state == StateComplete || t.state == StateFailed
}

// isValidTransition checks if a state transition is valid.
// Valid transitions:
//
//	Init -> HandSent (initiator), HandReceived (responder), Failed
//	HandSent -> ShakeReceived, Failed
//	ShakeReceived -> Complete, Failed
//	HandReceived -> ShakeSent, Failed
//	ShakeSent -> Complete, Failed
//	Complete, Failed -> (terminal)
func isValidTransition(from, to State) bool {
	if to == StateFailed {
		return from != StateComplete && from != StateFailed
	}
	switch from {
	case StateInit:
		return to == StateHandSent || to == StateHandReceived
	case StateHandSent:
		return to == StateShakeReceived
	case StateShakeReceived:
		return to == StateComplete
	case StateHandReceived:
		return to == StateShakeSent
	case StateShakeSent:
		return to == StateComplete
	default:
		return false
	}
}
