// Package call implements the call lifecycle state machine. At most one
// call is in flight per process; every transition funnels through the
// Controller's single lock.
package call

import "encoding/json"

// State is the lifecycle phase of the (single) call session.
type State int

const (
	// Idle: no active call, ready to start.
	Idle State = iota
	// Connecting: open instruction issued, waiting for the embed.
	Connecting
	// InCall: the embed confirmed the conference was joined.
	InCall
	// Disconnecting: teardown issued, waiting for the embed to close.
	Disconnecting
)

// CanTransitionTo reports whether moving to next is a legal step. Forced
// recovery to Idle after an embed failure bypasses this table on purpose.
func (s State) CanTransitionTo(next State) bool {
	switch s {
	case Idle:
		return next == Connecting
	case Connecting:
		return next == InCall || next == Disconnecting
	case InCall:
		return next == Disconnecting
	case Disconnecting:
		return next == Idle
	}
	return false
}

// Busy reports whether any call activity is in flight.
func (s State) Busy() bool {
	return s != Idle
}

// MarshalJSON emits the readable name; the frontend and logs key off
// "idle"/"connecting"/"in call"/"disconnecting", not enum ordinals.
func (s State) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case InCall:
		return "in call"
	case Disconnecting:
		return "disconnecting"
	}
	return "unknown"
}
