// Package orchestrator composes the phase drivers into the per-host
// state machine and the bounded worker pool that drives a pass across
// many hosts (spec.md §4.8, §5).
package orchestrator

import "fmt"

// ErrKind names a failure category, not a Go type, so the state machine
// can map it directly onto a host's terminal outcome (spec.md §7).
type ErrKind string

const (
	ConfigError            ErrKind = "ConfigError"
	TransientExternalError ErrKind = "TransientExternalError"
	DrainTimeout           ErrKind = "DrainTimeout"
	ScheduleFailed         ErrKind = "ScheduleFailed"
	MaintenanceFailed      ErrKind = "MaintenanceFailed"
	HealthFailed           ErrKind = "HealthFailed"
	Cancelled              ErrKind = "Cancelled"
	Unresolved             ErrKind = "Unresolved"
)

// PhaseError is the error type every phase driver returns. The state
// machine never panics: every transition is a total function from a
// PhaseError (or nil) to the next host state.
type PhaseError struct {
	Kind   ErrKind
	Detail string
	Err    error
}

func (e *PhaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *PhaseError) Unwrap() error { return e.Err }
