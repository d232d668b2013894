package orchestrator

import (
	"context"

	"github.com/cuemby/felix/pkg/types"
)

// HostState is one state in the per-host machine (spec.md §4.8).
type HostState string

const (
	StatePending    HostState = "PENDING"
	StateDraining   HostState = "DRAINING"
	StateDrained    HostState = "DRAINED"
	StateScheduling HostState = "SCHEDULING"
	StateInMainte   HostState = "IN_MAINTENANCE"
	StateHealth     HostState = "HEALTH"
	StateFinalizing HostState = "FINALIZING"
	StateDone       HostState = "DONE"
	StateSkipped    HostState = "SKIPPED"
	StateFailed     HostState = "FAILED"
)

// Mode selects how far into the machine a Job enters and how far it
// runs, per spec.md §4.8's stage-only and catchup truncations.
type Mode string

const (
	// ModeFull runs the entire PENDING..DONE machine.
	ModeFull Mode = "full"
	// ModeStage truncates at DRAINED -> SCHEDULING -> DONE, skipping
	// HEALTH and FINALIZE.
	ModeStage Mode = "stage"
	// ModeCatchupMaintenance enters at IN_MAINTENANCE, skipping DRAIN
	// and SCHEDULE.
	ModeCatchupMaintenance Mode = "catchup-maintenance"
	// ModeCatchupHealth enters at HEALTH, skipping DRAIN and SCHEDULE.
	ModeCatchupHealth Mode = "catchup-health"
)

// Outcome is a host's terminal report for one pass.
type Outcome struct {
	Host   string
	State  HostState
	Kind   ErrKind
	Detail string
}

// RunHost drives job through the state machine in mode, returning its
// terminal Outcome. The machine never panics: every branch below is a
// total function from the prior phase's result to the next state.
func RunHost(ctx context.Context, job types.Job, deps Deps, cfg Config, mode Mode) Outcome {
	state := StatePending

	switch mode {
	case ModeCatchupMaintenance:
		state = StateInMainte
	case ModeCatchupHealth:
		state = StateHealth
	default:
		state = StateDraining
	}

	if state == StateDraining {
		if perr := Drain(ctx, job, deps, cfg); perr != nil {
			return fail(job, perr)
		}
		state = StateDrained
	}

	if state == StateDrained {
		state = StateScheduling
		if _, perr := Schedule(ctx, job, deps, cfg); perr != nil {
			return fail(job, perr)
		}
		state = StateInMainte

		if mode == ModeStage {
			return Outcome{Host: job.Hostname, State: StateDone}
		}
	}

	if state == StateInMainte {
		if perr := PollMaintenance(ctx, job, deps, cfg); perr != nil {
			// Maintenance failure: skip health, go straight to
			// finalize-fail, keeping the node drained (spec.md §4.5, §4.8).
			if fperr := Finalize(ctx, job, deps, cfg, false, perr.Kind); fperr != nil {
				return fail(job, fperr)
			}
			return Outcome{Host: job.Hostname, State: StateFailed, Kind: perr.Kind, Detail: perr.Detail}
		}
		state = StateHealth
	}

	if state == StateHealth {
		healthOutcome := RunHealth(ctx, job, deps, cfg)
		state = StateFinalizing

		kind := ErrKind("")
		if !healthOutcome.Pass {
			kind = HealthFailed
		}
		if perr := Finalize(ctx, job, deps, cfg, healthOutcome.Pass, kind); perr != nil {
			return fail(job, perr)
		}
		if !healthOutcome.Pass {
			return Outcome{Host: job.Hostname, State: StateFailed, Kind: HealthFailed, Detail: healthOutcome.Reason}
		}
		state = StateDone
	}

	return Outcome{Host: job.Hostname, State: state}
}

func fail(job types.Job, perr *PhaseError) Outcome {
	return Outcome{Host: job.Hostname, State: StateFailed, Kind: perr.Kind, Detail: perr.Detail}
}
