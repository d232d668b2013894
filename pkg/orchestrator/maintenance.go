package orchestrator

import (
	"context"
	"time"

	"github.com/cuemby/felix/pkg/types"
)

// PollMaintenance repeatedly reads the event by id until its
// lifecycle_state reaches a terminal value (spec.md §4.5). Backoff starts
// at cfg.MaintPollInitial and doubles up to cfg.MaintPollCeiling; there is
// no overall timeout, only ctx cancellation.
//
// A re-observed SCHEDULED is treated as "not yet started" and waiting
// continues (spec.md §8 boundary behavior); STARTED/PROCESSING likewise
// continue. On success the phase audits maintenance/event_complete; on
// FAILED/CANCELED it audits maintenance/event_failed and returns
// MaintenanceFailed.
func PollMaintenance(ctx context.Context, job types.Job, deps Deps, cfg Config) *PhaseError {
	if deps.DryRun {
		return nil
	}

	delay := cfg.MaintPollInitial
	for {
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		event, err := deps.Cloud.GetInstanceMaintenanceEvent(callCtx, job.EventID)
		cancel()
		if err != nil {
			return &PhaseError{Kind: TransientExternalError, Detail: "get_instance_maintenance_event failed", Err: err}
		}

		if event.LifecycleState.Terminal() {
			if event.LifecycleState.Success() {
				deps.audit("maintenance", "event_complete", job.Hostname, map[string]any{"lifecycle_state": string(event.LifecycleState)})
				return nil
			}
			deps.audit("maintenance", "event_failed", job.Hostname, map[string]any{"lifecycle_state": string(event.LifecycleState)})
			return &PhaseError{Kind: MaintenanceFailed, Detail: "provider reported " + string(event.LifecycleState)}
		}

		select {
		case <-ctx.Done():
			return &PhaseError{Kind: Cancelled, Detail: ctx.Err().Error(), Err: ctx.Err()}
		case <-time.After(delay):
		}

		delay *= 2
		if delay > cfg.MaintPollCeiling {
			delay = cfg.MaintPollCeiling
		}
	}
}
