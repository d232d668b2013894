package orchestrator

import (
	"context"
	"time"

	"github.com/cuemby/felix/pkg/cloud"
	"github.com/cuemby/felix/pkg/types"
)

// ScheduleOutcome is the result of the Schedule phase (spec.md §4.4).
type ScheduleOutcome struct {
	// AlreadyTransitioned is true when the pre-condition read found the
	// event had already left SCHEDULED; the phase was a no-op.
	AlreadyTransitioned bool
	WorkRequestID       string
}

// Schedule issues the maintenance trigger with a time window starting
// cfg.ScheduleLeadSec from now, tagged with cfg.ProcessedTag, then polls
// the returned work request to a terminal state before returning.
//
// The pre-condition read guards against a stale Job: if the event's
// lifecycle_state has already moved past SCHEDULED, Schedule is a no-op
// and the pipeline advances straight to maintenance polling.
func Schedule(ctx context.Context, job types.Job, deps Deps, cfg Config) (ScheduleOutcome, *PhaseError) {
	readCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	event, err := deps.Cloud.GetInstanceMaintenanceEvent(readCtx, job.EventID)
	cancel()
	if err != nil {
		return ScheduleOutcome{}, &PhaseError{Kind: TransientExternalError, Detail: "pre-condition read failed", Err: err}
	}
	if event.LifecycleState != types.LifecycleScheduled {
		return ScheduleOutcome{AlreadyTransitioned: true}, nil
	}

	windowStart := time.Now().Add(cfg.ScheduleLeadSec)
	deps.audit("maintenance", "schedule_request", job.Hostname, map[string]any{
		"window_start": windowStart.UTC().Format(time.RFC3339),
	})

	if deps.DryRun {
		return ScheduleOutcome{}, nil
	}

	req := cloud.UpdateEventRequest{
		TimeWindowStart: windowStart,
		FreeformTags:    map[string]string{"processed_by": cfg.ProcessedTag},
	}

	var workReqID string
	retryErr := deps.ScheduleRetry.Do(ctx, func() error {
		id, err := deps.Cloud.UpdateInstanceMaintenanceEvent(ctx, job.EventID, req)
		if err != nil {
			return err
		}
		workReqID = id
		return nil
	})
	if retryErr != nil {
		return ScheduleOutcome{}, &PhaseError{Kind: ScheduleFailed, Detail: "provider rejected schedule after retries", Err: retryErr}
	}

	wr, perr := pollWorkRequestTerminal(ctx, deps, cfg, workReqID)
	if perr != nil {
		return ScheduleOutcome{}, perr
	}
	if wr.State != types.WorkRequestSucceeded {
		return ScheduleOutcome{}, &PhaseError{Kind: ScheduleFailed, Detail: "work request ended " + string(wr.State)}
	}

	deps.audit("maintenance", "schedule_accepted", job.Hostname, map[string]any{"work_request_id": workReqID})
	return ScheduleOutcome{WorkRequestID: workReqID}, nil
}

// pollWorkRequestTerminal polls the provider's work-request handle for
// the schedule acceptance call itself, distinct from the longer-running
// maintenance-lifecycle poll in §4.5.
func pollWorkRequestTerminal(ctx context.Context, deps Deps, cfg Config, workRequestID string) (cloud.WorkRequest, *PhaseError) {
	for {
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		wr, err := deps.Cloud.GetWorkRequest(callCtx, workRequestID)
		cancel()
		if err != nil {
			return cloud.WorkRequest{}, &PhaseError{Kind: TransientExternalError, Detail: "get_work_request failed", Err: err}
		}
		if wr.State.Terminal() {
			return wr, nil
		}

		select {
		case <-ctx.Done():
			return cloud.WorkRequest{}, &PhaseError{Kind: Cancelled, Detail: ctx.Err().Error(), Err: ctx.Err()}
		case <-time.After(cfg.WorkRequestPollInterval):
		}
	}
}
