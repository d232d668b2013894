package orchestrator

import (
	"context"
	"time"

	"github.com/cuemby/felix/pkg/types"
)

// Drain requests the workload manager quiesce job.Hostname and waits for
// the node to be observed in DRAIN or DRAINED (spec.md §4.3). The drain
// request is sent even if the node is already quiesced at the initial
// read — the request is idempotent and the poll then returns immediately.
//
// In dry-run, the mutating set_drain call and the poll are both elided:
// drain is audited as the intended action and treated as immediately
// successful, matching spec.md §8's dry-run equivalence property.
func Drain(ctx context.Context, job types.Job, deps Deps, cfg Config) *PhaseError {
	reason := job.FaultID
	deps.audit("drain", "requested", job.Hostname, map[string]any{"reason": reason})

	if deps.DryRun {
		deps.audit("drain", "drained_empty", job.Hostname, nil)
		return nil
	}

	callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	err := deps.WLM.SetDrain(callCtx, job.Hostname, reason)
	cancel()
	if err != nil {
		return &PhaseError{Kind: TransientExternalError, Detail: "set_drain failed", Err: err}
	}

	deadline := time.Now().Add(cfg.DrainTimeout)
	for {
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		state, err := deps.WLM.NodeState(callCtx, job.Hostname)
		cancel()
		if err == nil && state.Quiesced() {
			deps.audit("drain", "drained_empty", job.Hostname, nil)
			return nil
		}

		if !time.Now().Before(deadline) {
			return &PhaseError{Kind: DrainTimeout, Detail: "node did not reach quiesced state before deadline"}
		}

		select {
		case <-ctx.Done():
			return &PhaseError{Kind: Cancelled, Detail: ctx.Err().Error(), Err: ctx.Err()}
		case <-time.After(cfg.DrainPollInterval):
		}
	}
}
