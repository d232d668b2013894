package orchestrator

import (
	"context"

	"github.com/cuemby/felix/pkg/types"
)

// Finalize translates the combined outcome of the prior phases into a
// workload-manager state transition (spec.md §4.7).
//
// On pass, the node is resumed and its drain reason cleared. On fail, the
// node stays drained with its reason set to "<fault_id>:<failure_kind>"
// and the ticket hook is invoked; the hook is a no-op by default
// (spec.md §9).
func Finalize(ctx context.Context, job types.Job, deps Deps, cfg Config, pass bool, failKind ErrKind) *PhaseError {
	if pass {
		if !deps.DryRun {
			// Guard read: a repeated catchup pass over an already-resumed
			// host must not re-issue set_resume (spec.md §8 idempotence
			// property), since there is no transactional guarantee that a
			// second call is harmless on every workload manager.
			callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
			state, err := deps.WLM.NodeState(callCtx, job.Hostname)
			cancel()
			if err != nil {
				return &PhaseError{Kind: TransientExternalError, Detail: "node_state guard read failed", Err: err}
			}
			if state.Quiesced() {
				callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
				err := deps.WLM.SetResume(callCtx, job.Hostname)
				cancel()
				if err != nil {
					return &PhaseError{Kind: TransientExternalError, Detail: "set_resume failed", Err: err}
				}
			}
		}
		deps.audit("finalize", "resumed", job.Hostname, nil)
		return nil
	}

	reason := job.FaultID + ":" + string(failKind)
	if !deps.DryRun {
		callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
		err := deps.WLM.SetDrain(callCtx, job.Hostname, reason)
		cancel()
		if err != nil {
			return &PhaseError{Kind: TransientExternalError, Detail: "set_drain (hold) failed", Err: err}
		}
		if deps.Ticket != nil {
			_ = deps.Ticket.Open(ctx, job.Hostname, reason)
		}
	}
	deps.audit("finalize", "held", job.Hostname, map[string]any{"reason": reason})
	return nil
}
