package orchestrator

import (
	"context"

	"github.com/cuemby/felix/pkg/types"
)

// RunHealth invokes deps.Health and audits the outcome (spec.md §4.6).
func RunHealth(ctx context.Context, job types.Job, deps Deps, cfg Config) HealthOutcome {
	callCtx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	outcome := deps.Health.Check(callCtx, job.Hostname)
	cancel()

	if outcome.Pass {
		deps.audit("health", "pass", job.Hostname, nil)
	} else {
		deps.audit("health", "fail", job.Hostname, map[string]any{"reason": outcome.Reason})
	}
	return outcome
}
