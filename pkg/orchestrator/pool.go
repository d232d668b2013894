package orchestrator

import (
	"context"
	"sync"

	"github.com/cuemby/felix/pkg/eligibility"
	"github.com/cuemby/felix/pkg/metrics"
	"github.com/cuemby/felix/pkg/types"
)

// Pass bundles one orchestrator pass: the job set to process and the
// eligibility state it is gated against (spec.md §2, §5).
type Pass struct {
	Jobs     []types.Job
	Deps     Deps
	Config   Config
	Approved *eligibility.ApprovedFaults
	Excluded *eligibility.ExcludedHosts
	Cap      *eligibility.DailyCap
	Mode     Mode
}

// RunPass fans Jobs out to a bounded pool of workers (spec.md §5). The
// queue guarantees each hostname is dispatched to at most one worker, so
// no two workers touch the same host concurrently. The eligibility gate
// runs on the dispatch goroutine before a Job reaches any worker, so a
// skipped Job never occupies a worker slot.
func RunPass(ctx context.Context, p Pass) []Outcome {
	workers := p.Config.MaxWorkers
	if workers <= 0 {
		workers = 1
	}

	jobCh := make(chan types.Job)
	outCh := make(chan Outcome, len(p.Jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobCh {
				outcome := RunHost(ctx, job, p.Deps, p.Config, p.Mode)
				metrics.HostOutcomesTotal.WithLabelValues(string(outcome.State), string(outcome.Kind)).Inc()
				outCh <- outcome
			}
		}()
	}

	go func() {
		defer close(jobCh)
		dispatched := make(map[string]bool, len(p.Jobs))
		for _, job := range p.Jobs {
			if dispatched[job.Hostname] {
				outCh <- Outcome{Host: job.Hostname, State: StateSkipped, Detail: "duplicate host in pass"}
				continue
			}
			result := eligibility.Gate(job, p.Approved, p.Excluded, p.Cap)
			if result != eligibility.Proceed {
				p.Deps.audit("skip", skipAction(result), job.Hostname, map[string]any{"reason": string(result)})
				metrics.JobsSkippedTotal.WithLabelValues(string(result)).Inc()
				outCh <- Outcome{Host: job.Hostname, State: StateSkipped, Detail: string(result)}
				continue
			}
			dispatched[job.Hostname] = true

			select {
			case jobCh <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(outCh)
	}()

	outcomes := make([]Outcome, 0, len(p.Jobs))
	for o := range outCh {
		outcomes = append(outcomes, o)
	}
	return outcomes
}

func skipAction(result eligibility.Result) string {
	switch result {
	case eligibility.SkipCap:
		return "cap"
	case eligibility.SkipExcluded:
		return "excluded"
	case eligibility.SkipFault:
		return "fault"
	default:
		return "unknown"
	}
}
