package orchestrator

import (
	"github.com/cuemby/felix/pkg/audit"
	"github.com/cuemby/felix/pkg/cloud"
	"github.com/cuemby/felix/pkg/metrics"
	"github.com/cuemby/felix/pkg/retry"
	"github.com/cuemby/felix/pkg/workloadmanager"
)

// Deps bundles one host worker's collaborators. Cloud and WLM are assumed
// thread-safe (spec.md §5); callers that can't make that assumption hand
// each worker its own client instance.
type Deps struct {
	Cloud  cloud.ComputeClient
	WLM    workloadmanager.Client
	Health HealthChecker
	Ticket TicketHook
	Audit  audit.Sink

	ScheduleRetry retry.Policy

	PassID string
	DryRun bool
}

func (d Deps) audit(phase, action, host string, fields map[string]any) {
	metrics.AuditAppendsTotal.WithLabelValues(phase, action).Inc()
	if phase == "maintenance" && action == "schedule_accepted" {
		metrics.ScheduleRequestsTotal.Inc()
	}
	if d.Audit == nil {
		return
	}
	_ = d.Audit.Append(audit.Record{
		Phase:  phase,
		Action: action,
		Host:   host,
		PassID: d.PassID,
		DryRun: d.DryRun,
		Fields: fields,
	})
}
