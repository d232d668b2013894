// Package discovery produces the Job set for one orchestrator pass
// (spec.md §4.1).
package discovery

import (
	"context"
	"sort"

	"github.com/cuemby/felix/pkg/audit"
	"github.com/cuemby/felix/pkg/cloud"
	"github.com/cuemby/felix/pkg/eligibility"
	"github.com/cuemby/felix/pkg/inventory"
	"github.com/cuemby/felix/pkg/log"
	"github.com/cuemby/felix/pkg/metrics"
	"github.com/cuemby/felix/pkg/retry"
	"github.com/cuemby/felix/pkg/types"
)

// Deps bundles discovery's collaborators. The core depends only on these
// interfaces, never on concrete clients (spec.md §2 dependency order).
type Deps struct {
	Cloud     cloud.ComputeClient
	Inventory inventory.Client
	Approved  *eligibility.ApprovedFaults
	Excluded  *eligibility.ExcludedHosts
	Audit     audit.Sink
	Retry     retry.Policy
}

// Run executes the discovery algorithm from spec.md §4.1 steps 1-7 and
// returns the resulting Job list sorted by hostname.
//
// A per-compartment listing error does not abort discovery: it is logged
// and the remaining compartments continue. instance_id -> hostname
// resolution is retried with Deps.Retry before the event is dropped as
// unresolved.
func Run(ctx context.Context, d Deps) ([]types.Job, error) {
	logger := log.WithComponent("discovery")

	compartments, err := d.Cloud.ListCompartments(ctx)
	if err != nil {
		return nil, err
	}

	var jobs []types.Job
	for _, compartmentID := range compartments {
		events, err := d.Cloud.ListInstanceMaintenanceEvents(ctx, compartmentID)
		if err != nil {
			logger.Warn().Str("compartment_id", compartmentID).Err(err).Msg("list maintenance events failed")
			continue
		}

		for _, event := range events {
			if event.LifecycleState != types.LifecycleScheduled {
				continue
			}

			hostname, ok := d.resolveHost(ctx, event.InstanceID)
			if !ok {
				d.auditUnresolved(event)
				continue
			}

			if d.Excluded.Contains(hostname) {
				d.auditExcluded(event, hostname)
				continue
			}

			faultID, ok := pickFault(event.FaultIDs, d.Approved)
			if !ok {
				continue
			}

			jobs = append(jobs, types.Job{
				EventID:       event.EventID,
				InstanceID:    event.InstanceID,
				Hostname:      hostname,
				FaultID:       faultID,
				CompartmentID: event.CompartmentID,
				WindowStart:   event.TimeWindowStart,
			})
		}
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Hostname < jobs[j].Hostname })
	metrics.JobsDiscoveredTotal.Add(float64(len(jobs)))
	return jobs, nil
}

// resolveHost resolves instance_id -> hostname, retrying transient
// failures per Deps.Retry before reporting the instance unresolved.
func (d Deps) resolveHost(ctx context.Context, instanceID string) (string, bool) {
	var hostname string
	err := d.Retry.Do(ctx, func() error {
		host, err := d.Inventory.ResolveHost(ctx, instanceID)
		if err != nil {
			return err
		}
		hostname = host
		return nil
	})
	if err != nil {
		return "", false
	}
	return hostname, true
}

func (d Deps) auditUnresolved(event types.MaintenanceEvent) {
	if d.Audit == nil {
		return
	}
	_ = d.Audit.Append(audit.Record{
		Phase:  "discover",
		Action: "unresolved",
		Host:   event.InstanceID,
		Fields: map[string]any{
			"event_id":    event.EventID,
			"instance_id": event.InstanceID,
		},
	})
}

func (d Deps) auditExcluded(event types.MaintenanceEvent, hostname string) {
	if d.Audit == nil {
		return
	}
	_ = d.Audit.Append(audit.Record{
		Phase:  "discover",
		Action: "excluded",
		Host:   hostname,
		Fields: map[string]any{"event_id": event.EventID},
	})
}

// CatchupItem pairs a resolved Job with the event's current lifecycle
// state, letting the caller decide which mode to resume in (spec.md §6
// "enter the state machine at IN_MAINTENANCE/HEALTH for events already
// past SCHEDULED").
type CatchupItem struct {
	Job   types.Job
	State types.LifecycleState
}

// RunCatchup finds events that have moved past SCHEDULED — a prior pass
// already accepted or started their maintenance — and resolves them into
// Jobs, optionally narrowed to one hostname. CANCELED events are
// excluded: they never complete an orchestrator-driven maintenance.
func RunCatchup(ctx context.Context, d Deps, hostFilter string) ([]CatchupItem, error) {
	compartments, err := d.Cloud.ListCompartments(ctx)
	if err != nil {
		return nil, err
	}

	var items []CatchupItem
	for _, compartmentID := range compartments {
		events, err := d.Cloud.ListInstanceMaintenanceEvents(ctx, compartmentID)
		if err != nil {
			continue
		}

		for _, event := range events {
			if event.LifecycleState == types.LifecycleScheduled || event.LifecycleState == types.LifecycleCanceled {
				continue
			}

			hostname, ok := d.resolveHost(ctx, event.InstanceID)
			if !ok {
				continue
			}
			if hostFilter != "" && hostname != hostFilter {
				continue
			}
			if d.Excluded.Contains(hostname) {
				continue
			}
			faultID, ok := pickFault(event.FaultIDs, d.Approved)
			if !ok {
				continue
			}

			items = append(items, CatchupItem{
				Job: types.Job{
					EventID:       event.EventID,
					InstanceID:    event.InstanceID,
					Hostname:      hostname,
					FaultID:       faultID,
					CompartmentID: event.CompartmentID,
					WindowStart:   event.TimeWindowStart,
				},
				State: event.LifecycleState,
			})
		}
	}

	sort.Slice(items, func(i, j int) bool { return items[i].Job.Hostname < items[j].Job.Hostname })
	return items, nil
}

// pickFault intersects faultIDs with approved, returning the
// lexicographically smallest match (spec.md §3 Job invariant). ok is
// false when the intersection is empty.
func pickFault(faultIDs []string, approved *eligibility.ApprovedFaults) (string, bool) {
	var matches []string
	for _, id := range faultIDs {
		if approved.Contains(id) {
			matches = append(matches, id)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[0], true
}
