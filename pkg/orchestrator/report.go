package orchestrator

import (
	"context"
	"sort"

	"github.com/cuemby/felix/pkg/cloud"
	"github.com/cuemby/felix/pkg/eligibility"
	"github.com/cuemby/felix/pkg/inventory"
	"github.com/cuemby/felix/pkg/retry"
	"github.com/cuemby/felix/pkg/types"
)

// ReportDeps bundles the read-only collaborators a report needs. It is
// deliberately narrower than discovery.Deps: a report never touches the
// audit sink, since read paths are not mutating actions (spec.md §6
// "report ... read-only").
type ReportDeps struct {
	Cloud     cloud.ComputeClient
	Inventory inventory.Client
	Approved  *eligibility.ApprovedFaults
	Excluded  *eligibility.ExcludedHosts
	Retry     retry.Policy
}

// ReportEntry is one discovered event's row in the report view
// (SPEC_FULL.md Part D "report subcommand detail").
type ReportEntry struct {
	EventID        string
	InstanceID     string
	CompartmentID  string
	Hostname       string
	LifecycleState types.LifecycleState
	FaultIDs       []string
	Approved       bool
	Excluded       bool
}

// ReportView is the full table a report run renders.
type ReportView struct {
	Entries []ReportEntry
}

// Report enumerates every event across every compartment, independent of
// the approval/exclusion filtering discovery applies to build the Job
// set, per spec.md §8 S3 ("event counted in report but not in job set").
// excludeStates drops matching lifecycle states from the view (repeat
// `-x STATE`); includeCanceled restores CANCELED rows that are dropped
// by default.
func Report(ctx context.Context, d ReportDeps, excludeStates map[types.LifecycleState]bool, includeCanceled bool) (ReportView, error) {
	compartments, err := d.Cloud.ListCompartments(ctx)
	if err != nil {
		return ReportView{}, err
	}

	var entries []ReportEntry
	for _, compartmentID := range compartments {
		events, err := d.Cloud.ListInstanceMaintenanceEvents(ctx, compartmentID)
		if err != nil {
			continue
		}

		for _, event := range events {
			if event.LifecycleState == types.LifecycleCanceled && !includeCanceled {
				continue
			}
			if excludeStates[event.LifecycleState] {
				continue
			}

			hostname := ""
			if host, err := resolveHostForReport(ctx, d, event.InstanceID); err == nil {
				hostname = host
			}

			approved := false
			for _, faultID := range event.FaultIDs {
				if d.Approved.Contains(faultID) {
					approved = true
					break
				}
			}

			entries = append(entries, ReportEntry{
				EventID:        event.EventID,
				InstanceID:     event.InstanceID,
				CompartmentID:  event.CompartmentID,
				Hostname:       hostname,
				LifecycleState: event.LifecycleState,
				FaultIDs:       event.FaultIDs,
				Approved:       approved,
				Excluded:       hostname != "" && d.Excluded.Contains(hostname),
			})
		}
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].EventID < entries[j].EventID })
	return ReportView{Entries: entries}, nil
}

func resolveHostForReport(ctx context.Context, d ReportDeps, instanceID string) (string, error) {
	var hostname string
	err := d.Retry.Do(ctx, func() error {
		host, err := d.Inventory.ResolveHost(ctx, instanceID)
		if err != nil {
			return err
		}
		hostname = host
		return nil
	})
	return hostname, err
}
