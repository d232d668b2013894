/*
Package types defines the domain model shared by every felix package:
the provider's maintenance events, the hosts they resolve to, and the
Job a single worker carries end to end from drain through finalize.

# Core Types

MaintenanceEvent is the opaque record read from the cloud provider's
maintenance API. felix never mutates it directly — it only requests a
maintenance window through the provider's update call and re-reads the
provider's view.

LifecycleState tracks a MaintenanceEvent through the provider's state
machine:

	SCHEDULED → STARTED → PROCESSING → SUCCEEDED/COMPLETED
	                                 ↘ FAILED
	                                 ↘ CANCELED

SUCCEEDED and COMPLETED are treated as identical terminal-success states;
see LifecycleState.Success.

NodeState is the workload manager's observable state for a host, used by
the drain phase to decide whether a host is already quiesced:

	IDLE / ALLOCATED / MIXED → DRAIN → DRAINED → (maintenance) → resume

WorkRequestState tracks the work request the provider returns for that
update call, independently of the event's own lifecycle state.

Job is the unit of work discovery produces and the orchestrator carries
through a single pass: one MaintenanceEvent resolved to one hostname,
with the fault ID and compartment needed to evaluate eligibility and the
window start needed for reporting.

# Integration Points

This package integrates with:

  - pkg/cloud: reads and transitions MaintenanceEvent lifecycle state
  - pkg/discovery: resolves instances to Job values
  - pkg/eligibility: gates a Job on FaultID/Hostname/daily cap
  - pkg/orchestrator: drives a Job through drain/maintenance/health/finalize
  - pkg/workloadmanager: queries and mutates NodeState
*/
package types
