// Package cloud declares the cloud compute collaborator contract
// (spec.md §6) and a concrete client against the provider's REST API.
// The core never depends on the concrete client directly — only on the
// ComputeClient interface — so tests substitute a fake.
package cloud

import (
	"context"
	"time"

	"github.com/cuemby/felix/pkg/types"
)

// UpdateEventRequest is the mutating payload for scheduling maintenance:
// a chosen time window and the freeform tag marking the event as
// orchestrator-managed (spec.md §4.4).
type UpdateEventRequest struct {
	TimeWindowStart time.Time
	FreeformTags    map[string]string
}

// WorkRequest is the pollable handle for an asynchronous provider
// operation (spec.md §6 "get_work_request").
type WorkRequest struct {
	ID    string
	State types.WorkRequestState
}

// ComputeClient is the abstract cloud compute collaborator. Every method
// is a natural-key read or a single mutating call; idempotency is the
// caller's responsibility via guard reads (spec.md §1 non-goal iii).
type ComputeClient interface {
	// ListCompartments enumerates every compartment in scope (spec.md §4.1 step 1).
	ListCompartments(ctx context.Context) ([]string, error)

	// ListInstanceMaintenanceEvents lists events for one compartment (spec.md §4.1 step 2).
	ListInstanceMaintenanceEvents(ctx context.Context, compartmentID string) ([]types.MaintenanceEvent, error)

	// GetInstanceMaintenanceEvent re-reads one event by id, used for the
	// schedule pre-condition read (§4.4) and maintenance polling (§4.5).
	GetInstanceMaintenanceEvent(ctx context.Context, eventID string) (types.MaintenanceEvent, error)

	// UpdateInstanceMaintenanceEvent issues the maintenance trigger. [mutating]
	UpdateInstanceMaintenanceEvent(ctx context.Context, eventID string, req UpdateEventRequest) (workRequestID string, err error)

	// GetWorkRequest polls an asynchronous operation's state.
	GetWorkRequest(ctx context.Context, workRequestID string) (WorkRequest, error)
}
