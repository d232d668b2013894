package cloud

import (
	"context"
	"fmt"
	"sync"

	"github.com/cuemby/felix/pkg/types"
)

// Fake is an in-memory ComputeClient for tests. Discovery and orchestrator
// tests seed Events/WorkRequests directly instead of standing up an HTTP
// server, the same fake-collaborator shape the teacher uses for its own
// manager-facing interfaces.
type Fake struct {
	mu            sync.Mutex
	Compartments  []string
	Events        map[string]types.MaintenanceEvent
	WorkRequests  map[string]WorkRequest
	UpdateCalls   []string
	ListErr       map[string]error
	NextWorkReqID func() string
	seq           int
}

// NewFake builds an empty fake ComputeClient.
func NewFake() *Fake {
	return &Fake{
		Events:       make(map[string]types.MaintenanceEvent),
		WorkRequests: make(map[string]WorkRequest),
		ListErr:      make(map[string]error),
	}
}

func (f *Fake) ListCompartments(ctx context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.Compartments...), nil
}

// ListInstanceMaintenanceEvents returns every seeded event belonging to
// compartmentID, or the configured error for that compartment if set.
func (f *Fake) ListInstanceMaintenanceEvents(ctx context.Context, compartmentID string) ([]types.MaintenanceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.ListErr[compartmentID]; ok {
		return nil, err
	}
	var out []types.MaintenanceEvent
	for _, e := range f.Events {
		if e.CompartmentID == compartmentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *Fake) GetInstanceMaintenanceEvent(ctx context.Context, eventID string) (types.MaintenanceEvent, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.Events[eventID]
	if !ok {
		return types.MaintenanceEvent{}, fmt.Errorf("cloud: fake: unknown event %s", eventID)
	}
	return e, nil
}

func (f *Fake) UpdateInstanceMaintenanceEvent(ctx context.Context, eventID string, req UpdateEventRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.Events[eventID]
	if !ok {
		return "", fmt.Errorf("cloud: fake: unknown event %s", eventID)
	}
	f.UpdateCalls = append(f.UpdateCalls, eventID)
	e.LifecycleState = types.LifecycleStarted
	f.Events[eventID] = e

	f.seq++
	id := fmt.Sprintf("wr-%d", f.seq)
	if f.NextWorkReqID != nil {
		id = f.NextWorkReqID()
	}
	f.WorkRequests[id] = WorkRequest{ID: id, State: types.WorkRequestAccepted}
	return id, nil
}

func (f *Fake) GetWorkRequest(ctx context.Context, workRequestID string) (WorkRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wr, ok := f.WorkRequests[workRequestID]
	if !ok {
		return WorkRequest{}, fmt.Errorf("cloud: fake: unknown work request %s", workRequestID)
	}
	return wr, nil
}

// SetWorkRequestState lets a test advance a work request to a new state,
// simulating the provider completing an asynchronous operation.
func (f *Fake) SetWorkRequestState(id string, state types.WorkRequestState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	wr := f.WorkRequests[id]
	wr.State = state
	f.WorkRequests[id] = wr
}

// SetEventState lets a test advance an event's lifecycle state directly,
// simulating the provider moving maintenance forward.
func (f *Fake) SetEventState(eventID string, state types.LifecycleState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e := f.Events[eventID]
	e.LifecycleState = state
	f.Events[eventID] = e
}

// SetAllWorkRequestsState advances every currently-tracked work request
// to state, for tests driving several concurrent jobs through a pass
// without needing to know their dynamically-assigned ids in advance.
func (f *Fake) SetAllWorkRequestsState(state types.WorkRequestState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, wr := range f.WorkRequests {
		wr.State = state
		f.WorkRequests[id] = wr
	}
}
