package discovery

import (
	"context"
	"testing"

	"github.com/cuemby/felix/pkg/audit"
	"github.com/cuemby/felix/pkg/cloud"
	"github.com/cuemby/felix/pkg/eligibility"
	"github.com/cuemby/felix/pkg/inventory"
	"github.com/cuemby/felix/pkg/retry"
	"github.com/cuemby/felix/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseDeps(t *testing.T) (Deps, *cloud.Fake, *inventory.Fake, *audit.MemorySink) {
	t.Helper()
	cl := cloud.NewFake()
	inv := inventory.NewFake(map[string]string{})
	mem := audit.NewMemorySink()
	d := Deps{
		Cloud:     cl,
		Inventory: inv,
		Approved:  eligibility.NewApprovedFaults([]string{"HPCRDMA-0002-02"}),
		Excluded:  eligibility.NewExcludedHosts(nil),
		Audit:     mem,
		Retry:     retry.Policy{Attempts: 1, Base: 0},
	}
	return d, cl, inv, mem
}

func TestRunReturnsJobsForScheduledEventsWithApprovedFault(t *testing.T) {
	d, cl, inv, _ := baseDeps(t)
	cl.Compartments = []string{"c1"}
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID:        "evt-1",
		InstanceID:     "inst-1",
		CompartmentID:  "c1",
		FaultIDs:       []string{"HPCRDMA-0002-02"},
		LifecycleState: types.LifecycleScheduled,
	}
	inv.Mapping["inst-1"] = "GPU-332"

	jobs, err := Run(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "GPU-332", jobs[0].Hostname)
	assert.Equal(t, "HPCRDMA-0002-02", jobs[0].FaultID)
}

func TestRunSkipsNonScheduledEvents(t *testing.T) {
	d, cl, inv, _ := baseDeps(t)
	cl.Compartments = []string{"c1"}
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID: "evt-1", InstanceID: "inst-1", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleStarted,
	}
	inv.Mapping["inst-1"] = "GPU-332"

	jobs, err := Run(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, jobs)
}

func TestRunDropsUnresolvedInstancesAndAudits(t *testing.T) {
	d, cl, _, mem := baseDeps(t)
	cl.Compartments = []string{"c1"}
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID: "evt-1", InstanceID: "inst-missing", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleScheduled,
	}

	jobs, err := Run(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, []string{"discover/unresolved"}, mem.Actions("inst-missing"))
}

func TestRunDropsExcludedHosts(t *testing.T) {
	d, cl, inv, mem := baseDeps(t)
	d.Excluded = eligibility.NewExcludedHosts([]string{"GPU-332"})
	cl.Compartments = []string{"c1"}
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID: "evt-1", InstanceID: "inst-1", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleScheduled,
	}
	inv.Mapping["inst-1"] = "GPU-332"

	jobs, err := Run(context.Background(), d)
	require.NoError(t, err)
	assert.Empty(t, jobs)
	assert.Equal(t, []string{"discover/excluded"}, mem.Actions("GPU-332"))
}

func TestRunPicksLexicographicallySmallestApprovedFault(t *testing.T) {
	d, cl, inv, _ := baseDeps(t)
	d.Approved = eligibility.NewApprovedFaults([]string{"FAULT-B", "FAULT-A"})
	cl.Compartments = []string{"c1"}
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID: "evt-1", InstanceID: "inst-1", CompartmentID: "c1",
		FaultIDs: []string{"FAULT-B", "FAULT-A"}, LifecycleState: types.LifecycleScheduled,
	}
	inv.Mapping["inst-1"] = "GPU-332"

	jobs, err := Run(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, "FAULT-A", jobs[0].FaultID)
}

func TestRunContinuesAfterPerCompartmentListingError(t *testing.T) {
	d, cl, inv, _ := baseDeps(t)
	cl.Compartments = []string{"bad", "good"}
	cl.ListErr["bad"] = assert.AnError
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID: "evt-1", InstanceID: "inst-1", CompartmentID: "good",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleScheduled,
	}
	inv.Mapping["inst-1"] = "GPU-332"

	jobs, err := Run(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, jobs, 1)
}

func TestRunCatchupFindsEventsPastScheduled(t *testing.T) {
	d, cl, inv, _ := baseDeps(t)
	cl.Compartments = []string{"c1"}
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID: "evt-1", InstanceID: "inst-1", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleProcessing,
	}
	cl.Events["evt-2"] = types.MaintenanceEvent{
		EventID: "evt-2", InstanceID: "inst-2", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleScheduled,
	}
	inv.Mapping["inst-1"] = "GPU-332"
	inv.Mapping["inst-2"] = "GPU-900"

	items, err := RunCatchup(context.Background(), d, "")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "GPU-332", items[0].Job.Hostname)
	assert.Equal(t, types.LifecycleProcessing, items[0].State)
}

func TestRunCatchupExcludesCanceledEvents(t *testing.T) {
	d, cl, inv, _ := baseDeps(t)
	cl.Compartments = []string{"c1"}
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID: "evt-1", InstanceID: "inst-1", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleCanceled,
	}
	inv.Mapping["inst-1"] = "GPU-332"

	items, err := RunCatchup(context.Background(), d, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestRunCatchupNarrowsToOneHost(t *testing.T) {
	d, cl, inv, _ := baseDeps(t)
	cl.Compartments = []string{"c1"}
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID: "evt-1", InstanceID: "inst-1", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleSucceeded,
	}
	cl.Events["evt-2"] = types.MaintenanceEvent{
		EventID: "evt-2", InstanceID: "inst-2", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleSucceeded,
	}
	inv.Mapping["inst-1"] = "GPU-332"
	inv.Mapping["inst-2"] = "GPU-900"

	items, err := RunCatchup(context.Background(), d, "GPU-900")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "GPU-900", items[0].Job.Hostname)
}

func TestRunSortsJobsByHostname(t *testing.T) {
	d, cl, inv, _ := baseDeps(t)
	cl.Compartments = []string{"c1"}
	cl.Events["evt-1"] = types.MaintenanceEvent{
		EventID: "evt-1", InstanceID: "inst-1", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleScheduled,
	}
	cl.Events["evt-2"] = types.MaintenanceEvent{
		EventID: "evt-2", InstanceID: "inst-2", CompartmentID: "c1",
		FaultIDs: []string{"HPCRDMA-0002-02"}, LifecycleState: types.LifecycleScheduled,
	}
	inv.Mapping["inst-1"] = "GPU-900"
	inv.Mapping["inst-2"] = "GPU-100"

	jobs, err := Run(context.Background(), d)
	require.NoError(t, err)
	require.Len(t, jobs, 2)
	assert.Equal(t, "GPU-100", jobs[0].Hostname)
	assert.Equal(t, "GPU-900", jobs[1].Hostname)
}
