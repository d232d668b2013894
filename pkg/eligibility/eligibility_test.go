package eligibility

import (
	"testing"

	"github.com/cuemby/felix/pkg/types"
	"github.com/stretchr/testify/assert"
)

func TestGateSkipsExcludedHostBeforeFault(t *testing.T) {
	approved := NewApprovedFaults([]string{"HPCRDMA-0002-02"})
	excluded := NewExcludedHosts([]string{"gpu-001"})
	cap := NewDailyCap(10)

	job := types.Job{Hostname: "gpu-001", FaultID: "UNAPPROVED"}
	assert.Equal(t, SkipExcluded, Gate(job, approved, excluded, cap))
	assert.Equal(t, 0, cap.Used())
}

func TestGateSkipsUnapprovedFault(t *testing.T) {
	approved := NewApprovedFaults([]string{"HPCRDMA-0002-02"})
	excluded := NewExcludedHosts(nil)
	cap := NewDailyCap(10)

	job := types.Job{Hostname: "gpu-002", FaultID: "UNKNOWN"}
	assert.Equal(t, SkipFault, Gate(job, approved, excluded, cap))
	assert.Equal(t, 0, cap.Used())
}

func TestGateReservesCapSlotOnProceed(t *testing.T) {
	approved := NewApprovedFaults([]string{"HPCRDMA-0002-02"})
	excluded := NewExcludedHosts(nil)
	cap := NewDailyCap(1)

	job := types.Job{Hostname: "gpu-003", FaultID: "HPCRDMA-0002-02"}
	assert.Equal(t, Proceed, Gate(job, approved, excluded, cap))
	assert.Equal(t, 1, cap.Used())

	second := types.Job{Hostname: "gpu-004", FaultID: "HPCRDMA-0002-02"}
	assert.Equal(t, SkipCap, Gate(second, approved, excluded, cap))
}

func TestDailyCapNonPositiveLimitDisablesScheduling(t *testing.T) {
	cap := NewDailyCap(0)
	assert.False(t, cap.TryReserve())
}

func TestNilSetsAreSafeToQuery(t *testing.T) {
	var approved *ApprovedFaults
	var excluded *ExcludedHosts
	assert.False(t, approved.Contains("x"))
	assert.Equal(t, 0, approved.Len())
	assert.False(t, excluded.Contains("host"))
}
