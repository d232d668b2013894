// Package eligibility implements the approved-fault set, excluded-host
// set, daily schedule cap, and the pure gate function applied to each
// Job before it is dispatched (spec.md §3, §4.2).
package eligibility

import (
	"sync/atomic"

	"github.com/cuemby/felix/pkg/types"
)

// ApprovedFaults is an exact, case-sensitive set of fault-id strings.
type ApprovedFaults struct {
	set map[string]struct{}
}

// NewApprovedFaults builds an ApprovedFaults set from a slice of fault ids.
func NewApprovedFaults(ids []string) *ApprovedFaults {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return &ApprovedFaults{set: set}
}

// Contains reports whether id is an approved fault, exact match only.
func (a *ApprovedFaults) Contains(id string) bool {
	if a == nil {
		return false
	}
	_, ok := a.set[id]
	return ok
}

// Len returns the number of approved faults.
func (a *ApprovedFaults) Len() int {
	if a == nil {
		return 0
	}
	return len(a.set)
}

// ExcludedHosts is a set of hostnames excluded from all automated action.
type ExcludedHosts struct {
	set map[string]struct{}
}

// NewExcludedHosts builds an ExcludedHosts set from a slice of hostnames.
func NewExcludedHosts(hosts []string) *ExcludedHosts {
	set := make(map[string]struct{}, len(hosts))
	for _, h := range hosts {
		set[h] = struct{}{}
	}
	return &ExcludedHosts{set: set}
}

// Contains reports whether hostname is excluded.
func (e *ExcludedHosts) Contains(hostname string) bool {
	if e == nil {
		return false
	}
	_, ok := e.set[hostname]
	return ok
}

// DailyCap bounds the number of schedule invocations within one process
// lifetime using an atomic increment-and-test counter (spec.md §5). A
// worker that loses the race observes the cap as already reached and
// returns SkipCap without having consumed a slot.
type DailyCap struct {
	limit   int64
	counter int64
}

// NewDailyCap creates a cap allowing up to limit schedule invocations.
// A non-positive limit disables scheduling entirely.
func NewDailyCap(limit int) *DailyCap {
	return &DailyCap{limit: int64(limit)}
}

// TryReserve atomically reserves one slot. It returns true if the slot
// was granted (the caller may now call schedule) or false if the cap has
// already been reached.
func (c *DailyCap) TryReserve() bool {
	if c.limit <= 0 {
		return false
	}
	n := atomic.AddInt64(&c.counter, 1)
	if n > c.limit {
		atomic.AddInt64(&c.counter, -1)
		return false
	}
	return true
}

// Used returns the number of slots currently reserved.
func (c *DailyCap) Used() int {
	return int(atomic.LoadInt64(&c.counter))
}

// Result is the outcome of the eligibility gate.
type Result string

const (
	Proceed      Result = "PROCEED"
	SkipCap      Result = "SKIP-CAP"
	SkipExcluded Result = "SKIP-EXCLUDED"
	SkipFault    Result = "SKIP-FAULT"
)

// Gate is the pure check applied immediately before dispatching a Job:
// the host is still not excluded (defence in depth against a stale job
// list), the fault is still approved, and the daily cap has not been
// reached. Evaluation order matches spec.md §4.2: excluded, then fault,
// then cap, so a cap slot is never reserved for an otherwise-ineligible
// job.
func Gate(job types.Job, approved *ApprovedFaults, excluded *ExcludedHosts, cap *DailyCap) Result {
	if excluded.Contains(job.Hostname) {
		return SkipExcluded
	}
	if !approved.Contains(job.FaultID) {
		return SkipFault
	}
	if !cap.TryReserve() {
		return SkipCap
	}
	return Proceed
}
