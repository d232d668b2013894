package orchestrator

import "context"

// HealthOutcome is the result of a health check: PASS or FAIL with an
// optional reason (spec.md §4.6).
type HealthOutcome struct {
	Pass   bool
	Reason string
}

// HealthChecker is the pluggable post-maintenance health predicate. The
// concrete diagnostic suite (GPU/NIC/compute tests) is out of scope for
// this core (spec.md §1); implementations must be callable repeatedly,
// must not mutate external state, and must return within ctx's deadline.
type HealthChecker interface {
	Check(ctx context.Context, hostname string) HealthOutcome
}

// AlwaysPassChecker is the default placeholder HealthChecker.
type AlwaysPassChecker struct{}

func (AlwaysPassChecker) Check(ctx context.Context, hostname string) HealthOutcome {
	return HealthOutcome{Pass: true}
}
