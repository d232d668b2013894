// Package workloadmanager declares the workload-manager collaborator
// contract (spec.md §6) and a concrete client that drives a Slurm
// command-line toolchain via os/exec, the way the teacher's
// pkg/health.ExecChecker drives host commands.
package workloadmanager

import (
	"context"

	"github.com/cuemby/felix/pkg/types"
)

// Client is the abstract workload-manager collaborator. Every method acts
// on one host by hostname; state transitions are idempotent at the
// workload manager's own level (spec.md §4.2 "already-quiesced" case).
type Client interface {
	// NodeState reads the current scheduler-visible state of a host.
	NodeState(ctx context.Context, hostname string) (types.NodeState, error)

	// SetDrain marks a host for draining with an operator-visible reason,
	// so new work stops landing there (spec.md §4.2).
	SetDrain(ctx context.Context, hostname, reason string) error

	// SetResume clears a drain/down reservation, returning the host to
	// scheduler availability (spec.md §4.7 "finalize, healthy" path).
	SetResume(ctx context.Context, hostname string) error

	// SetDown marks a host administratively down. The phase drivers do
	// not call it: finalize holds an unhealthy host with SetDrain instead.
	SetDown(ctx context.Context, hostname, reason string) error
}
