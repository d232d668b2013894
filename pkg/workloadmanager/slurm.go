package workloadmanager

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cuemby/felix/pkg/types"
)

// SlurmClient drives `scontrol` via os/exec, the same pattern the teacher
// uses to shell out to host tooling in pkg/health.ExecChecker: build a
// exec.CommandContext, capture stdout/stderr, and translate the exit
// status and output into a domain result.
type SlurmClient struct {
	// Binary is the scontrol executable path; defaults to "scontrol" on
	// the PATH when empty.
	Binary string

	// Timeout bounds each invocation (spec.md §5 "default 30s").
	Timeout time.Duration
}

// NewSlurmClient builds a client with spec.md §5's default per-call timeout.
func NewSlurmClient() *SlurmClient {
	return &SlurmClient{Binary: "scontrol", Timeout: 30 * time.Second}
}

var slurmStateMap = map[string]types.NodeState{
	"IDLE":          types.NodeIdle,
	"ALLOCATED":     types.NodeAllocated,
	"MIXED":         types.NodeMixed,
	"DRAIN":         types.NodeDrain,
	"DRAINED":       types.NodeDrained,
	"DOWN":          types.NodeDown,
	"RESUME":        types.NodeResumePending,
	"RESUME-PENDING": types.NodeResumePending,
}

// NodeState runs `scontrol show node <hostname>` and parses the State=
// field. Slurm reports compound states (e.g. "IDLE+DRAIN"); a DRAIN or
// DRAINED token anywhere in the compound wins, since the node is then
// quiesced, otherwise the first recognized token is returned.
func (c *SlurmClient) NodeState(ctx context.Context, hostname string) (types.NodeState, error) {
	out, err := c.run(ctx, "show", "node", hostname)
	if err != nil {
		return "", fmt.Errorf("workloadmanager: node_state %s: %w", hostname, err)
	}
	state, ok := parseNodeState(out)
	if !ok {
		return "", fmt.Errorf("workloadmanager: node_state %s: no recognized State= field in output", hostname)
	}
	return state, nil
}

func parseNodeState(out string) (types.NodeState, bool) {
	idx := strings.Index(out, "State=")
	if idx < 0 {
		return "", false
	}
	field := out[idx+len("State="):]
	if sp := strings.IndexAny(field, " \t\n"); sp >= 0 {
		field = field[:sp]
	}
	var first types.NodeState
	found := false
	for _, token := range strings.Split(field, "+") {
		state, ok := slurmStateMap[token]
		if !ok {
			continue
		}
		if state.Quiesced() {
			return state, true
		}
		if !found {
			first, found = state, true
		}
	}
	return first, found
}

// SetDrain issues `scontrol update nodename=<hostname> state=drain
// reason=<reason>`. Idempotent: draining an already-draining node is a
// no-op accepted by Slurm (spec.md §4.3).
func (c *SlurmClient) SetDrain(ctx context.Context, hostname, reason string) error {
	_, err := c.run(ctx, "update", "nodename="+hostname, "state=drain", "reason="+reason)
	if err != nil {
		return fmt.Errorf("workloadmanager: set_drain %s: %w", hostname, err)
	}
	return nil
}

// SetResume issues `scontrol update nodename=<hostname> state=resume`.
func (c *SlurmClient) SetResume(ctx context.Context, hostname string) error {
	_, err := c.run(ctx, "update", "nodename="+hostname, "state=resume")
	if err != nil {
		return fmt.Errorf("workloadmanager: set_resume %s: %w", hostname, err)
	}
	return nil
}

// SetDown issues `scontrol update nodename=<hostname> state=down
// reason=<reason>`.
func (c *SlurmClient) SetDown(ctx context.Context, hostname, reason string) error {
	_, err := c.run(ctx, "update", "nodename="+hostname, "state=down", "reason="+reason)
	if err != nil {
		return fmt.Errorf("workloadmanager: set_down %s: %w", hostname, err)
	}
	return nil
}

func (c *SlurmClient) run(ctx context.Context, args ...string) (string, error) {
	timeout := c.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	runCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	binary := c.Binary
	if binary == "" {
		binary = "scontrol"
	}
	cmd := exec.CommandContext(runCtx, binary, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if stderr.Len() > 0 {
			return "", fmt.Errorf("%s: %s", err, strings.TrimSpace(stderr.String()))
		}
		return "", err
	}
	return stdout.String(), nil
}
