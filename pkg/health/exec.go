package health

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"
)

// ExecChecker runs a local diagnostic command (a node-side agent script,
// an SSH-wrapped remote probe, etc.) and treats exit code 0 as healthy.
type ExecChecker struct {
	// Command is the command to execute, e.g. ["ssh", hostname, "gpu-diag", "--quick"].
	Command []string

	// Timeout is the command execution timeout (default: 10 seconds)
	Timeout time.Duration
}

// NewExecChecker creates a new exec health checker.
func NewExecChecker(command []string) *ExecChecker {
	return &ExecChecker{
		Command: command,
		Timeout: 10 * time.Second,
	}
}

func (e *ExecChecker) Check(ctx context.Context) Result {
	start := time.Now()

	if len(e.Command) == 0 {
		return Result{Healthy: false, Message: "no command specified", CheckedAt: start, Duration: time.Since(start)}
	}

	execCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(execCtx, e.Command[0], e.Command[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	message := fmt.Sprintf("command: %v", e.Command)
	if err := cmd.Run(); err != nil {
		message = fmt.Sprintf("%s, error: %v", message, err)
		if stderr.Len() > 0 {
			message = fmt.Sprintf("%s, stderr: %s", message, stderr.String())
		}
		return Result{Healthy: false, Message: message, CheckedAt: start, Duration: time.Since(start)}
	}

	if stdout.Len() > 0 {
		output := stdout.String()
		if len(output) > 100 {
			output = output[:100] + "..."
		}
		message = fmt.Sprintf("%s, output: %s", message, output)
	}

	return Result{Healthy: true, Message: message, CheckedAt: start, Duration: time.Since(start)}
}

func (e *ExecChecker) Type() CheckType { return CheckTypeExec }

// WithTimeout sets the execution timeout.
func (e *ExecChecker) WithTimeout(timeout time.Duration) *ExecChecker {
	e.Timeout = timeout
	return e
}
