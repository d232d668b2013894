package health

import (
	"context"
	"fmt"

	"github.com/cuemby/felix/pkg/orchestrator"
)

// Factory builds a Checker bound to one hostname. Keeping the factory
// separate from the Checker lets a single Suite serve every host in a
// pass instead of one Checker per node.
type Factory func(hostname string) Checker

// Suite composes Factories into an orchestrator.HealthChecker: every
// check must pass for the node to pass (spec.md §4.6). The first
// failing check's message becomes the outcome's Reason; remaining
// checks do not run.
type Suite struct {
	Factories []Factory
}

func (s Suite) Check(ctx context.Context, hostname string) orchestrator.HealthOutcome {
	for _, factory := range s.Factories {
		checker := factory(hostname)
		result := checker.Check(ctx)
		if !result.Healthy {
			return orchestrator.HealthOutcome{
				Pass:   false,
				Reason: fmt.Sprintf("%s check failed: %s", checker.Type(), result.Message),
			}
		}
	}
	return orchestrator.HealthOutcome{Pass: true}
}

// TCPPort returns a Factory dialing hostname:port.
func TCPPort(port int) Factory {
	return func(hostname string) Checker {
		return NewTCPChecker(fmt.Sprintf("%s:%d", hostname, port))
	}
}

// HTTPPath returns a Factory requesting http://hostname:port/path.
func HTTPPath(port int, path string) Factory {
	return func(hostname string) Checker {
		return NewHTTPChecker(fmt.Sprintf("http://%s:%d%s", hostname, port, path))
	}
}

// ExecCommand returns a Factory running a local command templated with
// hostname substituted for every "{host}" argument, e.g.
// ExecCommand("ssh", "{host}", "gpu-diag", "--quick").
func ExecCommand(argv ...string) Factory {
	return func(hostname string) Checker {
		command := make([]string, len(argv))
		for i, arg := range argv {
			if arg == "{host}" {
				arg = hostname
			}
			command[i] = arg
		}
		return NewExecChecker(command)
	}
}
