package workloadmanager

import (
	"context"
	"sync"

	"github.com/cuemby/felix/pkg/types"
)

// Fake is an in-memory Client for tests.
type Fake struct {
	mu          sync.Mutex
	States      map[string]types.NodeState
	DrainCalls  []string
	ResumeCalls []string
	DownCalls   []string
	DrainErr    error

	// NoAutoQuiesce, when true, makes SetDrain record the call without
	// advancing the host's state to DRAIN — for tests that need to drive
	// the quiesced transition themselves (e.g. via SetState) to exercise
	// the poll loop instead of completing it on the first read.
	NoAutoQuiesce bool
}

// NewFake builds a Fake with every host defaulting to IDLE unless seeded.
func NewFake() *Fake {
	return &Fake{States: make(map[string]types.NodeState)}
}

func (f *Fake) NodeState(ctx context.Context, hostname string) (types.NodeState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.States[hostname]; ok {
		return s, nil
	}
	return types.NodeIdle, nil
}

func (f *Fake) SetDrain(ctx context.Context, hostname, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.DrainErr != nil {
		return f.DrainErr
	}
	f.DrainCalls = append(f.DrainCalls, hostname)
	if !f.NoAutoQuiesce {
		f.States[hostname] = types.NodeDrain
	}
	return nil
}

func (f *Fake) SetResume(ctx context.Context, hostname string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ResumeCalls = append(f.ResumeCalls, hostname)
	f.States[hostname] = types.NodeIdle
	return nil
}

func (f *Fake) SetDown(ctx context.Context, hostname, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.DownCalls = append(f.DownCalls, hostname)
	f.States[hostname] = types.NodeDown
	return nil
}

// SetState lets a test advance a host directly to a state, simulating the
// scheduler completing a transition the orchestrator is polling for.
func (f *Fake) SetState(hostname string, state types.NodeState) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.States[hostname] = state
}
