package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyDoSucceedsWithoutRetry(t *testing.T) {
	p := Policy{Attempts: 3, Base: time.Millisecond, Factor: 2, MaxDelay: 10 * time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestPolicyDoRetriesThenSucceeds(t *testing.T) {
	p := Policy{Attempts: 3, Base: time.Millisecond, Factor: 2, MaxDelay: 10 * time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestPolicyDoExhaustsAttempts(t *testing.T) {
	p := Policy{Attempts: 3, Base: time.Millisecond, Factor: 2, MaxDelay: 10 * time.Millisecond}

	calls := 0
	err := p.Do(context.Background(), func() error {
		calls++
		return errors.New("persistent")
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestPolicyDoHonorsCancellation(t *testing.T) {
	p := Policy{Attempts: 10, Base: 20 * time.Millisecond, Factor: 2, MaxDelay: time.Second}

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()

	err := p.Do(ctx, func() error {
		calls++
		return errors.New("keeps failing")
	})

	require.Error(t, err)
	assert.Less(t, calls, 10)
}

func TestDiscoveryInventoryPolicyMatchesSpec(t *testing.T) {
	p := DiscoveryInventoryPolicy()
	assert.Equal(t, uint(3), p.Attempts)
	assert.Equal(t, time.Second, p.Base)
	assert.Equal(t, 2.0, p.Factor)
}

func TestScheduleAcceptPolicyRetriesThreeTimes(t *testing.T) {
	p := ScheduleAcceptPolicy()
	assert.Equal(t, uint(3), p.Attempts)
}
