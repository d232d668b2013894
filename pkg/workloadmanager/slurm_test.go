package workloadmanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseNodeStateSingleToken(t *testing.T) {
	state, ok := parseNodeState("NodeName=GPU-332 Arch=x86_64 State=IDLE ThreadsPerCore=1\n")
	assert.True(t, ok)
	assert.Equal(t, "IDLE", string(state))
}

func TestParseNodeStateCompoundTokenPrefersRecognized(t *testing.T) {
	state, ok := parseNodeState("NodeName=GPU-332 State=IDLE+DRAIN Reason=maintenance\n")
	assert.True(t, ok)
	assert.Equal(t, "DRAIN", string(state))
}

func TestParseNodeStateMissingFieldFails(t *testing.T) {
	_, ok := parseNodeState("NodeName=GPU-332 Arch=x86_64\n")
	assert.False(t, ok)
}
