package orchestrator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfigMatchesSpecDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 30*time.Second, cfg.DrainPollInterval)
	assert.Equal(t, 30*time.Minute, cfg.DrainTimeout)
	assert.Equal(t, 30*time.Second, cfg.MaintPollInitial)
	assert.Equal(t, 300*time.Second, cfg.MaintPollCeiling)
	assert.Equal(t, 300*time.Second, cfg.ScheduleLeadSec)
	assert.Equal(t, "felix", cfg.ProcessedTag)
	assert.Equal(t, 8, cfg.MaxWorkers)
}
