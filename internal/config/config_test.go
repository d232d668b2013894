package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"OCI_TENANCY_OCID", "REGION", "DRAIN_POLL_SEC", "MAINT_POLL_SEC",
		"LOOP_INTERVAL_SEC", "DAILY_SCHEDULE_CAP", "MAX_WORKERS",
		"SCHEDULE_LEAD_SEC", "PROCESSED_TAG", "APPROVED_FAULT_CODES_FILE",
		"APPROVED_FAULT_CODES", "EXCLUDED_HOSTS_FILE", "EVENTS_LOG_FILE",
		"LOG_LEVEL", "LOG_FILE", "INVENTORY_FILE", "HEALTH_TCP_PORT",
		"HEALTH_HTTP_PORT", "HEALTH_HTTP_PATH", "HEALTH_EXEC_COMMAND",
		"STATUS_ADDR",
	} {
		os.Unsetenv(k)
	}
}

func TestLoadFailsWithoutRequiredFields(t *testing.T) {
	clearEnv(t)
	_, err := Load()
	require.Error(t, err)
}

func TestLoadAppliesSpecDefaults(t *testing.T) {
	clearEnv(t)
	os.Setenv("OCI_TENANCY_OCID", "ocid1.tenancy.oc1..abc")
	os.Setenv("REGION", "us-ashburn-1")
	os.Setenv("APPROVED_FAULT_CODES", "HPCRDMA-0002-02")
	defer clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 900*time.Second, cfg.LoopInterval)
	assert.Equal(t, 10, cfg.DailyScheduleCap)
	assert.Equal(t, 30*time.Second, cfg.Orchestrator.DrainPollInterval)
	assert.Equal(t, 30*time.Second, cfg.Orchestrator.MaintPollInitial)
	assert.Equal(t, 8, cfg.Orchestrator.MaxWorkers)
	assert.Equal(t, 300*time.Second, cfg.Orchestrator.ScheduleLeadSec)
	assert.Equal(t, "felix", cfg.Orchestrator.ProcessedTag)
	assert.Equal(t, "logs/events.jsonl", cfg.EventsLogFile)
	assert.Equal(t, []string{"HPCRDMA-0002-02"}, cfg.ApprovedFaultCodes)
	assert.Equal(t, "inventory.json", cfg.InventoryFile)
	assert.Equal(t, 0, cfg.HealthTCPPort)
	assert.Equal(t, "/health", cfg.HealthHTTPPath)
	assert.Empty(t, cfg.StatusAddr)
}

func TestLoadParsesHealthCheckOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("OCI_TENANCY_OCID", "ocid1.tenancy.oc1..abc")
	os.Setenv("REGION", "us-ashburn-1")
	os.Setenv("APPROVED_FAULT_CODES", "HPCRDMA-0002-02")
	os.Setenv("HEALTH_TCP_PORT", "22")
	os.Setenv("HEALTH_EXEC_COMMAND", "ssh,{host},gpu-diag,--quick")
	os.Setenv("STATUS_ADDR", "127.0.0.1:9100")
	defer clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 22, cfg.HealthTCPPort)
	assert.Equal(t, []string{"ssh", "{host}", "gpu-diag", "--quick"}, cfg.HealthExecCommand)
	assert.Equal(t, "127.0.0.1:9100", cfg.StatusAddr)
}

func TestLoadHonorsOverrides(t *testing.T) {
	clearEnv(t)
	os.Setenv("OCI_TENANCY_OCID", "ocid1.tenancy.oc1..abc")
	os.Setenv("REGION", "us-ashburn-1")
	os.Setenv("APPROVED_FAULT_CODES", "HPCRDMA-0002-02,OTHER-9999-99")
	os.Setenv("MAX_WORKERS", "4")
	os.Setenv("DAILY_SCHEDULE_CAP", "2")
	defer clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Orchestrator.MaxWorkers)
	assert.Equal(t, 2, cfg.DailyScheduleCap)
	assert.Equal(t, []string{"HPCRDMA-0002-02", "OTHER-9999-99"}, cfg.ApprovedFaultCodes)
}

func TestLoadApprovedFaultCodesPrefersFileOverCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "faults.json")
	require.NoError(t, os.WriteFile(path, []byte(`["HPCRDMA-0002-02"]`), 0o644))

	cfg := Config{ApprovedFaultCodesFile: path, ApprovedFaultCodes: []string{"IGNORED"}}
	codes, err := cfg.LoadApprovedFaultCodes()
	require.NoError(t, err)
	assert.Equal(t, []string{"HPCRDMA-0002-02"}, codes)
}

func TestLoadExcludedHostsReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "excluded.json")
	require.NoError(t, os.WriteFile(path, []byte(`["GPU-332"]`), 0o644))

	cfg := Config{ExcludedHostsFile: path}
	hosts, err := cfg.LoadExcludedHosts()
	require.NoError(t, err)
	assert.Equal(t, []string{"GPU-332"}, hosts)
}

func TestLoadExcludedHostsEmptyWhenUnset(t *testing.T) {
	cfg := Config{}
	hosts, err := cfg.LoadExcludedHosts()
	require.NoError(t, err)
	assert.Empty(t, hosts)
}
