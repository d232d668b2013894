// Package config loads felix's configuration from the environment, the
// way cmd/warren-migrate and cmd/warren/apply.go read their inputs: plain
// os.Getenv and encoding/json, no config-file library. Loading is a
// boundary collaborator (spec.md §9 "Environment-variable config"); core
// packages never read the environment themselves, only the immutable
// records this package produces.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/cuemby/felix/pkg/orchestrator"
)

// Config is everything felix needs to run one pass, assembled from the
// environment variables named in spec.md §6.
type Config struct {
	TenancyOCID string
	Region      string

	Orchestrator orchestrator.Config
	LoopInterval time.Duration

	DailyScheduleCap int

	ApprovedFaultCodesFile string
	ApprovedFaultCodes     []string
	ExcludedHostsFile      string
	InventoryFile          string

	EventsLogFile string

	LogLevel string
	LogFile  string

	HealthTCPPort     int
	HealthHTTPPort    int
	HealthHTTPPath    string
	HealthExecCommand []string

	StatusAddr string
}

// Load reads Config from the process environment, applying spec.md §6's
// defaults for anything unset. It returns a ConfigError-flavored error
// (via orchestrator.PhaseError) when a required field is missing, so
// cmd/felix can map it onto exit code 1.
func Load() (Config, error) {
	cfg := Config{
		TenancyOCID:            os.Getenv("OCI_TENANCY_OCID"),
		Region:                 os.Getenv("REGION"),
		LoopInterval:           durationSecEnv("LOOP_INTERVAL_SEC", 900),
		DailyScheduleCap:       intEnv("DAILY_SCHEDULE_CAP", 10),
		ApprovedFaultCodesFile: os.Getenv("APPROVED_FAULT_CODES_FILE"),
		ApprovedFaultCodes:     splitCSV(os.Getenv("APPROVED_FAULT_CODES")),
		ExcludedHostsFile:      os.Getenv("EXCLUDED_HOSTS_FILE"),
		InventoryFile:          envOr("INVENTORY_FILE", "inventory.json"),
		EventsLogFile:          envOr("EVENTS_LOG_FILE", "logs/events.jsonl"),
		LogLevel:               envOr("LOG_LEVEL", "info"),
		LogFile:                os.Getenv("LOG_FILE"),
		HealthTCPPort:          intEnv("HEALTH_TCP_PORT", 0),
		HealthHTTPPort:         intEnv("HEALTH_HTTP_PORT", 0),
		HealthHTTPPath:         envOr("HEALTH_HTTP_PATH", "/health"),
		HealthExecCommand:      splitCSV(os.Getenv("HEALTH_EXEC_COMMAND")),
		StatusAddr:             os.Getenv("STATUS_ADDR"),
	}

	cfg.Orchestrator = orchestrator.DefaultConfig()
	cfg.Orchestrator.DrainPollInterval = durationSecEnv("DRAIN_POLL_SEC", 30)
	cfg.Orchestrator.MaintPollInitial = durationSecEnv("MAINT_POLL_SEC", 30)
	cfg.Orchestrator.MaxWorkers = intEnv("MAX_WORKERS", 8)
	cfg.Orchestrator.ScheduleLeadSec = durationSecEnv("SCHEDULE_LEAD_SEC", 300)
	cfg.Orchestrator.ProcessedTag = envOr("PROCESSED_TAG", "felix")

	if cfg.TenancyOCID == "" {
		return Config{}, &orchestrator.PhaseError{Kind: orchestrator.ConfigError, Detail: "OCI_TENANCY_OCID is required"}
	}
	if cfg.Region == "" {
		return Config{}, &orchestrator.PhaseError{Kind: orchestrator.ConfigError, Detail: "REGION is required"}
	}
	if cfg.ApprovedFaultCodesFile == "" && len(cfg.ApprovedFaultCodes) == 0 {
		return Config{}, &orchestrator.PhaseError{Kind: orchestrator.ConfigError, Detail: "one of APPROVED_FAULT_CODES_FILE or APPROVED_FAULT_CODES is required"}
	}

	return cfg, nil
}

// LoadApprovedFaultCodes resolves the approved-fault list: the file, if
// set, takes precedence over the comma-separated fallback (spec.md §6).
func (c Config) LoadApprovedFaultCodes() ([]string, error) {
	if c.ApprovedFaultCodesFile == "" {
		return c.ApprovedFaultCodes, nil
	}
	return readJSONStringArray(c.ApprovedFaultCodesFile)
}

// LoadExcludedHosts resolves the excluded-host list from its JSON file,
// if configured.
func (c Config) LoadExcludedHosts() ([]string, error) {
	if c.ExcludedHostsFile == "" {
		return nil, nil
	}
	return readJSONStringArray(c.ExcludedHostsFile)
}

func readJSONStringArray(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return out, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func intEnv(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func durationSecEnv(key string, fallbackSec int) time.Duration {
	return time.Duration(intEnv(key, fallbackSec)) * time.Second
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	start := 0
	for i := 0; i <= len(s); i++ {
		if i == len(s) || s[i] == ',' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	return out
}
