package main

import (
	"fmt"

	"github.com/cuemby/felix/internal/config"
	"github.com/cuemby/felix/pkg/audit"
	"github.com/cuemby/felix/pkg/cloud"
	"github.com/cuemby/felix/pkg/discovery"
	"github.com/cuemby/felix/pkg/eligibility"
	"github.com/cuemby/felix/pkg/health"
	"github.com/cuemby/felix/pkg/inventory"
	"github.com/cuemby/felix/pkg/orchestrator"
	"github.com/cuemby/felix/pkg/retry"
	"github.com/cuemby/felix/pkg/workloadmanager"
	"github.com/google/uuid"
)

// env bundles every collaborator a CLI command needs, built once per
// invocation from the loaded configuration (spec.md §9 "replace
// process-wide singletons with an immutable config record constructed at
// pass start").
type env struct {
	cfg       config.Config
	cloud     cloud.ComputeClient
	wlm       workloadmanager.Client
	inventory inventory.Client
	audit     audit.Sink
	approved  *eligibility.ApprovedFaults
	excluded  *eligibility.ExcludedHosts
	cap       *eligibility.DailyCap
	passID    string
}

func newEnv(cfg config.Config) (*env, error) {
	approvedCodes, err := cfg.LoadApprovedFaultCodes()
	if err != nil {
		return nil, fmt.Errorf("load approved fault codes: %w", err)
	}
	excludedHosts, err := cfg.LoadExcludedHosts()
	if err != nil {
		return nil, fmt.Errorf("load excluded hosts: %w", err)
	}

	sink, err := audit.NewFileSink(cfg.EventsLogFile)
	if err != nil {
		return nil, fmt.Errorf("open audit sink: %w", err)
	}

	baseURL := fmt.Sprintf("https://iaas.%s.oraclecloud.com", cfg.Region)

	return &env{
		cfg:       cfg,
		cloud:     cloud.NewHTTPClient(baseURL, cfg.TenancyOCID, cfg.Region),
		wlm:       workloadmanager.NewSlurmClient(),
		inventory: inventory.NewFileClient(cfg.InventoryFile),
		audit:     sink,
		approved:  eligibility.NewApprovedFaults(approvedCodes),
		excluded:  eligibility.NewExcludedHosts(excludedHosts),
		cap:       eligibility.NewDailyCap(cfg.DailyScheduleCap),
		passID:    uuid.NewString(),
	}, nil
}

func (e *env) orchestratorDeps(dryRun bool) orchestrator.Deps {
	return orchestrator.Deps{
		Cloud:         e.cloud,
		WLM:           e.wlm,
		Health:        e.healthChecker(),
		Ticket:        orchestrator.NoopTicketHook{},
		Audit:         e.audit,
		ScheduleRetry: retry.ScheduleAcceptPolicy(),
		PassID:        e.passID,
		DryRun:        dryRun,
	}
}

// healthChecker builds the post-maintenance health predicate from
// whichever HEALTH_* env vars are set, composing a health.Suite over
// TCP/HTTP/exec probes (spec.md §4.6 leaves the concrete diagnostic
// suite pluggable). With none set, every node passes unconditionally.
func (e *env) healthChecker() orchestrator.HealthChecker {
	var factories []health.Factory
	if e.cfg.HealthTCPPort != 0 {
		factories = append(factories, health.TCPPort(e.cfg.HealthTCPPort))
	}
	if e.cfg.HealthHTTPPort != 0 {
		factories = append(factories, health.HTTPPath(e.cfg.HealthHTTPPort, e.cfg.HealthHTTPPath))
	}
	if len(e.cfg.HealthExecCommand) > 0 {
		factories = append(factories, health.ExecCommand(e.cfg.HealthExecCommand...))
	}
	if len(factories) == 0 {
		return orchestrator.AlwaysPassChecker{}
	}
	return health.Suite{Factories: factories}
}

func (e *env) discoveryDeps() discovery.Deps {
	return discovery.Deps{
		Cloud:     e.cloud,
		Inventory: e.inventory,
		Approved:  e.approved,
		Excluded:  e.excluded,
		Audit:     e.audit,
		Retry:     retry.DiscoveryInventoryPolicy(),
	}
}

func (e *env) reportDeps() orchestrator.ReportDeps {
	return orchestrator.ReportDeps{
		Cloud:     e.cloud,
		Inventory: e.inventory,
		Approved:  e.approved,
		Excluded:  e.excluded,
		Retry:     retry.DiscoveryInventoryPolicy(),
	}
}
