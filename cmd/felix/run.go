package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cuemby/felix/internal/config"
	"github.com/cuemby/felix/pkg/discovery"
	"github.com/cuemby/felix/pkg/httpstatus"
	"github.com/cuemby/felix/pkg/log"
	"github.com/cuemby/felix/pkg/metrics"
	"github.com/cuemby/felix/pkg/orchestrator"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one full maintenance pass",
	RunE: func(cmd *cobra.Command, args []string) error {
		outcomes := doPass(cmd, orchestrator.ModeFull, nil)
		if hasFailures(outcomes) {
			os.Exit(2)
		}
		return nil
	},
}

var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "Discover, drain, and schedule only (skip health/finalize)",
	RunE: func(cmd *cobra.Command, args []string) error {
		outcomes := doPass(cmd, orchestrator.ModeStage, nil)
		if hasFailures(outcomes) {
			os.Exit(2)
		}
		return nil
	},
}

var loopCmd = &cobra.Command{
	Use:   "loop",
	Short: "Run repeated passes at LOOP_INTERVAL_SEC",
	RunE: func(cmd *cobra.Command, args []string) error {
		runLoop(cmd)
		return nil
	},
}

// doPass loads config, discovers jobs, and fans them out across the
// worker pool for one pass (spec.md §2). A fatal configuration error
// exits 1 immediately; the caller decides what a FAILED host means for
// its own exit code (spec.md §6 — run/stage exit 2, loop keeps going).
func doPass(cmd *cobra.Command, mode orchestrator.Mode, status *httpstatus.Status) []orchestrator.Outcome {
	logger := log.WithComponent("cmd")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "felix: %v\n", err)
		os.Exit(1)
	}

	e, err := newEnv(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "felix: %v\n", err)
		os.Exit(1)
	}
	defer e.audit.Close()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	ctx := cmd.Context()

	timer := metrics.NewTimer()
	jobs, err := discovery.Run(ctx, e.discoveryDeps())
	if err != nil {
		logger.Error().Err(err).Msg("discovery failed")
		fmt.Fprintf(os.Stderr, "felix: discovery: %v\n", err)
		os.Exit(1)
	}

	outcomes := orchestrator.RunPass(ctx, orchestrator.Pass{
		Jobs:     jobs,
		Deps:     e.orchestratorDeps(dryRun),
		Config:   cfg.Orchestrator,
		Approved: e.approved,
		Excluded: e.excluded,
		Cap:      e.cap,
		Mode:     mode,
	})
	timer.ObserveDuration(metrics.PassDuration)

	printOutcomes(outcomes)
	if status != nil {
		status.RecordPass(!hasFailures(outcomes))
	}
	return outcomes
}

// runLoop repeats doPass every LOOP_INTERVAL_SEC until an interrupt or
// terminate signal arrives; in-flight workers are allowed to drain
// before exit (spec.md §5). A pass with FAILED hosts does not stop the
// loop — only a signal or a fatal config error does.
func runLoop(cmd *cobra.Command) {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "felix: %v\n", err)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	go func() {
		<-sigCh
		fmt.Println("\nShutting down after in-flight pass completes...")
		cancel()
	}()
	cmd.SetContext(ctx)

	status := &httpstatus.Status{}
	if cfg.StatusAddr != "" {
		srv := httpstatus.NewServer(status)
		go func() {
			if err := srv.Start(cfg.StatusAddr); err != nil {
				fmt.Fprintf(os.Stderr, "felix: status server: %v\n", err)
			}
		}()
		fmt.Printf("Status endpoints: http://%s/health, /ready, /metrics\n", cfg.StatusAddr)
	}

	for {
		doPass(cmd, orchestrator.ModeFull, status)

		select {
		case <-ctx.Done():
			return
		case <-time.After(cfg.LoopInterval):
		}
	}
}
