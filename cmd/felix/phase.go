package main

import (
	"context"
	"fmt"
	"os"

	"github.com/cuemby/felix/internal/config"
	"github.com/cuemby/felix/pkg/discovery"
	"github.com/cuemby/felix/pkg/orchestrator"
	"github.com/cuemby/felix/pkg/types"
	"github.com/spf13/cobra"
)

// findJob locates the Job backing a single hostname, first among jobs
// discovery.Run would schedule this pass, then among in-flight events
// discovery.RunCatchup already knows about. Single-phase commands operate
// on exactly one host outside the full state machine (spec.md §6).
func findJob(ctx context.Context, e *env, hostname string) (types.Job, error) {
	jobs, err := discovery.Run(ctx, e.discoveryDeps())
	if err != nil {
		return types.Job{}, fmt.Errorf("discovery: %w", err)
	}
	for _, j := range jobs {
		if j.Hostname == hostname {
			return j, nil
		}
	}

	items, err := discovery.RunCatchup(ctx, e.discoveryDeps(), hostname)
	if err != nil {
		return types.Job{}, fmt.Errorf("catchup discovery: %w", err)
	}
	for _, it := range items {
		if it.Job.Hostname == hostname {
			return it.Job, nil
		}
	}

	return types.Job{}, fmt.Errorf("no maintenance event found for host %q", hostname)
}

func setupPhaseEnv(cmd *cobra.Command, hostname string) (*env, types.Job, bool) {
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

	job, err := findJob(cmd.Context(), e, hostname)
	if err != nil {
		fmt.Fprintf(os.Stderr, "felix: %v\n", err)
		e.audit.Close()
		os.Exit(1)
	}
	return e, job, true
}

var drainCmd = &cobra.Command{
	Use:   "drain <hostname>",
	Short: "Drain a single host and wait for it to quiesce",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, job, _ := setupPhaseEnv(cmd, args[0])
		defer e.audit.Close()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if perr := orchestrator.Drain(cmd.Context(), job, e.orchestratorDeps(dryRun), e.cfg.Orchestrator); perr != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", job.Hostname, perr.Kind, perr.Detail)
			os.Exit(2)
		}
		fmt.Printf("%s: ok\n", job.Hostname)
		return nil
	},
}

var maintenanceCmd = &cobra.Command{
	Use:   "maintenance <hostname>",
	Short: "Poll a single host's maintenance event to completion",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, job, _ := setupPhaseEnv(cmd, args[0])
		defer e.audit.Close()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		if perr := orchestrator.PollMaintenance(cmd.Context(), job, e.orchestratorDeps(dryRun), e.cfg.Orchestrator); perr != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", job.Hostname, perr.Kind, perr.Detail)
			os.Exit(2)
		}
		fmt.Printf("%s: ok\n", job.Hostname)
		return nil
	},
}

var healthCmd = &cobra.Command{
	Use:   "health <hostname>",
	Short: "Run the health check against a single host",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, job, _ := setupPhaseEnv(cmd, args[0])
		defer e.audit.Close()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		outcome := orchestrator.RunHealth(cmd.Context(), job, e.orchestratorDeps(dryRun), e.cfg.Orchestrator)
		if !outcome.Pass {
			fmt.Fprintf(os.Stderr, "%s: health check failed: %s\n", job.Hostname, outcome.Reason)
			os.Exit(2)
		}
		fmt.Printf("%s: ok\n", job.Hostname)
		return nil
	},
}

var finalizeCmd = &cobra.Command{
	Use:   "finalize <hostname>",
	Short: "Resume (or hold) a single host after its maintenance window",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, job, _ := setupPhaseEnv(cmd, args[0])
		defer e.audit.Close()

		dryRun, _ := cmd.Flags().GetBool("dry-run")
		fail, _ := cmd.Flags().GetBool("fail")
		reason, _ := cmd.Flags().GetString("reason")

		kind := orchestrator.ErrKind("")
		if fail {
			kind = orchestrator.ErrKind(reason)
		}
		if perr := orchestrator.Finalize(cmd.Context(), job, e.orchestratorDeps(dryRun), e.cfg.Orchestrator, !fail, kind); perr != nil {
			fmt.Fprintf(os.Stderr, "%s: %s: %s\n", job.Hostname, perr.Kind, perr.Detail)
			os.Exit(2)
		}
		fmt.Printf("%s: ok\n", job.Hostname)
		return nil
	},
}

func init() {
	finalizeCmd.Flags().Bool("fail", false, "Hold the node drained instead of resuming it")
	finalizeCmd.Flags().String("reason", string(orchestrator.HealthFailed), "Failure kind recorded when --fail is set")
}
