package main

import (
	"fmt"
	"os"

	"github.com/cuemby/felix/internal/config"
	"github.com/cuemby/felix/pkg/discovery"
	"github.com/cuemby/felix/pkg/log"
	"github.com/cuemby/felix/pkg/orchestrator"
	"github.com/spf13/cobra"
)

var catchupCmd = &cobra.Command{
	Use:   "catchup",
	Short: "Resume hosts whose events are already past SCHEDULED",
	Long: `Catchup finds maintenance events a prior pass already accepted or
started and resumes each host's state machine at IN_MAINTENANCE or HEALTH,
whichever the event's current lifecycle state calls for. Use --host to
narrow to a single node after a restart or crash recovery.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		host, _ := cmd.Flags().GetString("host")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		ctx := cmd.Context()

		items, err := discovery.RunCatchup(ctx, e.discoveryDeps(), host)
		if err != nil {
			fmt.Fprintf(os.Stderr, "felix: catchup discovery: %v\n", err)
			os.Exit(1)
		}
		if len(items) == 0 {
			fmt.Println("No in-flight events to catch up on.")
			return nil
		}

		deps := e.orchestratorDeps(dryRun)
		var outcomes []orchestrator.Outcome
		for _, item := range items {
			mode := orchestrator.ModeCatchupMaintenance
			if item.State.Terminal() {
				mode = orchestrator.ModeCatchupHealth
			}
			logger.Info().Str("host", item.Job.Hostname).Str("mode", string(mode)).Msg("resuming host")
			outcomes = append(outcomes, orchestrator.RunHost(ctx, item.Job, deps, cfg.Orchestrator, mode))
		}

		printOutcomes(outcomes)
		if hasFailures(outcomes) {
			os.Exit(2)
		}
		return nil
	},
}

func init() {
	catchupCmd.Flags().String("host", "", "Limit catchup to a single hostname")
}
