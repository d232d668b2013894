package main

import (
	"fmt"
	"os"

	"github.com/cuemby/felix/internal/config"
	"github.com/cuemby/felix/pkg/discovery"
	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Print the Job set this pass would act on, without acting on it",
	Long: `Discover runs the same discovery algorithm run/loop use internally
and prints the resulting job list, so an operator can sanity-check what a
pass is about to do before it runs (spec.md §4.1).`,
	RunE: func(cmd *cobra.Command, args []string) error {
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

		ctx := cmd.Context()
		jobs, err := discovery.Run(ctx, e.discoveryDeps())
		if err != nil {
			fmt.Fprintf(os.Stderr, "felix: discovery: %v\n", err)
			os.Exit(1)
		}

		jsonTarget, _ := cmd.Flags().GetString("json")
		if cmd.Flags().Changed("json") {
			return writeJSONOutput(jobs, jsonTarget)
		}

		if len(jobs) == 0 {
			fmt.Println("No eligible jobs discovered.")
			return nil
		}
		fmt.Printf("%-20s %-14s %-10s %-20s %s\n", "HOST", "FAULT", "EVENT", "INSTANCE", "WINDOW_START")
		for _, j := range jobs {
			window := "-"
			if j.WindowStart != nil {
				window = j.WindowStart.Format("2006-01-02T15:04:05Z")
			}
			fmt.Printf("%-20s %-14s %-10s %-20s %s\n", j.Hostname, j.FaultID, j.EventID, j.InstanceID, window)
		}
		return nil
	},
}

func init() {
	discoverCmd.Flags().String("json", "", "Emit JSON to stdout, or to the given file")
	discoverCmd.Flags().Lookup("json").NoOptDefVal = "-"
}
