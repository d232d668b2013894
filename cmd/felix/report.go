package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/cuemby/felix/internal/config"
	"github.com/cuemby/felix/pkg/orchestrator"
	"github.com/cuemby/felix/pkg/types"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Show every discovered event, including ones discovery would drop",
	Long: `Report enumerates every maintenance event across every compartment,
unfiltered by fault-code approval or host exclusion, and tags each with
whether discovery would have picked it up (spec.md §8 S3). It never touches
the audit sink: report is a read-only view.`,
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

		excludeRaw, _ := cmd.Flags().GetStringSlice("exclude-state")
		includeCanceled, _ := cmd.Flags().GetBool("include-canceled")
		format, _ := cmd.Flags().GetString("format")

		excludeStates := make(map[types.LifecycleState]bool, len(excludeRaw))
		for _, s := range excludeRaw {
			excludeStates[types.LifecycleState(strings.ToUpper(s))] = true
		}

		view, err := orchestrator.Report(cmd.Context(), e.reportDeps(), excludeStates, includeCanceled)
		if err != nil {
			fmt.Fprintf(os.Stderr, "felix: report: %v\n", err)
			os.Exit(1)
		}

		jsonTarget, _ := cmd.Flags().GetString("json")
		if cmd.Flags().Changed("json") {
			return writeJSONOutput(view, jsonTarget)
		}
		if format == "yaml" {
			buf, err := yaml.Marshal(view)
			if err != nil {
				return fmt.Errorf("marshal yaml: %w", err)
			}
			fmt.Print(string(buf))
			return nil
		}

		printReportTable(view)
		return nil
	},
}

func printReportTable(view orchestrator.ReportView) {
	if len(view.Entries) == 0 {
		fmt.Println("No events found.")
		return
	}
	fmt.Printf("%-20s %-16s %-10s %-8s %s\n", "HOST", "STATE", "EVENT", "APPROVED", "EXCLUDED")
	for _, ent := range view.Entries {
		host := ent.Hostname
		if host == "" {
			host = "(unresolved)"
		}
		fmt.Printf("%-20s %-16s %-10s %-8t %t\n", host, ent.LifecycleState, ent.EventID, ent.Approved, ent.Excluded)
	}
}

func init() {
	reportCmd.Flags().StringSliceP("exclude-state", "x", nil, "Lifecycle states to drop from the report (repeatable)")
	reportCmd.Flags().Bool("include-canceled", false, "Include CANCELED events (dropped by default)")
	reportCmd.Flags().String("format", "table", "Output format: table or yaml")
	reportCmd.Flags().String("json", "", "Emit JSON to stdout, or to the given file")
	reportCmd.Flags().Lookup("json").NoOptDefVal = "-"
}
