package main

import (
	"fmt"
	"os"

	"github.com/cuemby/felix/pkg/log"
	"github.com/spf13/cobra"
)

var (
	// Version information (set via ldflags during build)
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "felix",
	Short: "Felix orchestrates planned HPC node maintenance",
	Long: `Felix discovers scheduled cloud-provider maintenance events for
HPC compute nodes, drains them from the workload manager, accepts the
maintenance window, waits for it to complete, runs a health check, and
resumes the node — one phase at a time, fully audited.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("felix version %s (%s)\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Describe intended actions without making mutating calls")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(loopCmd)
	rootCmd.AddCommand(stageCmd)
	rootCmd.AddCommand(catchupCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(drainCmd)
	rootCmd.AddCommand(maintenanceCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(finalizeCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	if !rootCmd.PersistentFlags().Changed("log-level") {
		if env := os.Getenv("LOG_LEVEL"); env != "" {
			level = env
		}
	}
	jsonOut, _ := rootCmd.PersistentFlags().GetBool("log-json")

	cfg := log.Config{Level: log.Level(level), JSONOutput: jsonOut}
	if path := os.Getenv("LOG_FILE"); path != "" {
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Fprintf(os.Stderr, "felix: open LOG_FILE %s: %v\n", path, err)
		} else {
			cfg.Output = f
		}
	}
	log.Init(cfg)
}
