package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cuemby/felix/pkg/orchestrator"
)

// printOutcomes renders the per-host outcome table spec.md §7 requires
// on stdout at the end of a pass, the way cmd/warren prints cluster
// state to the terminal.
func printOutcomes(outcomes []orchestrator.Outcome) {
	if len(outcomes) == 0 {
		fmt.Println("No eligible jobs this pass.")
		return
	}
	fmt.Printf("%-20s %-10s %-22s %s\n", "HOST", "STATE", "KIND", "DETAIL")
	for _, o := range outcomes {
		fmt.Printf("%-20s %-10s %-22s %s\n", o.Host, o.State, o.Kind, o.Detail)
	}
}

// hasFailures reports whether any host ended FAILED, the condition that
// maps to exit code 2 (spec.md §6).
func hasFailures(outcomes []orchestrator.Outcome) bool {
	for _, o := range outcomes {
		if o.State == orchestrator.StateFailed {
			return true
		}
	}
	return false
}

// writeJSONOutput marshals v as indented JSON to stdout, or to target
// when target names a file (the `--json[=FILE]` surface from spec.md §6).
func writeJSONOutput(v any, target string) error {
	buf, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}
	if target == "" || target == "-" {
		fmt.Println(string(buf))
		return nil
	}
	if err := os.WriteFile(target, buf, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", target, err)
	}
	return nil
}
