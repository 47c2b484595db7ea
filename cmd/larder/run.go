// Run command drives the three-phase stress workload.
// Implements: prd005-larder-cli R4; prd003-workloads R5.
package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/workload"
)

var (
	runEngine  string
	runEntries int
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Drive the three-phase stress workload",
	Long: `Run drives growth, overwrite, and churn phases against an engine.
Each phase verifies the table before the next one starts, so a clean run
doubles as a correctness check under sustained traffic.

Example:
  larder run
  larder run --engine compact --entries 50000
  larder run --engine all --json`,
	Args: cobra.NoArgs,
	RunE: runStress,
}

func init() {
	runCmd.Flags().StringVar(&runEngine, "engine", "", "engine to stress: chained, probing, compact, all (default: config.yaml engine)")
	runCmd.Flags().IntVar(&runEntries, "entries", 10000, "entries inserted during the growth phase")
}

// stressReport is one engine's full stress run.
type stressReport struct {
	Engine  string                 `json:"engine"`
	Entries int                    `json:"entries"`
	Phases  []workload.PhaseResult `json:"phases"`
}

func runStress(cmd *cobra.Command, args []string) error {
	engines, err := engineList(runEngine)
	if err != nil {
		return err
	}

	spec := workload.StressSpec{Entries: runEntries}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("stress workload: %w", err)
	}

	reports := make([]stressReport, 0, len(engines))
	for _, engineName := range engines {
		// Start at the base capacity; the growth phase is supposed to
		// resize its way up.
		tbl, err := newBenchTable(engineName, configCapacityHint)
		if err != nil {
			return err
		}

		phases, err := workload.RunStress(tbl, spec)
		if err != nil {
			return fmt.Errorf("stress on %s: %w", engineName, err)
		}

		rep := stressReport{Engine: engineName, Entries: runEntries, Phases: phases}
		reports = append(reports, rep)
		if !flagJSON {
			printStressReport(rep)
		}
	}

	if flagJSON {
		return printJSON(reports)
	}
	return nil
}

// printStressReport prints one engine's phase timings as they complete.
func printStressReport(rep stressReport) {
	fmt.Printf("engine %s: %d entries\n", rep.Engine, rep.Entries)
	for _, ph := range rep.Phases {
		fmt.Printf("  %-10s %8d ops  %12s\n",
			ph.Phase,
			ph.Counts.Total(),
			ph.Duration.Round(time.Microsecond),
		)
	}
}
