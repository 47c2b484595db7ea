// Runs command lists recorded benchmark runs.
// Implements: prd005-larder-cli R5; prd004-results-store R4.
package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/results"
)

var (
	runsEngine   string
	runsWorkload string
	runsLimit    int
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List recorded benchmark runs",
	Long: `Runs lists benchmark runs recorded with bench --record, newest first.

Example:
  larder runs
  larder runs --engine compact --limit 10
  larder runs --workload load_factor --json`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	runsCmd.Flags().StringVar(&runsEngine, "engine", "", "filter by engine")
	runsCmd.Flags().StringVar(&runsWorkload, "workload", "", "filter by workload")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 0, "maximum number of results (0 = no limit)")
}

func runRuns(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		fmt.Fprintln(os.Stderr, "runs:", err)
		os.Exit(exitSysError)
	}
	defer store.Close()

	runs, err := store.ListRuns(results.Filter{
		Engine:   runsEngine,
		Workload: runsWorkload,
		Limit:    runsLimit,
	})
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}

	if flagJSON {
		return printJSON(runs)
	}

	printRunsTable(runs)
	return nil
}

// printRunsTable prints runs in a human-readable table format.
func printRunsTable(runs []results.Run) {
	if len(runs) == 0 {
		fmt.Println("No runs recorded.")
		return
	}

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ID\tENGINE\tWORKLOAD\tDETAIL\tOPS\tNS/OP\tRECORDED")
	fmt.Fprintln(w, "--\t------\t--------\t------\t---\t-----\t--------")
	for _, r := range runs {
		// Truncate ID to first 8 chars for readability.
		shortID := r.RunID
		if len(shortID) > 8 {
			shortID = shortID[:8]
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%.1f\t%s\n",
			shortID,
			r.Engine,
			r.Workload,
			r.Detail,
			r.Operations,
			r.NsPerOp,
			r.RecordedAt.Format("2006-01-02 15:04:05"),
		)
	}
	w.Flush()

	for _, line := range strings.Split(sb.String(), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}

	fmt.Printf("Total: %d run(s)\n", len(runs))
}
