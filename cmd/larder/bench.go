// Bench command times a workload against one or all engines.
// Implements: prd005-larder-cli R3; prd003-workloads R6.
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/results"
	"github.com/mesh-intelligence/larder/internal/workload"
	"github.com/mesh-intelligence/larder/pkg/types"
)

var (
	benchEngine     string
	benchWorkload   string
	benchSize       int
	benchValueSize  int
	benchOperations int
	benchPattern    string
	benchMix        string
	benchSeed       int64
	benchRecord     bool
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Time a workload against one or all engines",
	Long: `Bench builds a fresh table per engine, runs the selected workload
against it, and reports wall time and ns/op.

Workloads: load_factor, key_distribution, operation_mix

Example:
  larder bench --workload load_factor --size 10000
  larder bench --engine compact --workload key_distribution --pattern clustered
  larder bench --engine all --workload operation_mix --mix read_heavy --record`,
	Args: cobra.NoArgs,
	RunE: runBench,
}

func init() {
	benchCmd.Flags().StringVar(&benchEngine, "engine", "", "engine to benchmark: chained, probing, compact, all (default: config.yaml engine)")
	benchCmd.Flags().StringVar(&benchWorkload, "workload", workload.NameLoadFactor, "workload to run (load_factor, key_distribution, operation_mix)")
	benchCmd.Flags().IntVar(&benchSize, "size", 10000, "number of keys the workload targets")
	benchCmd.Flags().IntVar(&benchValueSize, "value-size", 100, "value size in bytes (load_factor)")
	benchCmd.Flags().IntVar(&benchOperations, "operations", 10000, "operations to stream (operation_mix)")
	benchCmd.Flags().StringVar(&benchPattern, "pattern", workload.PatternUniform, "key pattern (key_distribution): uniform, clustered, sequential")
	benchCmd.Flags().StringVar(&benchMix, "mix", "balanced", "operation mix preset: balanced, read_heavy, typical_web, write_heavy")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 42, "seed for the workload RNG")
	benchCmd.Flags().BoolVar(&benchRecord, "record", false, "record results to the results store")
}

// benchResult is one engine's timing for the selected workload.
type benchResult struct {
	Engine     string        `json:"engine"`
	Workload   string        `json:"workload"`
	Detail     string        `json:"detail"`
	Size       int           `json:"size"`
	Operations int           `json:"operations"`
	Duration   time.Duration `json:"duration_ns"`
	NsPerOp    float64       `json:"ns_per_op"`
}

// benchPlan fixes the workload parameters before the engine loop so every
// engine sees the same spec, capacity hint, and RNG sequence.
type benchPlan struct {
	detail string
	hint   int
	run    func(tbl types.Table[string, string]) (workload.Counts, error)
}

func runBench(cmd *cobra.Command, args []string) error {
	engines, err := engineList(benchEngine)
	if err != nil {
		return err
	}

	plan, err := buildBenchPlan()
	if err != nil {
		return err
	}

	rows := make([]benchResult, 0, len(engines))
	for _, engineName := range engines {
		row, err := benchOne(engineName, plan)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}

	if benchRecord {
		if err := recordResults(rows); err != nil {
			fmt.Fprintln(os.Stderr, "bench:", err)
			os.Exit(exitSysError)
		}
	}

	if flagJSON {
		return printJSON(rows)
	}

	printBenchTable(rows)
	if benchRecord {
		fmt.Printf("Recorded %d run(s)\n", len(rows))
	}
	return nil
}

// buildBenchPlan validates the workload flags once and returns the runner
// closure. Each invocation of the closure reseeds the RNG so all engines
// replay an identical operation sequence.
func buildBenchPlan() (benchPlan, error) {
	switch benchWorkload {
	case workload.NameLoadFactor:
		spec := workload.LoadFactorSpec{Size: benchSize, ValueSize: benchValueSize}
		if err := spec.Validate(); err != nil {
			return benchPlan{}, fmt.Errorf("load_factor workload: %w", err)
		}
		return benchPlan{
			detail: fmt.Sprintf("value_size=%d", benchValueSize),
			// Start at the configured base capacity so the workload
			// exercises growth.
			hint: configCapacityHint,
			run: func(tbl types.Table[string, string]) (workload.Counts, error) {
				return workload.RunLoadFactor(tbl, spec)
			},
		}, nil

	case workload.NameKeyDistribution:
		spec := workload.KeyDistributionSpec{Size: benchSize, Pattern: benchPattern}
		if err := spec.Validate(); err != nil {
			return benchPlan{}, fmt.Errorf("key_distribution workload (valid patterns: %s): %w", validPatternNamesStr, err)
		}
		return benchPlan{
			detail: fmt.Sprintf("pattern=%s", benchPattern),
			// Pre-sized: this workload measures probe behavior, not growth.
			hint: benchSize,
			run: func(tbl types.Table[string, string]) (workload.Counts, error) {
				rng := rand.New(rand.NewSource(benchSeed))
				return workload.RunKeyDistribution(tbl, spec, rng)
			},
		}, nil

	case workload.NameOperationMix:
		spec, err := workload.MixFor(benchMix, benchSize, benchOperations)
		if err != nil {
			return benchPlan{}, fmt.Errorf("operation_mix workload (valid mixes: %s): %w", validMixNamesStr, err)
		}
		return benchPlan{
			detail: fmt.Sprintf("mix=%s", benchMix),
			hint:   benchSize,
			run: func(tbl types.Table[string, string]) (workload.Counts, error) {
				rng := rand.New(rand.NewSource(benchSeed))
				return workload.RunOperationMix(tbl, spec, rng)
			},
		}, nil

	default:
		return benchPlan{}, fmt.Errorf("unknown workload %q (valid: %s)", benchWorkload, benchWorkloadNamesStr)
	}
}

// benchOne runs the planned workload against a single engine and times it.
func benchOne(engineName string, plan benchPlan) (benchResult, error) {
	tbl, err := newBenchTable(engineName, plan.hint)
	if err != nil {
		return benchResult{}, err
	}

	start := time.Now()
	counts, err := plan.run(tbl)
	elapsed := time.Since(start)
	if err != nil {
		return benchResult{}, fmt.Errorf("running %s on %s: %w", benchWorkload, engineName, err)
	}

	return benchResult{
		Engine:     engineName,
		Workload:   benchWorkload,
		Detail:     plan.detail,
		Size:       benchSize,
		Operations: counts.Total(),
		Duration:   elapsed,
		NsPerOp:    float64(elapsed.Nanoseconds()) / float64(counts.Total()),
	}, nil
}

// recordResults writes one row per engine to the results store.
func recordResults(rows []benchResult) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	for _, r := range rows {
		run := results.Run{
			Engine:     r.Engine,
			Workload:   r.Workload,
			Detail:     r.Detail,
			Size:       r.Size,
			Operations: r.Operations,
			Duration:   r.Duration,
			NsPerOp:    r.NsPerOp,
		}
		if _, err := store.RecordRun(run); err != nil {
			return fmt.Errorf("recording %s run: %w", r.Engine, err)
		}
	}
	return nil
}

// printBenchTable prints results in a human-readable table format.
func printBenchTable(rows []benchResult) {
	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "ENGINE\tWORKLOAD\tDETAIL\tOPS\tDURATION\tNS/OP")
	fmt.Fprintln(w, "------\t--------\t------\t---\t--------\t-----")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%.1f\n",
			r.Engine,
			r.Workload,
			r.Detail,
			r.Operations,
			r.Duration.Round(time.Microsecond),
			r.NsPerOp,
		)
	}
	w.Flush()

	for _, line := range strings.Split(sb.String(), "\n") {
		fmt.Println(strings.TrimRight(line, " "))
	}
}
