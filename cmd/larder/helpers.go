// Shared helpers for larder CLI commands.
// Implements: prd005-larder-cli (R3, R8, R9).
package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/larder/internal/engine"
	"github.com/mesh-intelligence/larder/internal/results"
	"github.com/mesh-intelligence/larder/internal/workload"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// Comma-separated name lists for error output.
var (
	validEngineNamesStr   = strings.Join(types.EngineNames(), ", ")
	validPatternNamesStr  = strings.Join(workload.PatternNames(), ", ")
	validMixNamesStr      = strings.Join(workload.MixNames(), ", ")
	benchWorkloadNamesStr = strings.Join([]string{
		workload.NameLoadFactor,
		workload.NameKeyDistribution,
		workload.NameOperationMix,
	}, ", ")
)

// engineList expands the --engine flag value into concrete engine names.
// "all" selects every engine; an empty value falls back to the configured
// default engine (prd005-larder-cli R3.2).
func engineList(name string) ([]string, error) {
	switch name {
	case "all":
		return types.EngineNames(), nil
	case "":
		return []string{configEngine}, nil
	}

	cfg := types.Config{Engine: name}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("unknown engine %q (valid: %s, all)", name, validEngineNamesStr)
	}
	return []string{name}, nil
}

// newBenchTable builds a table for a benchmark run. The load factor comes from
// config.yaml; capacityHint is workload-specific because some workloads
// pre-size the table while others start small to exercise growth.
func newBenchTable(engineName string, capacityHint int) (types.Table[string, string], error) {
	cfg := types.Config{
		Engine:       engineName,
		CapacityHint: capacityHint,
		LoadFactor:   configLoadFactor,
	}

	tbl, err := engine.New[string, string](cfg)
	if err != nil {
		return nil, fmt.Errorf("building %s table: %w", engineName, err)
	}
	return tbl, nil
}

// openStore resolves the data directory and opens the results store. The
// caller must defer store.Close().
func openStore() (*results.Store, error) {
	dataDir, err := resolveDataDir()
	if err != nil {
		return nil, fmt.Errorf("resolve data dir: %w", err)
	}

	store, err := results.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("open results store: %w", err)
	}
	return store, nil
}

// printJSON writes v as indented JSON to stdout for the --json flag.
func printJSON(v any) error {
	output, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal output: %w", err)
	}

	fmt.Println(string(output))
	return nil
}
