// This file runs the load factor, key distribution, and operation mix
// workloads against a table.
// Implements: prd003-workloads R2-R4 (generators), R6 (operation counts).
package workload

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Counts tallies the operations a runner executed.
type Counts struct {
	Inserts int `json:"inserts"`
	Reads   int `json:"reads"`
	Deletes int `json:"deletes"`
}

// Total returns the number of operations across all kinds.
func (c Counts) Total() int {
	return c.Inserts + c.Reads + c.Deletes
}

// RunLoadFactor inserts Size sequential keys carrying ValueSize-byte values.
// Started against a small table it exercises the whole growth ladder
// (prd003-workloads R2).
func RunLoadFactor(tbl types.Table[string, string], spec LoadFactorSpec) (Counts, error) {
	if err := spec.Validate(); err != nil {
		return Counts{}, fmt.Errorf("validating load factor spec: %w", err)
	}

	value := strings.Repeat("x", spec.ValueSize)
	for i := 0; i < spec.Size; i++ {
		if err := tbl.Insert(fmt.Sprintf("key_%d", i), value); err != nil {
			return Counts{}, fmt.Errorf("inserting key %d: %w", i, err)
		}
	}
	return Counts{Inserts: spec.Size}, nil
}

// RunKeyDistribution inserts Size keys shaped by the spec's pattern
// (prd003-workloads R3): uniform draws random 64-bit keys, clustered groups
// sequential keys under ten shared prefixes, sequential issues zero-padded
// increasing keys.
func RunKeyDistribution(tbl types.Table[string, string], spec KeyDistributionSpec, rng *rand.Rand) (Counts, error) {
	if err := spec.Validate(); err != nil {
		return Counts{}, fmt.Errorf("validating key distribution spec: %w", err)
	}

	for i := 0; i < spec.Size; i++ {
		var key string
		switch spec.Pattern {
		case PatternUniform:
			key = fmt.Sprintf("key_%d", rng.Uint64())
		case PatternClustered:
			clusterSize := spec.Size / clusterCount
			if clusterSize == 0 {
				clusterSize = 1
			}
			key = fmt.Sprintf("cluster_%d_%d", i/clusterSize, i)
		case PatternSequential:
			key = fmt.Sprintf("%020d", i)
		}
		if err := tbl.Insert(key, "value"); err != nil {
			return Counts{}, fmt.Errorf("inserting %s key %d: %w", spec.Pattern, i, err)
		}
	}
	return Counts{Inserts: spec.Size}, nil
}

// RunOperationMix pre-populates InitialSize keys and then issues Operations
// random operations split by the spec's percentages (prd003-workloads R4).
// Every operation addresses a key index below InitialSize, so reads and
// deletes can hit and writes overwrite.
func RunOperationMix(tbl types.Table[string, string], spec OperationMixSpec, rng *rand.Rand) (Counts, error) {
	if err := spec.Validate(); err != nil {
		return Counts{}, fmt.Errorf("validating operation mix spec: %w", err)
	}

	var counts Counts
	for i := 0; i < spec.InitialSize; i++ {
		if err := tbl.Insert(fmt.Sprintf("key_%d", i), "initial"); err != nil {
			return counts, fmt.Errorf("pre-populating key %d: %w", i, err)
		}
		counts.Inserts++
	}

	for op := 0; op < spec.Operations; op++ {
		roll := rng.Intn(100)
		key := fmt.Sprintf("key_%d", rng.Intn(spec.InitialSize))
		switch {
		case roll < spec.ReadPct:
			if _, _, err := tbl.Get(key); err != nil {
				return counts, fmt.Errorf("reading %s: %w", key, err)
			}
			counts.Reads++
		case roll < spec.ReadPct+spec.WritePct:
			if err := tbl.Insert(key, "updated"); err != nil {
				return counts, fmt.Errorf("writing %s: %w", key, err)
			}
			counts.Inserts++
		default:
			if err := tbl.Delete(key); err != nil {
				return counts, fmt.Errorf("deleting %s: %w", key, err)
			}
			counts.Deletes++
		}
	}
	return counts, nil
}
