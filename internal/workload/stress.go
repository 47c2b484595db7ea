// This file runs the three-phase stress driver: bulk growth through several
// resizes, a full overwrite pass, then alternating delete/insert churn.
// Each phase double-checks the table it just drove, so a run doubles as a
// correctness smoke test under sustained traffic.
// Implements: prd003-workloads R5.
package workload

import (
	"fmt"
	"strings"
	"time"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Stress phase names, in run order.
const (
	PhaseGrowth    = "growth"
	PhaseOverwrite = "overwrite"
	PhaseChurn     = "churn"
)

// Per-phase value sizes in bytes. Growth carries the heavy payloads;
// later phases shrink them so overwrites actually change the stored bytes.
const (
	growthValueSize    = 1000
	overwriteValueSize = 200
	churnValueSize     = 150
)

// churnPercent is the share of entries the churn phase touches.
const churnPercent = 15

// PhaseResult reports one completed stress phase.
type PhaseResult struct {
	Phase    string        `json:"phase"`
	Counts   Counts        `json:"counts"`
	Duration time.Duration `json:"duration_ns"`
}

// RunStress drives the three phases against tbl and returns one result per
// phase. It fails fast if the table's observed size or contents drift from
// what the phase just did to it.
func RunStress(tbl types.Table[string, string], spec StressSpec) ([]PhaseResult, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("validating stress spec: %w", err)
	}

	results := make([]PhaseResult, 0, 3)

	// Phase 1: controlled growth through repeated resizes.
	start := time.Now()
	value := strings.Repeat("x", growthValueSize)
	for i := 0; i < spec.Entries; i++ {
		if err := tbl.Insert(fmt.Sprintf("key_%d", i), value); err != nil {
			return nil, fmt.Errorf("growth insert %d: %w", i, err)
		}
	}
	if tbl.Len() != spec.Entries {
		return nil, fmt.Errorf("after growth phase: table holds %d keys, want %d", tbl.Len(), spec.Entries)
	}
	results = append(results, PhaseResult{
		Phase:    PhaseGrowth,
		Counts:   Counts{Inserts: spec.Entries},
		Duration: time.Since(start),
	})

	// Phase 2: heavy overwrites; every key upserts in place.
	start = time.Now()
	value = strings.Repeat("y", overwriteValueSize)
	for i := 0; i < spec.Entries; i++ {
		if err := tbl.Insert(fmt.Sprintf("key_%d", i), value); err != nil {
			return nil, fmt.Errorf("overwrite insert %d: %w", i, err)
		}
	}
	if tbl.Len() != spec.Entries {
		return nil, fmt.Errorf("after overwrite phase: table holds %d keys, want %d", tbl.Len(), spec.Entries)
	}
	if got, ok, err := tbl.Get("key_0"); err != nil || !ok || got != value {
		return nil, fmt.Errorf("after overwrite phase: key_0 = %q, %v, %v; want the overwritten value", got, ok, err)
	}
	results = append(results, PhaseResult{
		Phase:    PhaseOverwrite,
		Counts:   Counts{Inserts: spec.Entries},
		Duration: time.Since(start),
	})

	// Phase 3: mixed deletes and inserts over a slice of the key space.
	start = time.Now()
	churn := spec.Entries * churnPercent / 100
	value = strings.Repeat("z", churnValueSize)
	var counts Counts
	for i := 0; i < churn; i++ {
		if i%2 == 0 {
			if err := tbl.Delete(fmt.Sprintf("key_%d", i)); err != nil {
				return nil, fmt.Errorf("churn delete %d: %w", i, err)
			}
			counts.Deletes++
		} else {
			if err := tbl.Insert(fmt.Sprintf("key_new_%d", i), value); err != nil {
				return nil, fmt.Errorf("churn insert %d: %w", i, err)
			}
			counts.Inserts++
		}
	}
	want := spec.Entries - counts.Deletes + counts.Inserts
	if tbl.Len() != want {
		return nil, fmt.Errorf("after churn phase: table holds %d keys, want %d", tbl.Len(), want)
	}
	results = append(results, PhaseResult{
		Phase:    PhaseChurn,
		Counts:   counts,
		Duration: time.Since(start),
	})

	return results, nil
}
