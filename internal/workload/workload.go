// Package workload generates synthetic table traffic: bulk loads at fixed
// value sizes, inserts under several key distributions, and mixed
// read/write/delete operation streams. Runners drive any types.Table through
// the capability contract and never reach into engine internals; timing
// belongs to callers.
// Implements: prd003-workloads.
package workload

import (
	"errors"
	"fmt"
	"sort"
)

// Workload names, as selected on the command line and recorded in results.
const (
	NameLoadFactor      = "load_factor"
	NameKeyDistribution = "key_distribution"
	NameOperationMix    = "operation_mix"
	NameStress          = "stress"
)

// Key distribution patterns (prd003-workloads R3.2).
const (
	PatternUniform    = "uniform"
	PatternClustered  = "clustered"
	PatternSequential = "sequential"
)

// clusterCount is how many hot groups the clustered pattern spreads keys
// across.
const clusterCount = 10

// Spec validation errors (prd003-workloads R1.3).
var (
	ErrSizeInvalid       = errors.New("size must be positive")
	ErrValueSizeInvalid  = errors.New("value size must be positive")
	ErrPatternUnknown    = errors.New("unknown key pattern")
	ErrOperationsInvalid = errors.New("operations must be positive")
	ErrMixInvalid        = errors.New("read and write percentages must each be 0-100 and sum to at most 100")
	ErrMixUnknown        = errors.New("unknown operation mix")
	ErrEntriesInvalid    = errors.New("entries must be positive")
)

// knownPatterns lists the patterns that Validate accepts.
var knownPatterns = map[string]bool{
	PatternUniform:    true,
	PatternClustered:  true,
	PatternSequential: true,
}

// PatternNames returns the supported key patterns in stable order.
func PatternNames() []string {
	return []string{PatternUniform, PatternClustered, PatternSequential}
}

// LoadFactorSpec loads a table with Size sequential keys, each carrying a
// value of ValueSize bytes (prd003-workloads R2).
type LoadFactorSpec struct {
	// Size is the number of keys inserted.
	Size int `json:"size" yaml:"size"`

	// ValueSize is the byte length of every inserted value.
	ValueSize int `json:"value_size" yaml:"value_size"`
}

// Validate checks the spec, returning a sentinel error on failure.
func (s LoadFactorSpec) Validate() error {
	if s.Size <= 0 {
		return ErrSizeInvalid
	}
	if s.ValueSize <= 0 {
		return ErrValueSizeInvalid
	}
	return nil
}

// KeyDistributionSpec inserts Size keys drawn from the named pattern
// (prd003-workloads R3). Clustered and sequential keys are unique; uniform
// keys are random draws and may repeat, so the final table holds at most
// Size entries.
type KeyDistributionSpec struct {
	// Size is the number of insert operations issued.
	Size int `json:"size" yaml:"size"`

	// Pattern selects the key shape: uniform, clustered, or sequential.
	Pattern string `json:"pattern" yaml:"pattern"`
}

// Validate checks the spec, returning a sentinel error on failure.
func (s KeyDistributionSpec) Validate() error {
	if s.Size <= 0 {
		return ErrSizeInvalid
	}
	if !knownPatterns[s.Pattern] {
		return ErrPatternUnknown
	}
	return nil
}

// OperationMixSpec pre-populates InitialSize keys and then issues Operations
// random operations split by percentage: ReadPct reads, WritePct writes, the
// remainder deletes (prd003-workloads R4).
type OperationMixSpec struct {
	// InitialSize is the key count loaded before the operation stream runs.
	// The stream addresses keys by index modulo this count, so it must be
	// positive.
	InitialSize int `json:"initial_size" yaml:"initial_size"`

	// Operations is the length of the operation stream.
	Operations int `json:"operations" yaml:"operations"`

	// ReadPct is the percentage of operations that are reads.
	ReadPct int `json:"read_pct" yaml:"read_pct"`

	// WritePct is the percentage of operations that are writes.
	WritePct int `json:"write_pct" yaml:"write_pct"`
}

// Validate checks the spec, returning a sentinel error on failure.
func (s OperationMixSpec) Validate() error {
	if s.InitialSize <= 0 {
		return ErrSizeInvalid
	}
	if s.Operations <= 0 {
		return ErrOperationsInvalid
	}
	if s.ReadPct < 0 || s.WritePct < 0 || s.ReadPct+s.WritePct > 100 {
		return ErrMixInvalid
	}
	return nil
}

// StressSpec drives the three-phase stress run: bulk growth, full overwrite,
// then delete/insert churn (prd003-workloads R5).
type StressSpec struct {
	// Entries is the key count built in the growth phase. Even values keep
	// the final table size equal to Entries after churn.
	Entries int `json:"entries" yaml:"entries"`
}

// Validate checks the spec, returning a sentinel error on failure.
func (s StressSpec) Validate() error {
	if s.Entries <= 0 {
		return ErrEntriesInvalid
	}
	return nil
}

// mixes holds the named operation mixes. Percentages are read/write; the
// remainder deletes.
var mixes = map[string]OperationMixSpec{
	"read_heavy":  {ReadPct: 90, WritePct: 5},
	"write_heavy": {ReadPct: 5, WritePct: 90},
	"balanced":    {ReadPct: 33, WritePct: 33},
	"typical_web": {ReadPct: 80, WritePct: 15},
}

// MixNames returns the named mixes in sorted order.
func MixNames() []string {
	names := make([]string, 0, len(mixes))
	for name := range mixes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MixFor returns the named preset with the caller's sizing applied.
func MixFor(name string, initialSize, operations int) (OperationMixSpec, error) {
	m, ok := mixes[name]
	if !ok {
		return OperationMixSpec{}, fmt.Errorf("resolving mix %q: %w", name, ErrMixUnknown)
	}
	m.InitialSize = initialSize
	m.Operations = operations
	return m, nil
}
