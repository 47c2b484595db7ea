// Package types defines the Table capability contract, engine configuration,
// and standard errors for the larder hash table library.
// Implements: prd001-table-core (Config, Table, errors).
// See docs/ARCHITECTURE.md § Capability Contract.
package types

import "errors"

// Config holds engine selection and sizing parameters for table construction.
type Config struct {
	// Engine names the table implementation to construct.
	Engine string `json:"engine" yaml:"engine"`

	// CapacityHint requests an initial capacity. Tables round it up to the
	// next power of two, with a floor of DefaultCapacity.
	CapacityHint int `json:"capacity_hint" yaml:"capacity_hint"`

	// LoadFactor is the occupancy threshold that triggers growth. Zero means
	// DefaultLoadFactor.
	LoadFactor float64 `json:"load_factor" yaml:"load_factor"`
}

// Supported engine names.
const (
	EngineChained = "chained"
	EngineProbing = "probing"
	EngineCompact = "compact"
)

// Sizing defaults shared by every engine.
const (
	DefaultCapacity   = 16
	DefaultLoadFactor = 0.7
)

// Config validation errors (prd001-table-core R1.4).
var (
	ErrEngineEmpty       = errors.New("engine must not be empty")
	ErrEngineUnknown     = errors.New("unknown engine")
	ErrLoadFactorInvalid = errors.New("load factor must be above zero and below one")
	ErrCapacityInvalid   = errors.New("capacity hint must not be negative")
)

// knownEngines lists the engines that Validate accepts.
var knownEngines = map[string]bool{
	EngineChained: true,
	EngineProbing: true,
	EngineCompact: true,
}

// EngineNames returns the supported engine names in stable order.
func EngineNames() []string {
	return []string{EngineChained, EngineProbing, EngineCompact}
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure (prd001-table-core R1.2, R1.3).
func (c Config) Validate() error {
	if c.Engine == "" {
		return ErrEngineEmpty
	}
	if !knownEngines[c.Engine] {
		return ErrEngineUnknown
	}
	if c.CapacityHint < 0 {
		return ErrCapacityInvalid
	}
	if c.LoadFactor < 0 || c.LoadFactor >= 1 {
		return ErrLoadFactorInvalid
	}
	return nil
}

// GetLoadFactor returns the configured load factor, or DefaultLoadFactor when
// the field is zero.
func (c Config) GetLoadFactor() float64 {
	if c.LoadFactor == 0 {
		return DefaultLoadFactor
	}
	return c.LoadFactor
}

// GetCapacityHint returns the configured capacity hint, or DefaultCapacity
// when the field is zero or negative.
func (c Config) GetCapacityHint() int {
	if c.CapacityHint <= 0 {
		return DefaultCapacity
	}
	return c.CapacityHint
}
