// Package engine provides the hash table engines behind the types.Table
// contract: separate chaining, open addressing with linear probing, and a
// memory-compact open addressing variant that packs slot statuses four to a
// byte. Engines share the capacity policy (power-of-two sizes, floor 16,
// doubling growth) and differ only in slot layout and collision handling.
// Implements: prd002-table-engines.
// See docs/ARCHITECTURE.md § Engines.
package engine

import (
	"fmt"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// New builds the engine named by cfg.Engine (prd002-table-engines R6). The
// Config is validated first; failures wrap the types sentinels so callers can
// errors.Is against them.
func New[K comparable, V any](cfg types.Config) (types.Table[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating table config: %w", err)
	}
	switch cfg.Engine {
	case types.EngineChained:
		return NewChained[K, V](cfg)
	case types.EngineProbing:
		return NewProbing[K, V](cfg)
	case types.EngineCompact:
		return NewCompact[K, V](cfg)
	default:
		// Validate accepted the name, so this switch cannot fall through
		// unless knownEngines and this list drift apart.
		return nil, fmt.Errorf("selecting engine %q: %w", cfg.Engine, types.ErrEngineUnknown)
	}
}
