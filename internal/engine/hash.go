// This file holds the hashing, sizing, and validation helpers shared by all
// table engines.
// Implements: prd002-table-engines R1 (hashing), R2.1-R2.2 (capacity policy).
package engine

import (
	"math/bits"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// entry is one stored key/value pair. Engines hold entries by value and hand
// values back by value; callers never see table storage.
type entry[K comparable, V any] struct {
	key K
	val V
}

// minCapacity is the smallest slot count any engine allocates
// (prd002-table-engines R2.1).
const minCapacity = 16

// nextPowerOfTwo rounds n up to the nearest power of two. Values below two
// round to one; callers apply the minCapacity floor afterwards.
func nextPowerOfTwo(n int) int {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len(uint(n-1))
}

// initialCapacity resolves a capacity hint to the starting slot count: the
// next power of two, floored at minCapacity (prd002-table-engines R2.2).
func initialCapacity(hint int) int {
	c := nextPowerOfTwo(hint)
	if c < minCapacity {
		return minCapacity
	}
	return c
}

// validateSizing checks the sizing fields shared by every engine constructor.
// Engine selection is validated by New, not here, so the concrete
// constructors accept a Config with an empty Engine field.
func validateSizing(cfg types.Config) error {
	if cfg.CapacityHint < 0 {
		return types.ErrCapacityInvalid
	}
	if cfg.LoadFactor < 0 || cfg.LoadFactor >= 1 {
		return types.ErrLoadFactorInvalid
	}
	return nil
}
