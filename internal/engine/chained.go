// This file implements the separate chaining engine.
// Implements: prd002-table-engines R3 (chained engine), R2.3 (doubling);
//             prd001-table-core R3 (Table contract).
package engine

import (
	"fmt"
	"hash/maphash"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Compile-time interface check: Chained must implement types.Table.
var _ types.Table[string, int] = (*Chained[string, int])(nil)

// Chained resolves collisions by keeping an ordered slice of entries per
// bucket. Buckets are plain slices, not linked nodes; a delete splices the
// slice and preserves the survivors' relative order (prd002-table-engines
// R3.1).
type Chained[K comparable, V any] struct {
	buckets    [][]entry[K, V]
	seed       maphash.Seed
	size       int
	loadFactor float64
}

// NewChained builds a chained table from cfg. The capacity hint rounds up to
// a power of two with a floor of types.DefaultCapacity; a zero LoadFactor
// means types.DefaultLoadFactor.
func NewChained[K comparable, V any](cfg types.Config) (*Chained[K, V], error) {
	if err := validateSizing(cfg); err != nil {
		return nil, fmt.Errorf("building chained table: %w", err)
	}
	return &Chained[K, V]{
		buckets:    make([][]entry[K, V], initialCapacity(cfg.GetCapacityHint())),
		seed:       maphash.MakeSeed(),
		loadFactor: cfg.GetLoadFactor(),
	}, nil
}

// bucketIndex reduces a key's hash to a bucket index. Capacity is a power of
// two, so a mask replaces the modulo.
func (c *Chained[K, V]) bucketIndex(key K) int {
	h := maphash.Comparable(c.seed, key)
	return int(h & uint64(len(c.buckets)-1))
}

// Insert stores value under key. An existing entry for an equal key is
// overwritten in place and size does not change (prd002-table-engines R3.2).
func (c *Chained[K, V]) Insert(key K, value V) error {
	if float64(c.size+1) > c.loadFactor*float64(len(c.buckets)) {
		c.grow()
	}
	idx := c.bucketIndex(key)
	bucket := c.buckets[idx]
	for i := range bucket {
		if bucket[i].key == key {
			bucket[i].val = value
			return nil
		}
	}
	c.buckets[idx] = append(bucket, entry[K, V]{key: key, val: value})
	c.size++
	return nil
}

// Get scans the key's bucket and returns a copy of the stored value.
func (c *Chained[K, V]) Get(key K) (V, bool, error) {
	bucket := c.buckets[c.bucketIndex(key)]
	for i := range bucket {
		if bucket[i].key == key {
			return bucket[i].val, true, nil
		}
	}
	var zero V
	return zero, false, nil
}

// Delete splices the entry out of its bucket. Later entries shift down one
// position; their relative order is preserved. An absent key is a no-op
// (prd002-table-engines R3.3).
func (c *Chained[K, V]) Delete(key K) error {
	idx := c.bucketIndex(key)
	bucket := c.buckets[idx]
	for i := range bucket {
		if bucket[i].key != key {
			continue
		}
		last := len(bucket) - 1
		copy(bucket[i:], bucket[i+1:])
		// Zero the vacated tail so the backing array drops its references.
		bucket[last] = entry[K, V]{}
		c.buckets[idx] = bucket[:last]
		c.size--
		return nil
	}
	return nil
}

// Len returns the number of live keys.
func (c *Chained[K, V]) Len() int { return c.size }

// Cap returns the current bucket count.
func (c *Chained[K, V]) Cap() int { return len(c.buckets) }

// grow doubles the bucket array and redistributes every entry under the new
// mask (prd002-table-engines R2.3). Keys are unique already, so entries are
// appended directly; size does not change.
func (c *Chained[K, V]) grow() {
	old := c.buckets
	c.buckets = make([][]entry[K, V], len(old)*2)
	for _, bucket := range old {
		for _, e := range bucket {
			idx := c.bucketIndex(e.key)
			c.buckets[idx] = append(c.buckets[idx], e)
		}
	}
}
