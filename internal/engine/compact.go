// This file implements the memory-compact open addressing engine. It probes
// exactly like the slot-per-struct engine but keeps slot statuses in a packed
// bit array, two bits per slot, parallel to a bare entry array.
// Implements: prd002-table-engines R5 (compact engine), R2.3-R2.5 (growth and
//             tombstone compaction); prd001-table-core R7.1 (fail loudly).
package engine

import (
	"fmt"
	"hash/maphash"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Compile-time interface check: Compact must implement types.Table.
var _ types.Table[string, int] = (*Compact[string, int])(nil)

// Packed slot status codes, two bits per slot (prd002-table-engines R5.2).
// The 10 code is never written; decoding it means the status array has been
// corrupted.
const (
	statusEmpty    byte = 0b00
	statusDeleted  byte = 0b01
	statusOccupied byte = 0b11
)

// slotsPerByte is how many 2-bit statuses fit in one status byte.
const slotsPerByte = 4

// statusBytes returns the status array length for a slot capacity.
func statusBytes(capacity int) int {
	return (capacity + slotsPerByte - 1) / slotsPerByte
}

// Compact trades the per-slot state byte for a shared packed status array:
// per slot it spends two bits of status plus one entry, nothing else. The
// entry at index i is meaningful only while status(i) is occupied; empty and
// deleted slots hold zero values (prd002-table-engines R5.1).
type Compact[K comparable, V any] struct {
	status     []byte // two bits per slot, slotsPerByte slots per byte
	entries    []entry[K, V]
	seed       maphash.Seed
	size       int
	tombstones int
	loadFactor float64
}

// NewCompact builds a compact table from cfg. The capacity hint rounds up to
// a power of two with a floor of types.DefaultCapacity; the status array is
// sized at two bits per slot.
func NewCompact[K comparable, V any](cfg types.Config) (*Compact[K, V], error) {
	if err := validateSizing(cfg); err != nil {
		return nil, fmt.Errorf("building compact table: %w", err)
	}
	capacity := initialCapacity(cfg.GetCapacityHint())
	return &Compact[K, V]{
		status:     make([]byte, statusBytes(capacity)),
		entries:    make([]entry[K, V], capacity),
		seed:       maphash.MakeSeed(),
		loadFactor: cfg.GetLoadFactor(),
	}, nil
}

// statusAt decodes the 2-bit status of slot i. The unused 10 code cannot
// result from any legal write sequence, so decoding it panics rather than
// letting a corrupted table keep serving reads (prd001-table-core R7.1).
func (c *Compact[K, V]) statusAt(i int) byte {
	s := c.status[i/slotsPerByte] >> (uint(i%slotsPerByte) * 2) & 0b11
	if s == 0b10 {
		panic(fmt.Sprintf("compact table: corrupted status %02b at slot %d", s, i))
	}
	return s
}

// setStatus writes the 2-bit status of slot i: clear the lane first, then OR
// the new code in. A plain OR would merge old and new bits and can turn a
// tombstone into the corrupt 10 code (prd002-table-engines R5.3). Neighboring
// statuses in the same byte are untouched.
func (c *Compact[K, V]) setStatus(i int, s byte) {
	shift := uint(i%slotsPerByte) * 2
	c.status[i/slotsPerByte] &^= 0b11 << shift
	c.status[i/slotsPerByte] |= (s & 0b11) << shift
}

// Insert stores value under key (prd002-table-engines R5.4). Same walk as the
// probing engine: remember the first tombstone, keep going until the key or
// an empty slot settles presence, then overwrite in place or claim the
// remembered slot.
func (c *Compact[K, V]) Insert(key K, value V) error {
	c.ensureRoom()

	mask := uint64(len(c.entries) - 1)
	home := maphash.Comparable(c.seed, key) & mask
	free := -1
	for n := 0; n < len(c.entries); n++ {
		i := int((home + uint64(n)) & mask)
		switch c.statusAt(i) {
		case statusEmpty:
			if free >= 0 {
				c.claim(free, key, value)
				return nil
			}
			c.setStatus(i, statusOccupied)
			c.entries[i] = entry[K, V]{key: key, val: value}
			c.size++
			return nil
		case statusDeleted:
			if free < 0 {
				free = i
			}
		case statusOccupied:
			if c.entries[i].key == key {
				c.entries[i].val = value
				return nil
			}
		}
	}
	if free >= 0 {
		c.claim(free, key, value)
		return nil
	}
	return types.ErrTableFull
}

// claim converts a tombstone into an occupied entry.
func (c *Compact[K, V]) claim(i int, key K, value V) {
	c.setStatus(i, statusOccupied)
	c.entries[i] = entry[K, V]{key: key, val: value}
	c.size++
	c.tombstones--
}

// Get walks the key's probe chain. Empty ends the walk as a miss; tombstones
// are skipped; entries are only read under an occupied status
// (prd002-table-engines R5.5).
func (c *Compact[K, V]) Get(key K) (V, bool, error) {
	mask := uint64(len(c.entries) - 1)
	home := maphash.Comparable(c.seed, key) & mask
	for n := 0; n < len(c.entries); n++ {
		i := int((home + uint64(n)) & mask)
		switch c.statusAt(i) {
		case statusEmpty:
			var zero V
			return zero, false, nil
		case statusOccupied:
			if c.entries[i].key == key {
				return c.entries[i].val, true, nil
			}
		}
	}
	var zero V
	return zero, false, nil
}

// Delete marks the key's slot deleted and zeroes its entry, restoring the
// slot to placeholder state (prd002-table-engines R5.6). Absent keys are a
// no-op.
func (c *Compact[K, V]) Delete(key K) error {
	mask := uint64(len(c.entries) - 1)
	home := maphash.Comparable(c.seed, key) & mask
	for n := 0; n < len(c.entries); n++ {
		i := int((home + uint64(n)) & mask)
		switch c.statusAt(i) {
		case statusEmpty:
			return nil
		case statusOccupied:
			if c.entries[i].key == key {
				c.setStatus(i, statusDeleted)
				c.entries[i] = entry[K, V]{}
				c.size--
				c.tombstones++
				return nil
			}
		}
	}
	return nil
}

// Len returns the number of live keys. Tombstones do not count.
func (c *Compact[K, V]) Len() int { return c.size }

// Cap returns the current slot count.
func (c *Compact[K, V]) Cap() int { return len(c.entries) }

// ensureRoom keeps the post-insert load factor at or below the threshold,
// doubling for live load and rehashing in place for tombstone-inflated load,
// exactly as the probing engine does (prd002-table-engines R2.4, R2.5).
func (c *Compact[K, V]) ensureRoom() {
	limit := c.loadFactor * float64(len(c.entries))
	switch {
	case float64(c.size+1) > limit:
		c.rebuild(len(c.entries) * 2)
	case float64(c.size+c.tombstones+1) > limit:
		c.rebuild(len(c.entries))
	}
}

// rebuild reallocates both parallel arrays at newCapacity and replaces every
// live entry. The status array starts all-empty, so placement stops at the
// first empty slot.
func (c *Compact[K, V]) rebuild(newCapacity int) {
	oldStatus := c.status
	oldEntries := c.entries
	c.status = make([]byte, statusBytes(newCapacity))
	c.entries = make([]entry[K, V], newCapacity)
	c.tombstones = 0
	mask := uint64(newCapacity - 1)
	for i := range oldEntries {
		if oldStatus[i/slotsPerByte]>>(uint(i%slotsPerByte)*2)&0b11 != statusOccupied {
			continue
		}
		e := oldEntries[i]
		j := maphash.Comparable(c.seed, e.key) & mask
		for c.statusAt(int(j)) == statusOccupied {
			j = (j + 1) & mask
		}
		c.setStatus(int(j), statusOccupied)
		c.entries[j] = e
	}
}
