// This file implements the open addressing engine with linear probing and
// tombstone deletion.
// Implements: prd002-table-engines R4 (probing engine), R2.3-R2.5 (growth and
//             tombstone compaction); prd001-table-core R7 (error taxonomy).
package engine

import (
	"fmt"
	"hash/maphash"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// Compile-time interface check: Probing must implement types.Table.
var _ types.Table[string, int] = (*Probing[string, int])(nil)

// Slot states for the probing engine. A deleted slot is a tombstone: lookups
// walk past it, inserts may reclaim it.
const (
	slotEmpty uint8 = iota
	slotDeleted
	slotOccupied
)

// slot pairs a state tag with its entry. The entry is meaningful only while
// the slot is occupied; Delete zeroes it so dead keys are not retained.
type slot[K comparable, V any] struct {
	state uint8
	entry entry[K, V]
}

// Probing stores entries directly in the slot array and resolves collisions
// by walking forward one slot at a time, wrapping at the end. Deletion marks
// tombstones instead of emptying slots so later probe walks do not stop short
// (prd002-table-engines R4.1).
type Probing[K comparable, V any] struct {
	slots      []slot[K, V]
	seed       maphash.Seed
	size       int
	tombstones int
	loadFactor float64
}

// NewProbing builds a linear-probing table from cfg. The capacity hint rounds
// up to a power of two with a floor of types.DefaultCapacity.
func NewProbing[K comparable, V any](cfg types.Config) (*Probing[K, V], error) {
	if err := validateSizing(cfg); err != nil {
		return nil, fmt.Errorf("building probing table: %w", err)
	}
	return &Probing[K, V]{
		slots:      make([]slot[K, V], initialCapacity(cfg.GetCapacityHint())),
		seed:       maphash.MakeSeed(),
		loadFactor: cfg.GetLoadFactor(),
	}, nil
}

// Insert stores value under key (prd002-table-engines R4.2). The walk
// remembers the first tombstone it passes but keeps going until it finds the
// key or an empty slot: the key may still be occupied further along the
// chain, and overwriting there is what keeps one live slot per key. Only a
// confirmed-absent key claims the remembered tombstone.
func (p *Probing[K, V]) Insert(key K, value V) error {
	p.ensureRoom()

	mask := uint64(len(p.slots) - 1)
	home := maphash.Comparable(p.seed, key) & mask
	free := -1
	for n := 0; n < len(p.slots); n++ {
		i := int((home + uint64(n)) & mask)
		s := &p.slots[i]
		switch s.state {
		case slotEmpty:
			if free >= 0 {
				p.claim(free, key, value)
				return nil
			}
			s.state = slotOccupied
			s.entry = entry[K, V]{key: key, val: value}
			p.size++
			return nil
		case slotDeleted:
			if free < 0 {
				free = i
			}
		case slotOccupied:
			if s.entry.key == key {
				s.entry.val = value
				return nil
			}
		}
	}
	// Probed every slot without finding the key or an empty slot.
	if free >= 0 {
		p.claim(free, key, value)
		return nil
	}
	return types.ErrTableFull
}

// claim converts a tombstone into an occupied entry.
func (p *Probing[K, V]) claim(i int, key K, value V) {
	p.slots[i] = slot[K, V]{state: slotOccupied, entry: entry[K, V]{key: key, val: value}}
	p.size++
	p.tombstones--
}

// Get walks the key's probe chain. An empty slot ends the walk as a miss;
// tombstones are skipped (prd002-table-engines R4.3).
func (p *Probing[K, V]) Get(key K) (V, bool, error) {
	mask := uint64(len(p.slots) - 1)
	home := maphash.Comparable(p.seed, key) & mask
	for n := 0; n < len(p.slots); n++ {
		i := int((home + uint64(n)) & mask)
		s := &p.slots[i]
		switch s.state {
		case slotEmpty:
			var zero V
			return zero, false, nil
		case slotOccupied:
			if s.entry.key == key {
				return s.entry.val, true, nil
			}
		}
	}
	var zero V
	return zero, false, nil
}

// Delete converts the key's slot into a tombstone (prd002-table-engines
// R4.4). An absent key, whether the walk hits an empty slot or wraps all the
// way around, is a no-op.
func (p *Probing[K, V]) Delete(key K) error {
	mask := uint64(len(p.slots) - 1)
	home := maphash.Comparable(p.seed, key) & mask
	for n := 0; n < len(p.slots); n++ {
		i := int((home + uint64(n)) & mask)
		s := &p.slots[i]
		switch s.state {
		case slotEmpty:
			return nil
		case slotOccupied:
			if s.entry.key == key {
				s.state = slotDeleted
				s.entry = entry[K, V]{}
				p.size--
				p.tombstones++
				return nil
			}
		}
	}
	return nil
}

// Len returns the number of live keys. Tombstones do not count.
func (p *Probing[K, V]) Len() int { return p.size }

// Cap returns the current slot count.
func (p *Probing[K, V]) Cap() int { return len(p.slots) }

// ensureRoom keeps the post-insert load factor at or below the threshold
// (prd002-table-engines R2.4). Live load over the threshold doubles the
// capacity. Tombstone-inflated load rehashes at the same capacity instead,
// purging every tombstone so probe chains stay bounded under delete/insert
// churn at stable size (R2.5).
func (p *Probing[K, V]) ensureRoom() {
	limit := p.loadFactor * float64(len(p.slots))
	switch {
	case float64(p.size+1) > limit:
		p.rebuild(len(p.slots) * 2)
	case float64(p.size+p.tombstones+1) > limit:
		p.rebuild(len(p.slots))
	}
}

// rebuild reallocates at newCapacity and replaces every live entry. A fresh
// table has no tombstones, so placement stops at the first empty slot.
func (p *Probing[K, V]) rebuild(newCapacity int) {
	old := p.slots
	p.slots = make([]slot[K, V], newCapacity)
	p.tombstones = 0
	mask := uint64(newCapacity - 1)
	for i := range old {
		if old[i].state != slotOccupied {
			continue
		}
		e := old[i].entry
		j := maphash.Comparable(p.seed, e.key) & mask
		for p.slots[j].state == slotOccupied {
			j = (j + 1) & mask
		}
		p.slots[j] = slot[K, V]{state: slotOccupied, entry: e}
	}
}
