package types

import "errors"

// Table is the capability contract shared by every hash table engine. Keys
// and values move in and out by value; Get hands back a copy of the stored
// value, never a reference into table storage. Implementations are not safe
// for concurrent use; callers serialize access externally.
// Implements prd001-table-core R3.
type Table[K comparable, V any] interface {
	// Insert stores value under key, overwriting any existing value for an
	// equal key. Inserting over an existing key leaves Len unchanged. The
	// table may grow or rehash before the entry is placed.
	Insert(key K, value V) error

	// Get retrieves the value stored under key. The second result reports
	// whether the key was present. The error is reserved for structural
	// failures; a plain miss is (zero, false, nil).
	Get(key K) (V, bool, error)

	// Delete removes key if present. Deleting an absent key is a no-op
	// returning nil.
	Delete(key K) error

	// Len returns the number of live keys.
	Len() int

	// Cap returns the current slot capacity.
	Cap() int
}

// Table operation errors (prd001-table-core R7.2).
var (
	// ErrTableFull reports that an insert probed every slot without finding a
	// usable one. Unreachable while growth is enabled; detected so a probe
	// can never cycle forever.
	ErrTableFull = errors.New("table is full")
)
