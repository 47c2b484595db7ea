package engine

import (
	"fmt"
	"hash/maphash"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/larder/pkg/types"
)

// singleBucketChained builds a degenerate one-bucket table so every key
// collides deterministically, whatever the seed. The out-of-range load
// factor disables growth, which would otherwise split the bucket on the
// first insert.
func singleBucketChained(t *testing.T) *Chained[string, int] {
	t.Helper()
	return &Chained[string, int]{
		buckets:    make([][]entry[string, int], 1),
		seed:       maphash.MakeSeed(),
		loadFactor: 100,
	}
}

func TestChainedCollidingKeysCoexist(t *testing.T) {
	c := singleBucketChained(t)

	require.NoError(t, c.Insert("a", 1))
	require.NoError(t, c.Insert("b", 2))
	require.NoError(t, c.Insert("c", 3))
	require.Equal(t, 3, c.Len())
	require.Len(t, c.buckets[0], 3, "all keys must share the only bucket")

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		got, ok, err := c.Get(key)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, want, got)
	}
}

func TestChainedDeletePreservesBucketOrder(t *testing.T) {
	c := singleBucketChained(t)
	for i, key := range []string{"first", "second", "third", "fourth"} {
		require.NoError(t, c.Insert(key, i))
	}

	require.NoError(t, c.Delete("second"))

	bucket := c.buckets[0]
	require.Len(t, bucket, 3)
	assert.Equal(t, "first", bucket[0].key)
	assert.Equal(t, "third", bucket[1].key, "later entries shift down in order")
	assert.Equal(t, "fourth", bucket[2].key)
	assert.Equal(t, 2, c.Len())
}

func TestChainedUpsertRewritesInPlace(t *testing.T) {
	c := singleBucketChained(t)
	require.NoError(t, c.Insert("x", 1))
	require.NoError(t, c.Insert("y", 2))
	require.NoError(t, c.Insert("x", 10))

	require.Len(t, c.buckets[0], 2, "upsert must not append a second entry")
	assert.Equal(t, "x", c.buckets[0][0].key, "overwritten entry keeps its position")
	assert.Equal(t, 10, c.buckets[0][0].val)
}

func TestChainedGrowRedistributes(t *testing.T) {
	c, err := NewChained[string, string](types.Config{})
	require.NoError(t, err)

	const n = 200
	for i := 0; i < n; i++ {
		require.NoError(t, c.Insert(fmt.Sprintf("k%d", i), fmt.Sprintf("v%d", i)))
	}
	require.Greater(t, c.Cap(), 16, "insert volume must have grown the table")

	// Every entry must sit in the bucket its hash selects under the new mask.
	for idx, bucket := range c.buckets {
		for _, e := range bucket {
			assert.Equal(t, idx, c.bucketIndex(e.key), "entry %q in wrong bucket after growth", e.key)
		}
	}
	assert.Equal(t, n, c.Len())
}
