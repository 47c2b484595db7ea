// Engine performance benchmarks comparing the three table implementations.
// Implements: prd002-table-engines R5 (comparative timing); prd003-workloads R6.
package integration

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/mesh-intelligence/larder/internal/engine"
	"github.com/mesh-intelligence/larder/internal/workload"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// newEngineTable builds a table for benchmarking or fails the benchmark.
func newEngineTable(b *testing.B, engineName string, hint int) types.Table[string, string] {
	b.Helper()

	tbl, err := engine.New[string, string](types.Config{
		Engine:       engineName,
		CapacityHint: hint,
		LoadFactor:   types.DefaultLoadFactor,
	})
	if err != nil {
		b.Fatalf("building %s table: %v", engineName, err)
	}
	return tbl
}

// seedEngineTable inserts n sequential keys and returns them.
func seedEngineTable(b *testing.B, tbl types.Table[string, string], n int) []string {
	b.Helper()

	keys := make([]string, n)
	for i := 0; i < n; i++ {
		keys[i] = fmt.Sprintf("key_%d", i)
		if err := tbl.Insert(keys[i], "value"); err != nil {
			b.Fatalf("seeding key %d: %v", i, err)
		}
	}
	return keys
}

// --- Insert benchmarks (growth included) ---

func BenchmarkInsertChained(b *testing.B) {
	benchmarkInsert(b, types.EngineChained)
}

func BenchmarkInsertProbing(b *testing.B) {
	benchmarkInsert(b, types.EngineProbing)
}

func BenchmarkInsertCompact(b *testing.B) {
	benchmarkInsert(b, types.EngineCompact)
}

func benchmarkInsert(b *testing.B, engineName string) {
	tbl := newEngineTable(b, engineName, 0)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := tbl.Insert(fmt.Sprintf("key_%d", i), "value"); err != nil {
			b.Fatalf("Insert failed: %v", err)
		}
	}
}

// --- Get benchmarks (random hits) ---

func BenchmarkGetChained1000(b *testing.B) {
	benchmarkGet(b, types.EngineChained, 1000)
}

func BenchmarkGetProbing1000(b *testing.B) {
	benchmarkGet(b, types.EngineProbing, 1000)
}

func BenchmarkGetCompact1000(b *testing.B) {
	benchmarkGet(b, types.EngineCompact, 1000)
}

func BenchmarkGetChained10000(b *testing.B) {
	benchmarkGet(b, types.EngineChained, 10000)
}

func BenchmarkGetProbing10000(b *testing.B) {
	benchmarkGet(b, types.EngineProbing, 10000)
}

func BenchmarkGetCompact10000(b *testing.B) {
	benchmarkGet(b, types.EngineCompact, 10000)
}

func benchmarkGet(b *testing.B, engineName string, dataSize int) {
	tbl := newEngineTable(b, engineName, dataSize)
	keys := seedEngineTable(b, tbl, dataSize)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		// Random key selection to measure average lookup time
		idx := rand.Intn(len(keys))
		_, ok, err := tbl.Get(keys[idx])
		if err != nil || !ok {
			b.Fatalf("Get %s: ok=%v err=%v", keys[idx], ok, err)
		}
	}
}

// --- Get benchmarks (misses) ---

func BenchmarkGetMissChained1000(b *testing.B) {
	benchmarkGetMiss(b, types.EngineChained, 1000)
}

func BenchmarkGetMissProbing1000(b *testing.B) {
	benchmarkGetMiss(b, types.EngineProbing, 1000)
}

func BenchmarkGetMissCompact1000(b *testing.B) {
	benchmarkGetMiss(b, types.EngineCompact, 1000)
}

func benchmarkGetMiss(b *testing.B, engineName string, dataSize int) {
	tbl := newEngineTable(b, engineName, dataSize)
	_ = seedEngineTable(b, tbl, dataSize)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, ok, err := tbl.Get(fmt.Sprintf("missing_%d", i)); err != nil || ok {
			b.Fatalf("Get missing: ok=%v err=%v", ok, err)
		}
	}
}

// --- Delete benchmarks ---

func BenchmarkDeleteChained1000(b *testing.B) {
	benchmarkDelete(b, types.EngineChained, 1000)
}

func BenchmarkDeleteProbing1000(b *testing.B) {
	benchmarkDelete(b, types.EngineProbing, 1000)
}

func BenchmarkDeleteCompact1000(b *testing.B) {
	benchmarkDelete(b, types.EngineCompact, 1000)
}

func benchmarkDelete(b *testing.B, engineName string, dataSize int) {
	tbl := newEngineTable(b, engineName, dataSize)
	_ = seedEngineTable(b, tbl, dataSize)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		// Create a key to delete
		key := fmt.Sprintf("target_%d", i)
		if err := tbl.Insert(key, "value"); err != nil {
			b.Fatalf("insert for delete: %v", err)
		}
		b.StartTimer()

		// Measure delete
		if err := tbl.Delete(key); err != nil {
			b.Fatalf("Delete failed: %v", err)
		}
	}
}

// --- Churn benchmarks (tombstone pressure) ---

func BenchmarkChurnChained1000(b *testing.B) {
	benchmarkChurn(b, types.EngineChained, 1000)
}

func BenchmarkChurnProbing1000(b *testing.B) {
	benchmarkChurn(b, types.EngineProbing, 1000)
}

func BenchmarkChurnCompact1000(b *testing.B) {
	benchmarkChurn(b, types.EngineCompact, 1000)
}

// benchmarkChurn deletes and reinserts keys from a fixed window. On the open
// addressing engines this drives tombstone creation, reuse, and periodic
// same-capacity compaction.
func benchmarkChurn(b *testing.B, engineName string, dataSize int) {
	tbl := newEngineTable(b, engineName, dataSize)
	keys := seedEngineTable(b, tbl, dataSize)

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		key := keys[i%len(keys)]
		if err := tbl.Delete(key); err != nil {
			b.Fatalf("Delete failed: %v", err)
		}
		if err := tbl.Insert(key, "value"); err != nil {
			b.Fatalf("Insert failed: %v", err)
		}
	}
}

// --- Workload benchmarks (whole runs) ---

func BenchmarkOperationMixChained1000(b *testing.B) {
	benchmarkOperationMix(b, types.EngineChained, 1000)
}

func BenchmarkOperationMixProbing1000(b *testing.B) {
	benchmarkOperationMix(b, types.EngineProbing, 1000)
}

func BenchmarkOperationMixCompact1000(b *testing.B) {
	benchmarkOperationMix(b, types.EngineCompact, 1000)
}

func benchmarkOperationMix(b *testing.B, engineName string, size int) {
	spec, err := workload.MixFor("balanced", size, size)
	if err != nil {
		b.Fatalf("building mix spec: %v", err)
	}

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		b.StopTimer()
		tbl := newEngineTable(b, engineName, size)
		rng := rand.New(rand.NewSource(42))
		b.StartTimer()

		if _, err := workload.RunOperationMix(tbl, spec, rng); err != nil {
			b.Fatalf("RunOperationMix: %v", err)
		}
	}
}
