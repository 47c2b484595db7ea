// Package results stores benchmark run records in SQLite and mirrors them to
// a JSONL file for diffable history.
// Implements: prd004-results-store (R2 schema, R3 recording, R4 JSONL mirror).
package results

// Schema DDL (prd004-results-store R2.1). Unlike a scratch table, run history
// accumulates across invocations, so every statement tolerates an existing
// database.
const createRuns = `CREATE TABLE IF NOT EXISTS runs (
    run_id TEXT PRIMARY KEY,
    engine TEXT NOT NULL,
    workload TEXT NOT NULL,
    detail TEXT NOT NULL,
    size INTEGER NOT NULL,
    operations INTEGER NOT NULL,
    duration_ns INTEGER NOT NULL,
    ns_per_op REAL NOT NULL,
    recorded_at TEXT NOT NULL
);`

// Index DDL for the list filters (prd004-results-store R2.2).
const (
	idxRunsEngine   = `CREATE INDEX IF NOT EXISTS idx_runs_engine ON runs(engine);`
	idxRunsWorkload = `CREATE INDEX IF NOT EXISTS idx_runs_workload ON runs(workload);`
	idxRunsRecorded = `CREATE INDEX IF NOT EXISTS idx_runs_recorded ON runs(recorded_at);`
)

// schemaDDL lists all statements executed at open, in order.
var schemaDDL = []string{
	createRuns,
	idxRunsEngine,
	idxRunsWorkload,
	idxRunsRecorded,
}
