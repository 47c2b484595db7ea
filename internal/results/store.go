// This file implements the run store lifecycle and queries.
// Implements: prd004-results-store R1 (lifecycle), R3 (recording),
//             R5 (listing); prd001-table-core R8 (UUID v7 run IDs).
package results

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Store errors (prd004-results-store R1.3).
var (
	ErrStoreClosed = errors.New("results store is closed")
	ErrRunInvalid  = errors.New("run record must name an engine and a workload")
)

// timeLayout is RFC 3339 with a fixed-width fraction so the TEXT column
// orders chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Run is one recorded benchmark execution.
type Run struct {
	// RunID identifies the run. Empty on record; the store assigns a UUID v7.
	RunID string `json:"run_id"`

	// Engine is the table engine the run exercised.
	Engine string `json:"engine"`

	// Workload names the generator that produced the traffic.
	Workload string `json:"workload"`

	// Detail carries the workload variant: a pattern, mix, or phase name,
	// plus sizing notes. Free-form.
	Detail string `json:"detail"`

	// Size is the key count the workload targeted.
	Size int `json:"size"`

	// Operations is the total operation count the run executed.
	Operations int `json:"operations"`

	// Duration is the wall time of the timed section.
	Duration time.Duration `json:"duration_ns"`

	// NsPerOp is Duration divided by Operations. Zero on record derives it.
	NsPerOp float64 `json:"ns_per_op"`

	// RecordedAt is when the run was stored. Zero on record means now.
	RecordedAt time.Time `json:"recorded_at"`
}

// Filter narrows ListRuns output. Zero fields match everything.
type Filter struct {
	Engine   string
	Workload string
	Limit    int
}

// Store keeps run records in SQLite under dataDir and mirrors every change
// to runs.jsonl. The zero value is not usable; call Open.
type Store struct {
	mu      sync.Mutex
	db      *sql.DB
	dataDir string
}

// Open opens (or creates) the run store under dataDir. History accumulates:
// an existing database is kept, and a missing database reseeds from an
// existing runs.jsonl so the mirror can restore the store
// (prd004-results-store R1.1, R4.4).
func Open(dataDir string) (*Store, error) {
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "results.db"))
	if err != nil {
		return nil, fmt.Errorf("opening results database: %w", err)
	}
	for _, ddl := range schemaDDL {
		if _, err := db.Exec(ddl); err != nil {
			db.Close()
			return nil, fmt.Errorf("applying schema: %w", err)
		}
	}

	s := &Store{db: db, dataDir: dataDir}
	if err := s.seedFromJSONL(); err != nil {
		db.Close()
		return nil, fmt.Errorf("reseeding from %s: %w", runsFileName, err)
	}
	return s, nil
}

// Close releases the database handle. Idempotent; operations after Close
// return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing results database: %w", err)
	}
	s.db = nil
	return nil
}

// RecordRun stores one run and refreshes the JSONL mirror. Missing RunID,
// RecordedAt, and NsPerOp fields are filled in; the assigned ID is returned
// (prd004-results-store R3).
func (s *Store) RecordRun(run Run) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return "", ErrStoreClosed
	}
	if run.Engine == "" || run.Workload == "" {
		return "", ErrRunInvalid
	}

	if run.RunID == "" {
		run.RunID = generateRunID()
	}
	if run.RecordedAt.IsZero() {
		run.RecordedAt = time.Now().UTC()
	}
	if run.NsPerOp == 0 && run.Operations > 0 {
		run.NsPerOp = float64(run.Duration.Nanoseconds()) / float64(run.Operations)
	}

	_, err := s.db.Exec(
		"INSERT INTO runs (run_id, engine, workload, detail, size, operations, duration_ns, ns_per_op, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
		run.RunID, run.Engine, run.Workload, run.Detail, run.Size, run.Operations,
		run.Duration.Nanoseconds(), run.NsPerOp, run.RecordedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	if err := s.persistRunsJSONL(); err != nil {
		return "", fmt.Errorf("persisting %s: %w", runsFileName, err)
	}
	return run.RunID, nil
}

// ListRuns returns runs matching the filter, newest first
// (prd004-results-store R5).
func (s *Store) ListRuns(filter Filter) ([]Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.db == nil {
		return nil, ErrStoreClosed
	}

	query := "SELECT run_id, engine, workload, detail, size, operations, duration_ns, ns_per_op, recorded_at FROM runs"
	var conditions []string
	var args []any
	if filter.Engine != "" {
		conditions = append(conditions, "engine = ?")
		args = append(args, filter.Engine)
	}
	if filter.Workload != "" {
		conditions = append(conditions, "workload = ?")
		args = append(args, filter.Workload)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY recorded_at DESC, run_id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("fetching runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := hydrateRun(rows)
		if err != nil {
			return nil, fmt.Errorf("hydrating run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// hydrateRun converts a row from sql.Rows into a Run.
func hydrateRun(rows *sql.Rows) (Run, error) {
	var r Run
	var durationNs int64
	var recordedAt string
	if err := rows.Scan(&r.RunID, &r.Engine, &r.Workload, &r.Detail, &r.Size,
		&r.Operations, &durationNs, &r.NsPerOp, &recordedAt); err != nil {
		return Run{}, err
	}
	r.Duration = time.Duration(durationNs)
	var err error
	r.RecordedAt, err = time.Parse(time.RFC3339Nano, recordedAt)
	if err != nil {
		return Run{}, fmt.Errorf("parsing recorded_at: %w", err)
	}
	return r, nil
}

// persistRunsJSONL reads all runs from SQLite and writes them to runs.jsonl
// using the atomic write pattern. The caller must hold s.mu.
func (s *Store) persistRunsJSONL() error {
	rows, err := s.db.Query(
		"SELECT run_id, engine, workload, detail, size, operations, duration_ns, ns_per_op, recorded_at FROM runs ORDER BY recorded_at ASC, run_id ASC",
	)
	if err != nil {
		return fmt.Errorf("querying runs for JSONL: %w", err)
	}
	defer rows.Close()

	var records []json.RawMessage
	for rows.Next() {
		var rec runJSONLRecord
		if err := rows.Scan(&rec.RunID, &rec.Engine, &rec.Workload, &rec.Detail,
			&rec.Size, &rec.Operations, &rec.DurationNs, &rec.NsPerOp, &rec.RecordedAt); err != nil {
			return fmt.Errorf("scanning run for JSONL: %w", err)
		}
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("marshaling run for JSONL: %w", err)
		}
		records = append(records, data)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterating runs for JSONL: %w", err)
	}

	return writeJSONL(filepath.Join(s.dataDir, runsFileName), records)
}

// seedFromJSONL restores run rows from the JSONL mirror when the database
// has none. A missing mirror file is not an error.
func (s *Store) seedFromJSONL() error {
	var count int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM runs").Scan(&count); err != nil {
		return fmt.Errorf("counting runs: %w", err)
	}
	if count > 0 {
		return nil
	}

	path := filepath.Join(s.dataDir, runsFileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	records, err := readJSONL(path)
	if err != nil {
		return err
	}

	for _, raw := range records {
		var rec runJSONLRecord
		if err := json.Unmarshal(raw, &rec); err != nil {
			// Skip records that do not parse; the mirror is best effort.
			continue
		}
		_, err := s.db.Exec(
			"INSERT OR IGNORE INTO runs (run_id, engine, workload, detail, size, operations, duration_ns, ns_per_op, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)",
			rec.RunID, rec.Engine, rec.Workload, rec.Detail, rec.Size,
			rec.Operations, rec.DurationNs, rec.NsPerOp, rec.RecordedAt,
		)
		if err != nil {
			return fmt.Errorf("reseeding run %s: %w", rec.RunID, err)
		}
	}
	return nil
}

// generateRunID generates a new UUID v7 for run IDs.
func generateRunID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}

// runJSONLRecord matches the JSONL mirror format (prd004-results-store R4.2).
type runJSONLRecord struct {
	RunID      string  `json:"run_id"`
	Engine     string  `json:"engine"`
	Workload   string  `json:"workload"`
	Detail     string  `json:"detail"`
	Size       int64   `json:"size"`
	Operations int64   `json:"operations"`
	DurationNs int64   `json:"duration_ns"`
	NsPerOp    float64 `json:"ns_per_op"`
	RecordedAt string  `json:"recorded_at"`
}
