// Package integration provides CLI integration tests for larder.
// Implements: prd005-larder-cli R7 (end-to-end validation).
package integration

import (
	"bufio"
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// larderBin is the path to the built larder binary.
	larderBin string
	// buildErr captures any build error.
	buildErr error
)

// BuildError wraps a build error with output.
type BuildError struct {
	Err    error
	Output string
}

func (e *BuildError) Error() string {
	return e.Err.Error() + ": " + e.Output
}

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// SetLarderBin sets the path to the larder binary (called from TestMain).
func SetLarderBin(path string) {
	larderBin = path
}

// SetBuildErr sets the build error (called from TestMain).
func SetBuildErr(err error) {
	buildErr = err
}

// TestEnv provides an isolated test environment with its own config and data
// directory.
type TestEnv struct {
	t       *testing.T
	TempDir string
	Config  string
	DataDir string
}

// NewTestEnv creates a new isolated test environment with the default engine.
func NewTestEnv(t *testing.T) *TestEnv {
	return NewTestEnvWithEngine(t, "chained")
}

// NewTestEnvWithEngine creates an isolated test environment whose config.yaml
// selects the given default engine.
func NewTestEnvWithEngine(t *testing.T, engine string) *TestEnv {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("failed to build larder: %v", buildErr)
	}
	if larderBin == "" {
		t.Fatal("larder binary not built (larderBin is empty)")
	}

	tempDir := t.TempDir()
	dataDir := filepath.Join(tempDir, "data")
	configDir := filepath.Join(tempDir, "config")

	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("failed to create config dir: %v", err)
	}
	configContent := "engine: " + engine + "\ndata_dir: " + dataDir + "\n"
	if err := os.WriteFile(filepath.Join(configDir, "config.yaml"), []byte(configContent), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	return &TestEnv{
		t:       t,
		TempDir: tempDir,
		Config:  configDir,
		DataDir: dataDir,
	}
}

// CmdResult holds the result of a larder command execution.
type CmdResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
}

// RunLarder executes the larder CLI with the given arguments.
// Returns stdout, stderr, and exit code.
func (e *TestEnv) RunLarder(args ...string) CmdResult {
	e.t.Helper()

	allArgs := append([]string{"--config-dir", e.Config, "--data-dir", e.DataDir}, args...)
	cmd := exec.Command(larderBin, allArgs...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			e.t.Fatalf("failed to run larder: %v", err)
		}
	}

	return CmdResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		ExitCode: exitCode,
	}
}

// MustRunLarder executes the larder CLI and fails the test if it returns non-zero.
func (e *TestEnv) MustRunLarder(args ...string) CmdResult {
	e.t.Helper()
	result := e.RunLarder(args...)
	if result.ExitCode != 0 {
		e.t.Fatalf("larder %v failed with exit code %d:\nstdout: %s\nstderr: %s",
			args, result.ExitCode, result.Stdout, result.Stderr)
	}
	return result
}

// ParseJSON parses JSON output into the target type.
func ParseJSON[T any](t *testing.T, jsonStr string) T {
	t.Helper()
	var result T
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		t.Fatalf("failed to parse JSON %q: %v", jsonStr, err)
	}
	return result
}

// BenchRow mirrors one bench --json result row.
type BenchRow struct {
	Engine     string  `json:"engine"`
	Workload   string  `json:"workload"`
	Detail     string  `json:"detail"`
	Size       int     `json:"size"`
	Operations int     `json:"operations"`
	DurationNs int64   `json:"duration_ns"`
	NsPerOp    float64 `json:"ns_per_op"`
}

// RunRow mirrors one runs --json result row.
type RunRow struct {
	RunID      string  `json:"run_id"`
	Engine     string  `json:"engine"`
	Workload   string  `json:"workload"`
	Detail     string  `json:"detail"`
	Size       int     `json:"size"`
	Operations int     `json:"operations"`
	DurationNs int64   `json:"duration_ns"`
	NsPerOp    float64 `json:"ns_per_op"`
	RecordedAt string  `json:"recorded_at"`
}

// StressPhase mirrors one phase of a run --json report.
type StressPhase struct {
	Phase  string `json:"phase"`
	Counts struct {
		Inserts int `json:"inserts"`
		Reads   int `json:"reads"`
		Deletes int `json:"deletes"`
	} `json:"counts"`
	DurationNs int64 `json:"duration_ns"`
}

// StressReport mirrors one engine's run --json report.
type StressReport struct {
	Engine  string        `json:"engine"`
	Entries int           `json:"entries"`
	Phases  []StressPhase `json:"phases"`
}

// ReadJSONLFile reads a JSONL file (one JSON object per line) and returns a slice.
func ReadJSONLFile[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open JSONL file %s: %v", path, err)
	}
	defer f.Close()

	var results []T
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var record T
		if err := json.Unmarshal(line, &record); err != nil {
			t.Fatalf("failed to parse JSONL line in %s: %v", path, err)
		}
		results = append(results, record)
	}
	if err := scanner.Err(); err != nil {
		t.Fatalf("failed to scan JSONL file %s: %v", path, err)
	}
	return results
}
