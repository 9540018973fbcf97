package store

import (
	"path/filepath"
	"testing"
)

// createTestStore creates a new store in a temp directory for testing.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with minimal required fields.
func createTestRun(id, dialect string) Run {
	return Run{
		ID:               id,
		Dialect:          dialect,
		GeneratorVersion: "0.1.0",
	}
}

// generated creates a generated operation result.
func generated(seq int64, op, fp string) OperationResult {
	return OperationResult{Seq: seq, OpName: op, Fingerprint: fp, Status: StatusGenerated}
}

// skipped creates a skipped operation result.
func skipped(seq int64, op, code string) OperationResult {
	return OperationResult{Seq: seq, OpName: op, Status: StatusSkipped, Code: code, Message: "cannot bind"}
}
