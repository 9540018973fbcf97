package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

const runColumns = `id, seq, dialect, extension, op_count, failure_count, generator_version`

const resultColumns = `run_id, seq, op_name, fingerprint, status, code, message`

// ReadRun returns the run with the given ID, or ErrNotFound.
func (s *Store) ReadRun(ctx context.Context, id string) (Run, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM runs WHERE id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return Run{}, fmt.Errorf("read run %s: %w", id, err)
	}
	return run, nil
}

// ListRuns returns recorded runs in seq order. An empty dialect lists all runs.
// Returns an empty slice (not nil) when nothing is recorded.
func (s *Store) ListRuns(ctx context.Context, dialect string) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs`
	var args []any
	if dialect != "" {
		query += ` WHERE dialect = ?`
		args = append(args, dialect)
	}
	query += ` ORDER BY seq ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// ReadOperationResults returns a run's operation results in seq order.
func (s *Store) ReadOperationResults(ctx context.Context, runID string) ([]OperationResult, error) {
	return s.queryResults(ctx, `
		SELECT `+resultColumns+`
		FROM operation_results
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
}

// OperationHistory returns every recorded result for one operation, oldest run first.
func (s *Store) OperationHistory(ctx context.Context, opName string) ([]OperationResult, error) {
	return s.queryResults(ctx, `
		SELECT r.run_id, r.seq, r.op_name, r.fingerprint, r.status, r.code, r.message
		FROM operation_results r
		JOIN runs ON runs.id = r.run_id
		WHERE r.op_name = ?
		ORDER BY runs.seq ASC, r.seq ASC
	`, opName)
}

// LastFingerprints maps operation name to fingerprint for the operations
// generated by the most recent run of a dialect. Returns an empty map if the
// dialect has no runs.
func (s *Store) LastFingerprints(ctx context.Context, dialect string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.op_name, r.fingerprint
		FROM operation_results r
		WHERE r.status = ?
		  AND r.run_id = (
			SELECT id FROM runs WHERE dialect = ? ORDER BY seq DESC LIMIT 1
		  )
		ORDER BY r.seq ASC
	`, StatusGenerated, dialect)
	if err != nil {
		return nil, fmt.Errorf("query fingerprints: %w", err)
	}
	defer rows.Close()

	out := make(map[string]string)
	for rows.Next() {
		var name, fp string
		if err := rows.Scan(&name, &fp); err != nil {
			return nil, fmt.Errorf("scan fingerprint: %w", err)
		}
		out[name] = fp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate fingerprints: %w", err)
	}
	return out, nil
}

func (s *Store) queryResults(ctx context.Context, query string, args ...any) ([]OperationResult, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query operation results: %w", err)
	}
	defer rows.Close()

	results := []OperationResult{}
	for rows.Next() {
		var r OperationResult
		if err := rows.Scan(&r.RunID, &r.Seq, &r.OpName, &r.Fingerprint, &r.Status, &r.Code, &r.Message); err != nil {
			return nil, fmt.Errorf("scan operation result: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate operation results: %w", err)
	}
	return results, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	err := row.Scan(&r.ID, &r.Seq, &r.Dialect, &r.Extension, &r.OpCount, &r.FailureCount, &r.GeneratorVersion)
	return r, err
}
