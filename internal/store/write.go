package store

import (
	"context"
	"fmt"
)

// WriteRun records a run and its operation results atomically and returns
// the run's assigned sequence number. OpCount and FailureCount are derived
// from results; each result's RunID is set to run.ID.
func (s *Store) WriteRun(ctx context.Context, run Run, results []OperationResult) (int64, error) {
	if run.ID == "" {
		return 0, fmt.Errorf("write run: empty run id")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("write run: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	var seq int64
	if err := tx.QueryRowContext(ctx, `SELECT COALESCE(MAX(seq), 0) + 1 FROM runs`).Scan(&seq); err != nil {
		return 0, fmt.Errorf("write run: next seq: %w", err)
	}

	failures := 0
	for _, r := range results {
		if r.Status == StatusSkipped {
			failures++
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, seq, dialect, extension, op_count, failure_count, generator_version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		run.ID,
		seq,
		run.Dialect,
		run.Extension,
		len(results),
		failures,
		run.GeneratorVersion,
	)
	if err != nil {
		return 0, fmt.Errorf("write run %s: %w", run.ID, err)
	}

	for _, r := range results {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO operation_results
			(run_id, seq, op_name, fingerprint, status, code, message)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			r.Seq,
			r.OpName,
			r.Fingerprint,
			r.Status,
			r.Code,
			r.Message,
		)
		if err != nil {
			return 0, fmt.Errorf("write result %s/%d: %w", run.ID, r.Seq, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("write run: commit: %w", err)
	}
	return seq, nil
}
