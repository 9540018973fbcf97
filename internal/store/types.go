package store

import "errors"

// ErrNotFound is returned when a requested run does not exist.
var ErrNotFound = errors.New("not found")

// Operation result statuses, matching the CHECK constraint in schema.sql.
const (
	StatusGenerated = "generated"
	StatusSkipped   = "skipped"
)

// Run is one recorded generation.
type Run struct {
	ID               string `json:"id"`
	Seq              int64  `json:"seq"` // assigned by WriteRun
	Dialect          string `json:"dialect"`
	Extension        string `json:"extension,omitempty"`
	OpCount          int    `json:"op_count"`
	FailureCount     int    `json:"failure_count"`
	GeneratorVersion string `json:"generator_version"`
}

// OperationResult is one operation's outcome within a run.
type OperationResult struct {
	RunID       string `json:"run_id"`
	Seq         int64  `json:"seq"`
	OpName      string `json:"op_name"`
	Fingerprint string `json:"fingerprint,omitempty"`
	Status      string `json:"status"`
	Code        string `json:"code,omitempty"`
	Message     string `json:"message,omitempty"`
}
