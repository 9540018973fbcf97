// Package store provides the SQLite-backed generation ledger.
//
// Every `odsgen gen --db` run appends:
//   - Runs: one row per generation, with the dialect and failure counts
//   - Operation results: one row per selected operation, with its content
//     fingerprint and whether it was generated or skipped
//
// # Ordering
//
// Rows carry logical sequence numbers, never timestamps. Runs are numbered
// 1, 2, ... in write order; operation results are numbered by their position
// in the run. All queries order by seq so output is identical across reads.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
