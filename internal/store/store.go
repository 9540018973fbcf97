package store

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store is the generation ledger: one row per `odsgen gen --db` run and one
// row per operation that run considered.
type Store struct {
	db *sql.DB
}

// ledgerPragmas are applied to every ledger connection. WAL lets `odsgen
// history` read a ledger while a gen run is recording into it.
var ledgerPragmas = []struct{ name, value string }{
	{"journal_mode", "WAL"},
	{"synchronous", "NORMAL"},
	{"busy_timeout", "5000"},
	{"foreign_keys", "ON"},
}

// ledgerMigration upgrades a ledger to version.
type ledgerMigration struct {
	version int
	stmt    string
}

// ledgerMigrations run in order against ledgers whose user_version is older.
// schema.sql itself describes version 0.
var ledgerMigrations = []ledgerMigration{
	// Per-operation history (`odsgen history --op`) scans by op_name.
	{1, `CREATE INDEX IF NOT EXISTS idx_operation_results_op_name
		ON operation_results(op_name, run_id)`},
}

// currentSchemaVersion is the user_version of a fully migrated ledger.
var currentSchemaVersion = ledgerMigrations[len(ledgerMigrations)-1].version

// Open opens the ledger at path, creating it if needed, and brings its schema
// up to date. Reopening an existing ledger leaves its runs untouched.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}

	// One connection: WriteRun's seq assignment relies on a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := prepareLedger(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("prepare ledger %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close closes the ledger.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func prepareLedger(db *sql.DB) error {
	for _, p := range ledgerPragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return migrateLedger(db)
}

// migrateLedger applies the migrations newer than the ledger's user_version.
func migrateLedger(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	for _, m := range ledgerMigrations {
		if m.version <= version {
			continue
		}
		if _, err := db.Exec(m.stmt); err != nil {
			return fmt.Errorf("migrate to v%d: %w", m.version, err)
		}
		if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", m.version)); err != nil {
			return fmt.Errorf("set user_version %d: %w", m.version, err)
		}
	}
	return nil
}

// pragma reads a pragma's current value.
func (s *Store) pragma(name string) (string, error) {
	var value string
	if err := s.db.QueryRow("PRAGMA " + name).Scan(&value); err != nil {
		return "", fmt.Errorf("read pragma %s: %w", name, err)
	}
	return value, nil
}
