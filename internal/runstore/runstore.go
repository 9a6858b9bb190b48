// Package runstore provides a SQLite-backed ledger of generation runs. Each
// attempted solve is recorded with its seed and outcome so that flaky
// samples and seed statistics can be inspected after a batch.
package runstore

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite connection.
type Store struct {
	db *sql.DB
}

// Run is one recorded solve attempt.
type Run struct {
	ID         int64
	Sample     string
	Kind       string // "overlapping" or "simpletiled"
	Seed       uint64
	Attempt    int
	Success    bool
	Duration   time.Duration
	OutputPath string
	CreatedAt  time.Time
}

// Open opens or creates the ledger database at the given path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("runstore: failed to create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("runstore: failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("runstore: failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("runstore: failed to set busy timeout: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("runstore: failed to run migrations: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the schema if it doesn't exist.
func (s *Store) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sample TEXT NOT NULL,
		kind TEXT NOT NULL,
		seed INTEGER NOT NULL,
		attempt INTEGER NOT NULL,
		success INTEGER NOT NULL,
		duration_ms INTEGER NOT NULL,
		output_path TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	return err
}

// Record inserts one run and returns its id.
func (s *Store) Record(run Run) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO runs (sample, kind, seed, attempt, success, duration_ms, output_path)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		run.Sample, run.Kind, int64(run.Seed), run.Attempt,
		boolToInt(run.Success), run.Duration.Milliseconds(), run.OutputPath,
	)
	if err != nil {
		return 0, fmt.Errorf("runstore: failed to record run: %w", err)
	}
	return result.LastInsertId()
}

// BySample returns the recorded runs for a sample, newest first.
func (s *Store) BySample(sample string) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, sample, kind, seed, attempt, success, duration_ms, output_path, created_at
		 FROM runs WHERE sample = ? ORDER BY id DESC`, sample)
	if err != nil {
		return nil, fmt.Errorf("runstore: failed to query runs: %w", err)
	}
	defer rows.Close()
	return scanRuns(rows)
}

// SuccessRate returns successes and total attempts for a sample.
func (s *Store) SuccessRate(sample string) (successes, total int, err error) {
	row := s.db.QueryRow(
		`SELECT COALESCE(SUM(success), 0), COUNT(*) FROM runs WHERE sample = ?`, sample)
	if err := row.Scan(&successes, &total); err != nil {
		return 0, 0, fmt.Errorf("runstore: failed to query success rate: %w", err)
	}
	return successes, total, nil
}

func scanRuns(rows *sql.Rows) ([]Run, error) {
	var runs []Run
	for rows.Next() {
		var run Run
		var seed int64
		var success int
		var durationMS int64
		if err := rows.Scan(&run.ID, &run.Sample, &run.Kind, &seed, &run.Attempt,
			&success, &durationMS, &run.OutputPath, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("runstore: failed to scan run: %w", err)
		}
		run.Seed = uint64(seed)
		run.Success = success != 0
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
