// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records completed generation runs in a local SQLite
// database. The history subcommand reads it back.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Run statuses stored in the ledger.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

const defaultHistoryLimit = 10

// Run is one recorded generation run. Artifact counts are aggregates;
// per-format records are never persisted.
type Run struct {
	ID               int64
	CreatedAt        time.Time
	Topic            string
	Category         string
	Expertise        string
	Engine           string
	Model            string
	Quantity         int
	PromptTokens     int
	CompletionTokens int
	Elapsed          time.Duration
	Status           string
	Produced         int
	Skipped          int
	Failed           int
}

// TotalTokens returns prompt plus completion tokens.
func (r Run) TotalTokens() int {
	return r.PromptTokens + r.CompletionTokens
}

// Store manages the run ledger SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the ledger database at path, creating the
// schema and any missing parent directories.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating ledger directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening ledger database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating ledger schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TEXT NOT NULL,
			topic TEXT NOT NULL,
			category TEXT NOT NULL,
			expertise TEXT NOT NULL,
			engine TEXT NOT NULL,
			model TEXT NOT NULL,
			quantity INTEGER NOT NULL,
			prompt_tokens INTEGER NOT NULL,
			completion_tokens INTEGER NOT NULL,
			elapsed_ms INTEGER NOT NULL,
			status TEXT NOT NULL,
			produced INTEGER NOT NULL,
			skipped INTEGER NOT NULL,
			failed INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts a run and returns its row id. A zero CreatedAt is
// stamped with the current time.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	created := run.CreatedAt
	if created.IsZero() {
		created = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (created_at, topic, category, expertise, engine, model,
			quantity, prompt_tokens, completion_tokens, elapsed_ms, status,
			produced, skipped, failed)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		created.UTC().Format(time.RFC3339), run.Topic, run.Category, run.Expertise,
		run.Engine, run.Model, run.Quantity, run.PromptTokens, run.CompletionTokens,
		run.Elapsed.Milliseconds(), run.Status, run.Produced, run.Skipped, run.Failed,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading run id: %w", err)
	}
	return id, nil
}

// Recent returns up to limit runs, newest first. A non-positive limit
// falls back to the default of 10.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, topic, category, expertise, engine, model,
			quantity, prompt_tokens, completion_tokens, elapsed_ms, status,
			produced, skipped, failed
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r         Run
			createdAt string
			elapsedMS int64
		)
		if err := rows.Scan(&r.ID, &createdAt, &r.Topic, &r.Category, &r.Expertise,
			&r.Engine, &r.Model, &r.Quantity, &r.PromptTokens, &r.CompletionTokens,
			&elapsedMS, &r.Status, &r.Produced, &r.Skipped, &r.Failed); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing run timestamp %q: %w", createdAt, err)
		}
		r.Elapsed = time.Duration(elapsedMS) * time.Millisecond
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}
