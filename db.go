// apps/go-solver/db.go
//
// Solve-history persistence for the Nerdle solver.
// Responsibilities:
//   - Opening the SQLite history database with safe defaults (WAL, busy
//     timeout).
//   - Ensuring the schema exists (idempotent, no external migration files).
//   - Recording finished interactive sessions and listing recent ones.
//
// History is strictly optional: it is only touched when HISTORY_DB is set,
// and failures to record are logged, never fatal to a session.

package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// openHistoryDB opens (and creates if missing) the SQLite history file.
//
// Ensures the parent directory exists for relative DSNs (e.g. ./data/solves.db),
// configures busy timeout and WAL journaling, and applies the schema.
func openHistoryDB(dsn string) (*sql.DB, error) {
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir %s: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set pragmas: %w", err)
	}
	if err := ensureHistorySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// ensureHistorySchema creates the history table if needed.
func ensureHistorySchema(db *sql.DB) error {
	_, err := db.Exec(`
        CREATE TABLE IF NOT EXISTS solve_history (
            id         INTEGER PRIMARY KEY AUTOINCREMENT,
            source     TEXT NOT NULL,
            solved     INTEGER NOT NULL,
            solution   TEXT NOT NULL,
            guesses    INTEGER NOT NULL,
            elapsed_ms INTEGER NOT NULL,
            created_at TEXT NOT NULL DEFAULT (datetime('now'))
        );`)
	if err != nil {
		return fmt.Errorf("create solve_history: %w", err)
	}
	return nil
}

// SolveRecord is one finished interactive session.
type SolveRecord struct {
	Source    string // candidate file the session ran against
	Solved    bool
	Solution  string // empty when the session ended in contradiction
	Guesses   int
	ElapsedMs int
	CreatedAt string // populated by the DB on insert
}

// insertSolveRecord appends one session to the history.
func insertSolveRecord(ctx context.Context, db *sql.DB, r SolveRecord) error {
	_, err := db.ExecContext(ctx, `
        INSERT INTO solve_history (source, solved, solution, guesses, elapsed_ms)
        VALUES (?, ?, ?, ?, ?)`,
		r.Source, r.Solved, r.Solution, r.Guesses, r.ElapsedMs,
	)
	return err
}

// recentSolveRecords fetches the newest entries, most recent first.
// Default limit is 20 if not specified.
func recentSolveRecords(ctx context.Context, db *sql.DB, limit int) ([]SolveRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.QueryContext(ctx, `
        SELECT source, solved, solution, guesses, elapsed_ms, created_at
        FROM solve_history
        ORDER BY id DESC
        LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]SolveRecord, 0, limit)
	for rows.Next() {
		var r SolveRecord
		if err := rows.Scan(&r.Source, &r.Solved, &r.Solution, &r.Guesses, &r.ElapsedMs, &r.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
