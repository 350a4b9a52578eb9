// Package store persists hotstring expansion statistics in SQLite.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the statistics store.
const schema = `
CREATE TABLE IF NOT EXISTS expansions (
    pattern     TEXT PRIMARY KEY,
    fired       INTEGER NOT NULL DEFAULT 0,
    last_fired  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_expansions_fired ON expansions(fired DESC);
`

// Store records how often each hotstring fires.
type Store struct {
	db *sql.DB
}

// Entry is one hotstring's usage record.
type Entry struct {
	Pattern   string
	Fired     int64
	LastFired time.Time
}

// Open opens or creates the statistics database at the given path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Record bumps the fire count for a pattern.
func (s *Store) Record(pattern string) error {
	_, err := s.db.Exec(`
		INSERT INTO expansions (pattern, fired, last_fired) VALUES (?, 1, ?)
		ON CONFLICT(pattern) DO UPDATE SET fired = fired + 1, last_fired = excluded.last_fired`,
		pattern, time.Now().UnixNano())
	if err != nil {
		return fmt.Errorf("record expansion: %w", err)
	}
	return nil
}

// Top returns the n most-fired hotstrings, most frequent first.
func (s *Store) Top(n int) ([]Entry, error) {
	rows, err := s.db.Query(`
		SELECT pattern, fired, last_fired FROM expansions
		ORDER BY fired DESC, pattern ASC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query expansions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var lastFired int64
		if err := rows.Scan(&e.Pattern, &e.Fired, &lastFired); err != nil {
			return nil, fmt.Errorf("scan expansion: %w", err)
		}
		e.LastFired = time.Unix(0, lastFired)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
