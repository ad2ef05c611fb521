package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
)

// ErrNotFound is returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrSnapshotLimit is returned when a user already holds the maximum number
// of snapshots.
var ErrSnapshotLimit = errors.New("snapshot limit reached")

// Store is the PostgreSQL persistence layer: user credentials, the parsed
// application cache, applied/hidden lists, filter preferences and analytics
// snapshots.
type Store struct {
	db *sql.DB
}

// New opens the database and creates missing tables
func New(connStr string) (*Store, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}

	// Test connection
	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	s := &Store{db: db}
	if err := s.ensureTables(); err != nil {
		return nil, fmt.Errorf("ensure tables: %w", err)
	}

	return s, nil
}

func (s *Store) ensureTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username TEXT PRIMARY KEY,
			simplify_cookie TEXT NOT NULL DEFAULT '',
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS parsed_applications (
			username TEXT PRIMARY KEY,
			data JSONB NOT NULL DEFAULT '[]',
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS application_marks (
			username TEXT NOT NULL,
			job_id TEXT NOT NULL,
			list TEXT NOT NULL CHECK (list IN ('applied', 'hidden')),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
			PRIMARY KEY (username, job_id, list)
		)`,
		`CREATE TABLE IF NOT EXISTS filter_preferences (
			username TEXT PRIMARY KEY,
			date_range TEXT NOT NULL DEFAULT 'all',
			custom_start_date TEXT,
			custom_end_date TEXT,
			updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS analytics_snapshots (
			id UUID PRIMARY KEY,
			username TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT,
			data JSONB NOT NULL,
			filters JSONB,
			created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_snapshots_username ON analytics_snapshots (username)`,
	}

	for _, query := range queries {
		if _, err := s.db.Exec(query); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
