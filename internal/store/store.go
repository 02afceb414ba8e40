// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists users, meal plans and meal plan items in SQLite.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/macro-tracker/pkg/types"
)

// DefaultPath is the database file used when the config leaves it unset.
const DefaultPath = "data/macro-tracker.db"

// ErrNotFound is wrapped by every lookup that finds no row.
var ErrNotFound = errors.New("not found")

// ErrExists is returned when creating a row whose id is already taken.
var ErrExists = errors.New("already exists")

// Store is the SQLite-backed persistence layer. It is safe for concurrent
// use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at cfg.Path and creates the schema if it
// does not exist. The special path ":memory:" opens a private in-memory
// database.
func Open(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	dsn := path + "?_journal_mode=WAL&_foreign_keys=on"
	if path == ":memory:" {
		dsn = "file::memory:?_foreign_keys=on"
	} else if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if path == ":memory:" {
		// Each connection would get its own empty database.
		db.SetMaxOpenConns(1)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			age INTEGER NOT NULL DEFAULT 0,
			weight REAL NOT NULL DEFAULT 0,
			height REAL NOT NULL DEFAULT 0,
			gender TEXT NOT NULL DEFAULT '',
			target_macros TEXT NOT NULL DEFAULT '{}'
		)`,
		`CREATE TABLE IF NOT EXISTS meal_plans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_meal_plans_user_id ON meal_plans(user_id)`,
		`CREATE TABLE IF NOT EXISTS meal_plan_items (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			meal_plan_id INTEGER NOT NULL REFERENCES meal_plans(id) ON DELETE CASCADE,
			meal_type TEXT NOT NULL,
			food_id INTEGER NOT NULL,
			food_name TEXT NOT NULL,
			amount REAL NOT NULL,
			proteins REAL NOT NULL DEFAULT 0,
			carbs REAL NOT NULL DEFAULT 0,
			fats REAL NOT NULL DEFAULT 0,
			calories REAL NOT NULL DEFAULT 0,
			fiber REAL NOT NULL DEFAULT 0,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_meal_plan_items_plan_id ON meal_plan_items(meal_plan_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// notFound wraps ErrNotFound with the missing entity.
func notFound(kind string, id int64) error {
	return fmt.Errorf("%s %d: %w", kind, id, ErrNotFound)
}

// checkAffected turns a zero-row update or delete into ErrNotFound.
func checkAffected(res sql.Result, kind string, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking affected rows: %w", err)
	}
	if n == 0 {
		return notFound(kind, id)
	}
	return nil
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
