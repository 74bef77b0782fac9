// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the configured database and verifies the connection.
// SQLite is limited to a single connection: it allows one writer, and an
// in-memory database exists only on the connection that created it.
func Open(databaseType, databaseURL string) (*sql.DB, error) {
	var driver string
	switch databaseType {
	case "postgres":
		driver = "postgres"
	case "sqlite", "":
		driver = "sqlite"
	default:
		return nil, fmt.Errorf("unsupported database type %q", databaseType)
	}

	conn, err := sql.Open(driver, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
		conn.SetMaxIdleConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if driver == "sqlite" {
		if err := applyPragmas(conn); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to apply pragmas: %w", err)
		}
	}

	return conn, nil
}

func applyPragmas(conn *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}

	return nil
}

// Seed inserts n demo participants (K1..Kn) when the participant table is empty.
func Seed(ctx context.Context, db *sql.DB, n int) error {
	if n <= 0 {
		return nil
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM participant`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count participants: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin seed: %w", err)
	}
	defer tx.Rollback()

	for i := 1; i <= n; i++ {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO participant (id, code, name) VALUES ($1, $2, $3)
		`, i, fmt.Sprintf("K%d", i), fmt.Sprintf("Participant %d", i))
		if err != nil {
			return fmt.Errorf("failed to seed participant %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// Statements are kept portable between PostgreSQL and SQLite: $N
// placeholders, application-assigned INTEGER keys, DOUBLE PRECISION scores.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS participant (
    id INTEGER PRIMARY KEY,
    code TEXT NOT NULL,
    name TEXT NOT NULL
)`,

	`CREATE TABLE IF NOT EXISTS jury (
    id INTEGER PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    code TEXT UNIQUE
)`,

	`CREATE TABLE IF NOT EXISTS score (
    participant_id INTEGER NOT NULL REFERENCES participant(id) ON DELETE CASCADE,
    jury_id INTEGER NOT NULL REFERENCES jury(id) ON DELETE CASCADE,
    contest1 DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (contest1 >= 0 AND contest1 <= 5),
    contest2 DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (contest2 >= 0 AND contest2 <= 5),
    contest3 DOUBLE PRECISION NOT NULL DEFAULT 0 CHECK (contest3 >= 0 AND contest3 <= 5),
    finalized BOOLEAN NOT NULL DEFAULT FALSE,
    PRIMARY KEY (participant_id, jury_id)
)`,

	`CREATE INDEX IF NOT EXISTS idx_score_jury_id ON score(jury_id)`,
}
