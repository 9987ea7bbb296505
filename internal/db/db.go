package db

import (
	"context"
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	password_hash TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS game_results (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	game_id TEXT NOT NULL UNIQUE,
	board_size INTEGER NOT NULL,
	player1_name TEXT NOT NULL,
	player2_name TEXT NOT NULL,
	winner_mark INTEGER NOT NULL,
	winner_name TEXT NOT NULL,
	total_moves INTEGER NOT NULL,
	duration_ms INTEGER NOT NULL,
	finished_at DATETIME NOT NULL
);`

// Connect opens the SQLite database at dsn, enables foreign keys and makes
// sure the schema exists.
func Connect(ctx context.Context, dsn string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if dsn == ":memory:" {
		// every connection to :memory: is a separate database
		pool.SetMaxOpenConns(1)
	}

	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database %s: %w", dsn, err)
	}

	if err := InitializeSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	slog.InfoContext(ctx, "Connected to database", "db.dsn", dsn)
	return pool, nil
}

// InitializeSchema creates the tables used by the service if they do not exist.
func InitializeSchema(ctx context.Context, pool *sqlx.DB) error {
	if _, err := pool.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := pool.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
