package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// GameResult is the outcome of a finished game.
type GameResult struct {
	ID          int64     `db:"id" json:"-"`
	GameID      string    `db:"game_id" json:"game_id"`
	BoardSize   int       `db:"board_size" json:"board_size"`
	Player1Name string    `db:"player1_name" json:"player1_name"`
	Player2Name string    `db:"player2_name" json:"player2_name"`
	WinnerMark  int       `db:"winner_mark" json:"winner_mark"`
	WinnerName  string    `db:"winner_name" json:"winner_name"`
	TotalMoves  int       `db:"total_moves" json:"total_moves"`
	DurationMS  int64     `db:"duration_ms" json:"duration_ms"`
	FinishedAt  time.Time `db:"finished_at" json:"finished_at"`
}

// LeaderboardEntry counts the wins of one player name.
type LeaderboardEntry struct {
	Name string `db:"name" json:"name"`
	Wins int    `db:"wins" json:"wins"`
}

// ResultRepository stores finished games.
type ResultRepository interface {
	Record(ctx context.Context, result *GameResult) error
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Count(ctx context.Context) (int, error)
}

type sqliteResultRepository struct {
	db *sqlx.DB
}

// NewResultRepository creates a SQLite-based ResultRepository.
func NewResultRepository(db *sqlx.DB) ResultRepository {
	return &sqliteResultRepository{db: db}
}

// Record inserts a result. Recording the same game twice keeps the first row.
func (r *sqliteResultRepository) Record(ctx context.Context, result *GameResult) error {
	ctx, span := tracer.Start(ctx, "ResultRepository.Record")
	defer span.End()

	query := `INSERT INTO game_results
		(game_id, board_size, player1_name, player2_name, winner_mark, winner_name, total_moves, duration_ms, finished_at)
		VALUES (:game_id, :board_size, :player1_name, :player2_name, :winner_mark, :winner_name, :total_moves, :duration_ms, :finished_at)
		ON CONFLICT(game_id) DO NOTHING`
	if _, err := r.db.NamedExecContext(ctx, query, result); err != nil {
		return fmt.Errorf("failed to record result of game %s: %w", result.GameID, err)
	}
	return nil
}

// Leaderboard returns the names with the most wins, best first.
func (r *sqliteResultRepository) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	ctx, span := tracer.Start(ctx, "ResultRepository.Leaderboard")
	defer span.End()

	entries := []LeaderboardEntry{}
	query := `SELECT winner_name AS name, COUNT(*) AS wins FROM game_results
		WHERE winner_mark != 0
		GROUP BY winner_name
		ORDER BY wins DESC, name ASC
		LIMIT ?`
	if err := r.db.SelectContext(ctx, &entries, query, limit); err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	return entries, nil
}

// Count returns the number of recorded games.
func (r *sqliteResultRepository) Count(ctx context.Context) (int, error) {
	ctx, span := tracer.Start(ctx, "ResultRepository.Count")
	defer span.End()

	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM game_results`); err != nil {
		return 0, fmt.Errorf("failed to count results: %w", err)
	}
	return n, nil
}
