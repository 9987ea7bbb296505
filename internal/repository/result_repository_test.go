package repository

import (
	"context"
	"ctchen222/Hex/internal/db"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultRepository(t *testing.T) {
	ctx := context.Background()
	pool, err := db.Connect(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	repo := NewResultRepository(pool)

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	results := []*GameResult{
		{GameID: "a", BoardSize: 5, Player1Name: "Ann", Player2Name: "Bob", WinnerMark: 1, WinnerName: "Ann", TotalMoves: 9},
		{GameID: "b", BoardSize: 5, Player1Name: "Ann", Player2Name: "Bob", WinnerMark: 2, WinnerName: "Bob", TotalMoves: 12},
		{GameID: "c", BoardSize: 7, Player1Name: "Cid", Player2Name: "Ann", WinnerMark: 2, WinnerName: "Ann", TotalMoves: 20},
		{GameID: "d", BoardSize: 3, Player1Name: "Cid", Player2Name: "Dee", WinnerMark: 0, TotalMoves: 9},
	}
	for _, r := range results {
		r.FinishedAt = time.Now().UTC()
		require.NoError(t, repo.Record(ctx, r))
	}
	// duplicate is ignored
	require.NoError(t, repo.Record(ctx, results[0]))

	n, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	board, err := repo.Leaderboard(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []LeaderboardEntry{{Name: "Ann", Wins: 2}, {Name: "Bob", Wins: 1}}, board)

	board, err = repo.Leaderboard(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, board, 1)
}
