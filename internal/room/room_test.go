package room

import (
	"context"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/player"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRoom(t *testing.T, size int, p1, p2 player.Profile) *Room {
	t.Helper()
	e, err := game.New(size)
	require.NoError(t, err)
	r, err := NewRoom("g1", e, p1, p2)
	require.NoError(t, err)
	return r
}

func computer(difficulty string) player.Profile {
	return player.Profile{Type: player.Computer, Difficulty: difficulty}
}

func TestNewRoomNormalizesProfiles(t *testing.T) {
	r := newRoom(t, 5, player.Profile{}, computer(""))

	assert.Equal(t, "Player 1", r.Player1.Name)
	assert.Equal(t, "Computer 2", r.Player2.Name)
	assert.Equal(t, "medium", r.Player2.Difficulty)

	e, _ := game.New(5)
	_, err := NewRoom("g2", e, player.Profile{Type: "alien"}, player.Profile{})
	assert.ErrorIs(t, err, player.ErrInvalidProfile)
}

func TestRoomMove(t *testing.T) {
	ctx := context.Background()
	r := newRoom(t, 3, player.Profile{}, player.Profile{})

	res, err := r.Move(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, game.Move{Row: 0, Col: 1, Mark: game.PlayerA}, res.Move)
	assert.Equal(t, game.PlayerB, res.State.CurrentPlayer)
	assert.False(t, res.Finished())

	_, err = r.Move(ctx, 0, 1)
	assert.ErrorIs(t, err, game.ErrCellOccupied)
	_, err = r.Move(ctx, 3, 0)
	assert.ErrorIs(t, err, game.ErrOutOfRange)

	for _, m := range [][2]int{{0, 0}, {1, 1}, {1, 0}} {
		_, err := r.Move(ctx, m[0], m[1])
		require.NoError(t, err)
	}
	res, err = r.Move(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, res.Finished())
	assert.Equal(t, game.PlayerAWon, res.State.GameState)
	require.NotNil(t, res.State.Winner)
	assert.Equal(t, 1, *res.State.Winner)

	_, err = r.Move(ctx, 2, 2)
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestRoomComputerMove(t *testing.T) {
	ctx := context.Background()
	r := newRoom(t, 5, player.Profile{}, computer("medium"))

	_, err := r.ComputerMove(ctx)
	assert.ErrorIs(t, err, ErrNotComputerTurn)

	_, err = r.Move(ctx, 2, 2)
	require.NoError(t, err)

	res, err := r.ComputerMove(ctx)
	require.NoError(t, err)
	assert.Equal(t, game.PlayerB, res.Move.Mark)
	assert.Equal(t, game.Move{Row: 1, Col: 2, Mark: game.PlayerB}, res.Move)
	assert.Equal(t, 2, res.State.MovesCount)
}

func TestRoomComputerSelfPlay(t *testing.T) {
	ctx := context.Background()
	r := newRoom(t, 5, computer("hard"), computer("easy"))

	for i := 0; i < 25; i++ {
		res, err := r.ComputerMove(ctx)
		require.NoError(t, err)
		if res.Finished() {
			break
		}
	}
	st := r.State()
	assert.True(t, st.IsFinished)
	assert.NotNil(t, st.Winner)

	_, err := r.ComputerMove(ctx)
	assert.ErrorIs(t, err, ErrGameFinished)
}

func TestRoomStoredRoundTrip(t *testing.T) {
	ctx := context.Background()
	r := newRoom(t, 5, player.Profile{Name: "Ann"}, computer("hard"))
	_, err := r.Move(ctx, 0, 0)
	require.NoError(t, err)
	_, err = r.ComputerMove(ctx)
	require.NoError(t, err)

	restored, err := FromStored(r.Stored())
	require.NoError(t, err)

	assert.Equal(t, r.State(), restored.State())
	assert.Equal(t, r.MoveDurations(), restored.MoveDurations())
	assert.Equal(t, "Ann", restored.Profile(game.PlayerA).Name)
	assert.True(t, restored.Profile(game.PlayerB).IsComputer())

	_, err = restored.Move(ctx, 4, 4)
	assert.NoError(t, err)
}

func TestFromStoredRejectsBadSnapshot(t *testing.T) {
	r := newRoom(t, 3, player.Profile{}, player.Profile{})
	stored := r.Stored()
	stored.Snapshot.Moves = [][3]int{{0, 0, 2}}

	_, err := FromStored(stored)
	assert.True(t, errors.Is(err, game.ErrMalformedState))
}

func TestRoomBoardAndStats(t *testing.T) {
	ctx := context.Background()
	r := newRoom(t, 3, player.Profile{}, player.Profile{})

	stats := r.Stats()
	assert.Zero(t, stats.TotalMoves)
	assert.Zero(t, stats.AverageMoveTime)

	_, err := r.Move(ctx, 1, 1)
	require.NoError(t, err)
	_, err = r.Move(ctx, 0, 0)
	require.NoError(t, err)

	view := r.Board()
	assert.Equal(t, "●", view.BoardDisplay[1][1])
	assert.Equal(t, "○", view.BoardDisplay[0][0])
	assert.Len(t, view.EmptyCells, 7)
	assert.Contains(t, view.BoardText, "╲ ·  ●  · ╲")

	stats = r.Stats()
	assert.Equal(t, 2, stats.TotalMoves)
	assert.LessOrEqual(t, stats.FastestMove, stats.AverageMoveTime)
	assert.LessOrEqual(t, stats.AverageMoveTime, stats.SlowestMove)
	assert.GreaterOrEqual(t, stats.TotalGameTime, 0.0)

	sum := r.Summary()
	assert.Equal(t, 2, sum.MovesCount)
	assert.Equal(t, game.InProgress, sum.GameState)
}

func TestRoomConcurrentMoves(t *testing.T) {
	r := newRoom(t, 7, player.Profile{}, player.Profile{})

	var wg sync.WaitGroup
	errs := make(chan error, 49)
	for row := 0; row < 7; row++ {
		for col := 0; col < 7; col++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := r.Move(context.Background(), row, col)
				errs <- err
			}()
		}
	}
	wg.Wait()
	close(errs)

	st := r.State()
	assert.Equal(t, 49, st.MovesCount+st.EmptyCellsCount)
	applied := 0
	for err := range errs {
		if err == nil {
			applied++
		}
	}
	assert.Equal(t, st.MovesCount, applied)
}
