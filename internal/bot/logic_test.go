package bot

import (
	"ctchen222/Hex/internal/game"
	"errors"
	"math/rand/v2"
	"reflect"
	"testing"
)

// newEngine plays the given moves alternately starting with PlayerA.
func newEngine(t *testing.T, size int, moves ...game.Position) *game.Engine {
	t.Helper()
	e, err := game.New(size)
	if err != nil {
		t.Fatalf("game.New(%d): %v", size, err)
	}
	for i, m := range moves {
		if !e.ApplyMove(m.Row, m.Col) {
			t.Fatalf("setup move %d at (%d,%d) rejected", i, m.Row, m.Col)
		}
	}
	return e
}

func pos(row, col int) game.Position { return game.Position{Row: row, Col: col} }

// noMovesView reports no empty cells.
type noMovesView struct{ *game.Engine }

func (noMovesView) EmptyCells() []game.Position { return nil }

func TestCalculateNextMoveErrors(t *testing.T) {
	e := newEngine(t, 3)

	if _, err := CalculateNextMove(noMovesView{e}, Medium); !errors.Is(err, ErrNoLegalMove) {
		t.Errorf("CalculateNextMove with no empty cells got %v, want ErrNoLegalMove", err)
	}
	if _, err := CalculateNextMove(e, Difficulty("impossible")); !errors.Is(err, ErrUnknownDifficulty) {
		t.Errorf("CalculateNextMove with unknown difficulty got %v, want ErrUnknownDifficulty", err)
	}
}

func TestParseDifficulty(t *testing.T) {
	for _, s := range []string{"easy", "medium", "hard"} {
		if d, err := ParseDifficulty(s); err != nil || string(d) != s {
			t.Errorf("ParseDifficulty(%q) = %q, %v", s, d, err)
		}
	}
	if _, err := ParseDifficulty("Expert"); !errors.Is(err, ErrUnknownDifficulty) {
		t.Errorf("ParseDifficulty(Expert) got %v, want ErrUnknownDifficulty", err)
	}
}

func TestEasyMove(t *testing.T) {
	t.Run("Only one spot left", func(t *testing.T) {
		cells := []game.Position{pos(2, 1)}
		if got := easyMove(cells); got != pos(2, 1) {
			t.Errorf("easyMove should pick the only available spot (2,1), but got %v", got)
		}
	})

	t.Run("Always legal", func(t *testing.T) {
		e := newEngine(t, 5, pos(2, 2), pos(0, 0))
		for i := 0; i < 50; i++ {
			move, err := CalculateNextMove(e, Easy)
			if err != nil {
				t.Fatalf("CalculateNextMove(Easy) error: %v", err)
			}
			if !e.IsLegal(move.Row, move.Col) {
				t.Fatalf("easy move %v is not legal", move)
			}
		}
	})
}

func TestMediumMove(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		moves []game.Position
		want  game.Position
	}{
		{
			name: "Empty board takes the centre",
			size: 5,
			want: pos(2, 2),
		},
		{
			name:  "Centre taken, first closest cell in row-major order",
			size:  5,
			moves: []game.Position{pos(2, 2)},
			want:  pos(1, 2),
		},
		{
			name:  "Bot can win",
			size:  3,
			moves: []game.Position{pos(0, 1), pos(0, 0), pos(1, 1), pos(1, 0)},
			want:  pos(2, 0),
		},
		{
			name: "Bot must block opponent instead of taking the centre",
			size: 5,
			moves: []game.Position{
				pos(0, 0), pos(4, 0),
				pos(0, 1), pos(4, 1),
				pos(0, 2), pos(4, 2),
				pos(0, 3), pos(4, 3),
			},
			want: pos(3, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.size, tt.moves...)
			got, err := CalculateNextMove(e, Medium)
			if err != nil {
				t.Fatalf("CalculateNextMove(Medium) error: %v", err)
			}
			if got != tt.want {
				t.Errorf("mediumMove() got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestHardMove(t *testing.T) {
	tests := []struct {
		name  string
		size  int
		moves []game.Position
		want  game.Position
	}{
		{
			name: "PlayerA prefers its goal edge in the centre column",
			size: 5,
			want: pos(0, 2),
		},
		{
			name:  "PlayerB prefers its goal edge in the centre row",
			size:  5,
			moves: []game.Position{pos(0, 0)},
			want:  pos(2, 0),
		},
		{
			name:  "Friendly neighbour bonus",
			size:  5,
			moves: []game.Position{pos(1, 3), pos(4, 4)},
			want:  pos(0, 3),
		},
		{
			name:  "Bot can win",
			size:  3,
			moves: []game.Position{pos(0, 1), pos(0, 0), pos(1, 1), pos(1, 0)},
			want:  pos(2, 0),
		},
		{
			name: "Bot must block",
			size: 5,
			moves: []game.Position{
				pos(0, 0), pos(4, 0),
				pos(0, 1), pos(4, 1),
				pos(0, 2), pos(4, 2),
				pos(0, 3), pos(4, 3),
			},
			want: pos(3, 4),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEngine(t, tt.size, tt.moves...)
			got, err := CalculateNextMove(e, Hard)
			if err != nil {
				t.Fatalf("CalculateNextMove(Hard) error: %v", err)
			}
			if got != tt.want {
				t.Errorf("hardMove() got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestScoreMove(t *testing.T) {
	e := newEngine(t, 5, pos(1, 3), pos(4, 4))

	tests := []struct {
		name string
		p    game.Position
		mark game.PlayerMark
		want int
	}{
		{name: "A edge centre", p: pos(0, 2), mark: game.PlayerA, want: 25},
		{name: "A edge next to friend", p: pos(0, 3), mark: game.PlayerA, want: 29},
		{name: "A interior", p: pos(2, 0), mark: game.PlayerA, want: 8},
		{name: "B edge centre", p: pos(2, 4), mark: game.PlayerB, want: 25},
		{name: "B next to friend on edge", p: pos(3, 4), mark: game.PlayerB, want: 29},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scoreMove(e, tt.p, tt.mark); got != tt.want {
				t.Errorf("scoreMove(%v, %v) = %d, want %d", tt.p, tt.mark, got, tt.want)
			}
		})
	}
}

func TestCalculateNextMoveLeavesBoardUntouched(t *testing.T) {
	rng := rand.New(rand.NewPCG(42, 7))
	for _, difficulty := range []Difficulty{Easy, Medium, Hard} {
		for round := 0; round < 10; round++ {
			e := newEngine(t, 7)
			for i := 0; i < rng.IntN(30) && !e.IsFinished(); i++ {
				cells := e.EmptyCells()
				p := cells[rng.IntN(len(cells))]
				e.ApplyMove(p.Row, p.Col)
			}
			if e.IsFinished() {
				continue
			}

			before := e.Board()
			beforeMoves := e.MoveCount()
			move, err := CalculateNextMove(e, difficulty)
			if err != nil {
				t.Fatalf("%s: unexpected error: %v", difficulty, err)
			}
			if !reflect.DeepEqual(before, e.Board()) || beforeMoves != e.MoveCount() {
				t.Fatalf("%s: move selection changed the board", difficulty)
			}
			if !e.IsLegal(move.Row, move.Col) {
				t.Fatalf("%s: returned illegal move %v", difficulty, move)
			}
		}
	}
}
