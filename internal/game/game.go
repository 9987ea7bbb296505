package game

import (
	"errors"
	"fmt"
)

// GameState is the lifecycle state of a game.
type GameState string

const (
	InProgress GameState = "in_progress"
	PlayerAWon GameState = "player1_won"
	PlayerBWon GameState = "player2_won"
	Draw       GameState = "draw"
)

// Valid reports whether s is a known state.
func (s GameState) Valid() bool {
	switch s {
	case InProgress, PlayerAWon, PlayerBWon, Draw:
		return true
	}
	return false
}

var (
	ErrInvalidBoardSize = errors.New("invalid board size")
	ErrIllegalMove      = errors.New("illegal move")
	ErrOutOfRange       = fmt.Errorf("%w: coordinates out of range", ErrIllegalMove)
	ErrCellOccupied     = fmt.Errorf("%w: cell already occupied", ErrIllegalMove)
	ErrGameOver         = fmt.Errorf("%w: game already finished", ErrIllegalMove)
	ErrMalformedState   = errors.New("malformed game state")
)

// Move is one placement in the move log.
type Move struct {
	Row  int
	Col  int
	Mark PlayerMark
}

// View is the read-only surface of an engine that move selectors work with.
// WouldWin is the single hypothetical check; it leaves the board unchanged.
type View interface {
	Size() int
	At(row, col int) PlayerMark
	CurrentPlayer() PlayerMark
	EmptyCells() []Position
	WouldWin(row, col int, mark PlayerMark) bool
	FriendlyNeighbors(row, col int, mark PlayerMark) int
}

// Engine owns the board, turn order, move log and result of one game.
// It is not safe for concurrent use; callers serialize access per game.
type Engine struct {
	board       *Board
	currentTurn PlayerMark
	moves       []Move
	state       GameState
	winner      PlayerMark
}

// New creates an empty game of the given size with PlayerA to move.
func New(size int) (*Engine, error) {
	if size < MinBoardSize || size > MaxBoardSize {
		return nil, fmt.Errorf("%w: %d (allowed %d-%d)", ErrInvalidBoardSize, size, MinBoardSize, MaxBoardSize)
	}
	return &Engine{
		board:       newBoard(size),
		currentTurn: PlayerA,
		moves:       make([]Move, 0, size*size),
		state:       InProgress,
		winner:      Empty,
	}, nil
}

func (e *Engine) Size() int                  { return e.board.size }
func (e *Engine) At(row, col int) PlayerMark { return e.board.At(row, col) }
func (e *Engine) CurrentPlayer() PlayerMark  { return e.currentTurn }
func (e *Engine) State() GameState           { return e.state }
func (e *Engine) MoveCount() int             { return len(e.moves) }

// Winner returns the winning mark, or Empty while there is none.
func (e *Engine) Winner() PlayerMark { return e.winner }

// IsFinished reports whether the game reached a terminal state.
func (e *Engine) IsFinished() bool { return e.state != InProgress }

// Board returns a copy of the board grid.
func (e *Engine) Board() [][]PlayerMark { return e.board.Rows() }

// Moves returns a copy of the move log.
func (e *Engine) Moves() []Move {
	out := make([]Move, len(e.moves))
	copy(out, e.moves)
	return out
}

// IsLegal reports whether the current player may play at (row, col).
func (e *Engine) IsLegal(row, col int) bool {
	return e.check(row, col) == nil
}

func (e *Engine) check(row, col int) error {
	if e.state != InProgress {
		return ErrGameOver
	}
	if !e.board.InBounds(row, col) {
		return ErrOutOfRange
	}
	if e.board.At(row, col) != Empty {
		return ErrCellOccupied
	}
	return nil
}

// ApplyMove places the current player's mark at (row, col). An illegal move
// is rejected without touching the engine and reported as false.
func (e *Engine) ApplyMove(row, col int) bool {
	return e.Play(row, col) == nil
}

// Play is ApplyMove with the rejection reason: ErrGameOver, ErrOutOfRange or
// ErrCellOccupied, all of which match ErrIllegalMove.
func (e *Engine) Play(row, col int) error {
	if err := e.check(row, col); err != nil {
		return err
	}

	mover := e.currentTurn
	e.board.set(row, col, mover)
	e.moves = append(e.moves, Move{Row: row, Col: col, Mark: mover})

	switch {
	case HasConnection(e.board, mover):
		e.winner = mover
		if mover == PlayerA {
			e.state = PlayerAWon
		} else {
			e.state = PlayerBWon
		}
	case e.board.Full():
		e.state = Draw
	default:
		e.currentTurn = mover.Opponent()
	}
	return nil
}

// EmptyCells lists the empty cells in row-major order.
func (e *Engine) EmptyCells() []Position {
	n := e.board.size
	cells := make([]Position, 0, n*n-len(e.moves))
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			if e.board.At(r, c) == Empty {
				cells = append(cells, Position{Row: r, Col: c})
			}
		}
	}
	return cells
}

// WouldWin reports whether placing mark at the empty cell (row, col) would
// complete mark's chain. The board is restored before returning.
func (e *Engine) WouldWin(row, col int, mark PlayerMark) bool {
	return e.board.Probe(row, col, mark, func() bool {
		return HasConnection(e.board, mark)
	})
}

// FriendlyNeighbors counts the hex neighbours of (row, col) holding mark.
func (e *Engine) FriendlyNeighbors(row, col int, mark PlayerMark) int {
	return e.board.CountNeighbors(row, col, mark)
}
