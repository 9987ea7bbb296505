package bot

import (
	"ctchen222/Hex/internal/game"
	"errors"
	"fmt"
	"math/rand/v2"
)

// Difficulty selects the move policy of a computer player.
type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
)

var (
	ErrNoLegalMove       = errors.New("no legal move available")
	ErrUnknownDifficulty = errors.New("unknown difficulty")
)

// ParseDifficulty validates a difficulty name.
func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(s); d {
	case Easy, Medium, Hard:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q (available: easy, medium, hard)", ErrUnknownDifficulty, s)
}

// BotMoveCalculator implements room.MoveCalculator.
type BotMoveCalculator struct{}

// CalculateNextMove calls the package-level function to satisfy the interface.
func (c *BotMoveCalculator) CalculateNextMove(view game.View, difficulty Difficulty) (game.Position, error) {
	return CalculateNextMove(view, difficulty)
}

// CalculateNextMove picks a move for the player to move in view. The view's
// board is never left modified.
func CalculateNextMove(view game.View, difficulty Difficulty) (game.Position, error) {
	emptyCells := view.EmptyCells()
	if len(emptyCells) == 0 {
		return game.Position{}, ErrNoLegalMove
	}

	switch difficulty {
	case Easy:
		return easyMove(emptyCells), nil
	case Medium:
		return mediumMove(view, emptyCells), nil
	case Hard:
		return hardMove(view, emptyCells), nil
	default:
		return game.Position{}, fmt.Errorf("%w: %q", ErrUnknownDifficulty, difficulty)
	}
}

// easyMove makes a completely random move.
func easyMove(emptyCells []game.Position) game.Position {
	return emptyCells[rand.IntN(len(emptyCells))]
}

// mediumMove will win if it can, block if it must, otherwise play closest to
// the centre.
func mediumMove(view game.View, emptyCells []game.Position) game.Position {
	if move, ok := findTacticalMove(view, emptyCells); ok {
		return move
	}

	center := view.Size() / 2
	best := emptyCells[0]
	bestDist := manhattan(best, center)
	for _, p := range emptyCells[1:] {
		if d := manhattan(p, center); d < bestDist {
			best, bestDist = p, d
		}
	}
	return best
}

// hardMove wins or blocks like mediumMove, then plays the best scored cell.
func hardMove(view game.View, emptyCells []game.Position) game.Position {
	if move, ok := findTacticalMove(view, emptyCells); ok {
		return move
	}

	mark := view.CurrentPlayer()
	best := emptyCells[0]
	bestScore := scoreMove(view, best, mark)
	for _, p := range emptyCells[1:] {
		if s := scoreMove(view, p, mark); s > bestScore {
			best, bestScore = p, s
		}
	}
	return best
}

// findTacticalMove returns an immediate win for the mover, otherwise the cell
// the opponent would win on next turn.
func findTacticalMove(view game.View, emptyCells []game.Position) (game.Position, bool) {
	mark := view.CurrentPlayer()

	// 1. Win
	if move, ok := findWinningMove(view, emptyCells, mark); ok {
		return move, true
	}
	// 2. Block
	return findWinningMove(view, emptyCells, mark.Opponent())
}

// findWinningMove returns the first empty cell, in the given order, that
// completes mark's chain.
func findWinningMove(view game.View, emptyCells []game.Position, mark game.PlayerMark) (game.Position, bool) {
	for _, p := range emptyCells {
		if view.WouldWin(p.Row, p.Col, mark) {
			return p, true
		}
	}
	return game.Position{}, false
}

// scoreMove rates a cell for mark: centrality across its own axis, a bonus on
// its goal edges and a bonus per friendly neighbour.
func scoreMove(view game.View, p game.Position, mark game.PlayerMark) int {
	size := view.Size()
	center := size / 2
	score := 0

	if mark == game.PlayerA {
		score += 10 - abs(p.Col-center)
		if p.Row == 0 || p.Row == size-1 {
			score += 15
		}
	} else {
		score += 10 - abs(p.Row-center)
		if p.Col == 0 || p.Col == size-1 {
			score += 15
		}
	}

	score += 5 * view.FriendlyNeighbors(p.Row, p.Col, mark)
	return score
}

func manhattan(p game.Position, center int) int {
	return abs(p.Row-center) + abs(p.Col-center)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
