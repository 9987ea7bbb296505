// Package render draws HEX boards as text.
package render

import (
	"ctchen222/Hex/internal/game"
	"fmt"
	"strings"
)

// Symbols used for each mark.
var Symbols = map[game.PlayerMark]string{
	game.Empty:   "·",
	game.PlayerA: "●",
	game.PlayerB: "○",
}

// SymbolGrid converts a board into a grid of display symbols.
func SymbolGrid(board [][]game.PlayerMark) [][]string {
	grid := make([][]string, len(board))
	for r, row := range board {
		grid[r] = make([]string, len(row))
		for c, cell := range row {
			grid[r][c] = Symbols[cell]
		}
	}
	return grid
}

// Rhombus draws the board as a skewed rhombus with 1-indexed row and column
// labels, each row shifted one column right of the previous.
func Rhombus(board [][]game.PlayerMark) string {
	size := len(board)
	var sb strings.Builder

	sb.WriteString("    ")
	for c := 0; c < size; c++ {
		fmt.Fprintf(&sb, "%2d ", c+1)
	}
	sb.WriteString("\n")
	sb.WriteString("   ╭" + strings.Repeat("─", size*3-1) + "╮\n")

	for r, row := range board {
		fmt.Fprintf(&sb, "%2d ", r+1)
		sb.WriteString(strings.Repeat(" ", r))
		if r == 0 {
			sb.WriteString("│")
		} else {
			sb.WriteString("╲")
		}
		for c, cell := range row {
			sb.WriteString(" " + Symbols[cell])
			if c < size-1 {
				sb.WriteString(" ")
			}
		}
		if r == size-1 {
			sb.WriteString(" │")
		} else {
			sb.WriteString(" ╲")
		}
		sb.WriteString("\n")
	}

	sb.WriteString("   " + strings.Repeat(" ", size) + "╰" + strings.Repeat("─", size*3-1) + "╯\n")
	return sb.String()
}

// Legend describes which edges each player connects.
func Legend() string {
	return fmt.Sprintf("Player 1 (%s): connects top and bottom\nPlayer 2 (%s): connects left and right\n",
		Symbols[game.PlayerA], Symbols[game.PlayerB])
}
