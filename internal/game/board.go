package game

// PlayerMark represents the mark of a player or an empty cell.
type PlayerMark int

const (
	Empty   PlayerMark = 0
	PlayerA PlayerMark = 1 // connects top and bottom
	PlayerB PlayerMark = 2 // connects left and right
)

// Board boundaries
const (
	MinBoardSize = 3
	MaxBoardSize = 25
)

// hexOffsets are the six neighbours of a cell on a rhombus-shaped hex board.
var hexOffsets = [6][2]int{{-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}}

// Valid reports whether m is one of the two player marks.
func (m PlayerMark) Valid() bool {
	return m == PlayerA || m == PlayerB
}

// Opponent returns the other player's mark.
func (m PlayerMark) Opponent() PlayerMark {
	if m == PlayerA {
		return PlayerB
	}
	return PlayerA
}

func (m PlayerMark) String() string {
	switch m {
	case PlayerA:
		return "A"
	case PlayerB:
		return "B"
	default:
		return "-"
	}
}

// Position is a zero-indexed board coordinate.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Board is a square grid of marks stored row-major.
type Board struct {
	size  int
	cells []PlayerMark
}

func newBoard(size int) *Board {
	return &Board{size: size, cells: make([]PlayerMark, size*size)}
}

// Size returns the side length of the board.
func (b *Board) Size() int {
	return b.size
}

// InBounds reports whether (row, col) lies on the board.
func (b *Board) InBounds(row, col int) bool {
	return row >= 0 && row < b.size && col >= 0 && col < b.size
}

// At returns the mark at (row, col). Out-of-range coordinates read as Empty.
func (b *Board) At(row, col int) PlayerMark {
	if !b.InBounds(row, col) {
		return Empty
	}
	return b.cells[row*b.size+col]
}

func (b *Board) set(row, col int, mark PlayerMark) {
	b.cells[row*b.size+col] = mark
}

// Full reports whether no empty cell is left.
func (b *Board) Full() bool {
	for _, c := range b.cells {
		if c == Empty {
			return false
		}
	}
	return true
}

// Probe temporarily places mark on an empty cell, runs fn and restores the
// cell before returning, whichever way fn exits. Probing an occupied or
// out-of-range cell returns false without calling fn.
func (b *Board) Probe(row, col int, mark PlayerMark, fn func() bool) bool {
	if !b.InBounds(row, col) || b.At(row, col) != Empty {
		return false
	}
	b.set(row, col, mark)
	defer b.set(row, col, Empty)
	return fn()
}

// Rows returns a copy of the board as a grid of marks.
func (b *Board) Rows() [][]PlayerMark {
	rows := make([][]PlayerMark, b.size)
	for r := range rows {
		rows[r] = make([]PlayerMark, b.size)
		copy(rows[r], b.cells[r*b.size:(r+1)*b.size])
	}
	return rows
}

// IntRows returns the board as a grid of ints (0 empty, 1 PlayerA, 2 PlayerB).
func (b *Board) IntRows() [][]int {
	rows := make([][]int, b.size)
	for r := range rows {
		rows[r] = make([]int, b.size)
		for c := range rows[r] {
			rows[r][c] = int(b.At(r, c))
		}
	}
	return rows
}

// neighbors calls fn for every on-board hex neighbour of (row, col).
func (b *Board) neighbors(row, col int, fn func(r, c int)) {
	for _, d := range hexOffsets {
		r, c := row+d[0], col+d[1]
		if b.InBounds(r, c) {
			fn(r, c)
		}
	}
}

// CountNeighbors returns how many hex neighbours of (row, col) hold mark.
func (b *Board) CountNeighbors(row, col int, mark PlayerMark) int {
	n := 0
	b.neighbors(row, col, func(r, c int) {
		if b.At(r, c) == mark {
			n++
		}
	})
	return n
}
