package game

// HasConnection reports whether mark's stones form an unbroken chain between
// its two goal edges: rows 0 and size-1 for PlayerA, columns 0 and size-1 for
// PlayerB. The search is an iterative depth-first walk so its depth does not
// grow with the board.
func HasConnection(b *Board, mark PlayerMark) bool {
	if !mark.Valid() {
		return false
	}
	n := b.size
	visited := make([]bool, n*n)
	stack := make([]Position, 0, n)

	// Seed from the start edge.
	for i := 0; i < n; i++ {
		row, col := 0, i
		if mark == PlayerB {
			row, col = i, 0
		}
		if b.At(row, col) == mark {
			visited[row*n+col] = true
			stack = append(stack, Position{Row: row, Col: col})
		}
	}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if onTargetEdge(p, mark, n) {
			return true
		}

		b.neighbors(p.Row, p.Col, func(r, c int) {
			idx := r*n + c
			if !visited[idx] && b.cells[idx] == mark {
				visited[idx] = true
				stack = append(stack, Position{Row: r, Col: c})
			}
		})
	}
	return false
}

func onTargetEdge(p Position, mark PlayerMark, size int) bool {
	if mark == PlayerA {
		return p.Row == size-1
	}
	return p.Col == size-1
}
