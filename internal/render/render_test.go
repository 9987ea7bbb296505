package render

import (
	"ctchen222/Hex/internal/game"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSymbolGrid(t *testing.T) {
	e, err := game.New(3)
	require.NoError(t, err)
	require.True(t, e.ApplyMove(0, 0))
	require.True(t, e.ApplyMove(2, 2))

	grid := SymbolGrid(e.Board())

	assert.Equal(t, [][]string{
		{"●", "·", "·"},
		{"·", "·", "·"},
		{"·", "·", "○"},
	}, grid)
}

func TestRhombus(t *testing.T) {
	e, err := game.New(3)
	require.NoError(t, err)
	require.True(t, e.ApplyMove(1, 1))

	out := Rhombus(e.Board())
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")

	require.Len(t, lines, 6)
	assert.Equal(t, "     1  2  3 ", lines[0])
	assert.Equal(t, " 1 │ ·  ·  · ╲", lines[2])
	assert.Equal(t, " 2  ╲ ·  ●  · ╲", lines[3])
	assert.Equal(t, " 3   ╲ ·  ·  · │", lines[4])
	assert.True(t, strings.HasPrefix(lines[5], "      ╰"))
}
