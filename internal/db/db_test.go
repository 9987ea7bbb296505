package db

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectCreatesSchema(t *testing.T) {
	pool, err := Connect(t.Context(), ":memory:")
	require.NoError(t, err)
	defer pool.Close()

	var tables []string
	err = pool.SelectContext(t.Context(), &tables,
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'game_results') ORDER BY name`)
	require.NoError(t, err)
	assert.Equal(t, []string{"game_results", "users"}, tables)

	// idempotent
	assert.NoError(t, InitializeSchema(t.Context(), pool))
}
