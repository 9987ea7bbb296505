package telemetry

import (
	"ctchen222/Hex/internal/config"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitOtelDisabled(t *testing.T) {
	shutdown, err := InitOtel(t.Context(), &config.Config{OtelEnabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)
	assert.NoError(t, shutdown(t.Context()))
}
