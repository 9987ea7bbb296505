package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadProfiles(t *testing.T) {
	tests := []struct {
		profile     string
		storage     string
		maxGames    int
		debug       bool
		wantProfile string
	}{
		{profile: Development, storage: "memory", maxGames: 50, debug: true, wantProfile: Development},
		{profile: Production, storage: "file", maxGames: 1000, debug: false, wantProfile: Production},
		{profile: Testing, storage: "memory", maxGames: 10, debug: true, wantProfile: Testing},
		{profile: "unknown", storage: "memory", maxGames: 50, debug: true, wantProfile: Development},
	}

	for _, tt := range tests {
		t.Run(tt.profile, func(t *testing.T) {
			cfg, err := Load(tt.profile)
			require.NoError(t, err)
			assert.Equal(t, tt.wantProfile, cfg.Profile)
			assert.Equal(t, tt.storage, cfg.StorageType)
			assert.Equal(t, tt.maxGames, cfg.MaxGames)
			assert.Equal(t, tt.debug, cfg.Debug)
			assert.Equal(t, 3, cfg.MinBoardSize)
			assert.Equal(t, 25, cfg.MaxBoardSize)
		})
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("STORAGE_TYPE", "redis")
	t.Setenv("REDIS_CONNSTRING", "redis:6379")
	t.Setenv("MAX_GAMES", "7")
	t.Setenv("MIN_BOARD_SIZE", "5")
	t.Setenv("MAX_BOARD_SIZE", "13")
	t.Setenv("DEBUG", "false")
	t.Setenv("CORS_ORIGINS", "http://a,http://b")

	cfg, err := Load(Development)
	require.NoError(t, err)
	assert.Equal(t, "redis", cfg.StorageType)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, 7, cfg.MaxGames)
	assert.Equal(t, 5, cfg.MinBoardSize)
	assert.Equal(t, 13, cfg.MaxBoardSize)
	assert.False(t, cfg.Debug)
	assert.Equal(t, []string{"http://a", "http://b"}, cfg.CORSOrigins)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown storage", env: map[string]string{"STORAGE_TYPE": "s3"}},
		{name: "too many games", env: map[string]string{"MAX_GAMES": "10001"}},
		{name: "zero games", env: map[string]string{"MAX_GAMES": "0"}},
		{name: "board too small", env: map[string]string{"MIN_BOARD_SIZE": "2"}},
		{name: "board too large", env: map[string]string{"MAX_BOARD_SIZE": "26"}},
		{name: "min above max", env: map[string]string{"MIN_BOARD_SIZE": "9", "MAX_BOARD_SIZE": "7", "DEFAULT_BOARD_SIZE": "8"}},
		{name: "not a number", env: map[string]string{"MAX_GAMES": "many"}},
		{name: "not a boolean", env: map[string]string{"DEBUG": "maybe"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load(Development)
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hex.json")
	content := `{
		"development": {"MAX_GAMES": 3, "SAVE_DIR": "/tmp/hex-saves"},
		"production": {"MAX_GAMES": 9000}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load(Development)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxGames)
	assert.Equal(t, "/tmp/hex-saves", cfg.SaveDir)

	cfg, err = Load(Production)
	require.NoError(t, err)
	assert.Equal(t, 9000, cfg.MaxGames)

	// environment variables win over the file
	t.Setenv("MAX_GAMES", "40")
	cfg, err = Load(Development)
	require.NoError(t, err)
	assert.Equal(t, 40, cfg.MaxGames)
	assert.Equal(t, "/tmp/hex-saves", cfg.SaveDir)
}

func TestLoadMissingConfigFile(t *testing.T) {
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "missing.json"))

	cfg, err := Load(Testing)
	require.NoError(t, err)
	assert.Equal(t, 10, cfg.MaxGames)
}

func TestPublic(t *testing.T) {
	cfg, err := Load(Testing)
	require.NoError(t, err)

	pub := cfg.Public()
	assert.Equal(t, "memory", pub["STORAGE_TYPE"])
	assert.NotContains(t, pub, "JWT_SECRET")
	assert.NotContains(t, pub, "REDIS_CONNSTRING")
}
