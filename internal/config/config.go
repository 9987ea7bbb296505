package config

import (
	"ctchen222/Hex/internal/validator"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Profiles
const (
	Development = "development"
	Production  = "production"
	Testing     = "testing"
)

const devJWTSecret = "dev-secret-key-hex-game"

// Config holds the service configuration. JSON keys double as the
// environment variable names.
type Config struct {
	Profile          string   `json:"-"`
	Debug            bool     `json:"DEBUG"`
	HTTPAddr         string   `json:"HTTP_ADDR" validate:"required"`
	StorageType      string   `json:"STORAGE_TYPE" validate:"oneof=memory file redis"`
	StorageDir       string   `json:"STORAGE_DIR" validate:"required_if=StorageType file"`
	SaveDir          string   `json:"SAVE_DIR" validate:"required"`
	MaxGames         int      `json:"MAX_GAMES" validate:"min=1,max=10000"`
	MinBoardSize     int      `json:"MIN_BOARD_SIZE" validate:"boardsize"`
	MaxBoardSize     int      `json:"MAX_BOARD_SIZE" validate:"boardsize,gtefield=MinBoardSize"`
	DefaultBoardSize int      `json:"DEFAULT_BOARD_SIZE" validate:"gtefield=MinBoardSize,ltefield=MaxBoardSize"`
	RedisAddr        string   `json:"REDIS_CONNSTRING" validate:"required_if=StorageType redis"`
	SQLiteDSN        string   `json:"SQLITE_DSN" validate:"required"`
	JWTSecret        string   `json:"JWT_SECRET" validate:"required"`
	OtelEnabled      bool     `json:"OTEL_ENABLED"`
	OtelEndpoint     string   `json:"OTEL_ENDPOINT" validate:"required_if=OtelEnabled true"`
	CORSOrigins      []string `json:"CORS_ORIGINS"`
}

// Profiles returns the names of the available profiles.
func Profiles() []string {
	return []string{Development, Production, Testing}
}

func defaults(profile string) Config {
	cfg := Config{
		Profile:          profile,
		HTTPAddr:         ":8080",
		StorageType:      "memory",
		StorageDir:       "saved_games",
		SaveDir:          "saves",
		MaxGames:         100,
		MinBoardSize:     3,
		MaxBoardSize:     25,
		DefaultBoardSize: 11,
		RedisAddr:        "localhost:6379",
		SQLiteDSN:        "./hex.db",
		JWTSecret:        devJWTSecret,
		OtelEndpoint:     "otel-collector:4317",
		CORSOrigins:      []string{"*"},
	}

	switch profile {
	case Production:
		cfg.StorageType = "file"
		cfg.MaxGames = 1000
	case Testing:
		cfg.Debug = true
		cfg.MaxGames = 10
		cfg.SQLiteDSN = ":memory:"
	default:
		cfg.Profile = Development
		cfg.Debug = true
		cfg.MaxGames = 50
	}
	return cfg
}

// Load builds the configuration for a profile in layers, each overriding the
// one before: profile defaults, the profile's section of the JSON file named
// by CONFIG_FILE, then environment variables (a .env file is read if
// present). The result is validated.
func Load(profile string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := defaults(profile)
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if cfg.Profile == Production && cfg.JWTSecret == devJWTSecret {
		slog.Warn("JWT_SECRET is not set for production, using the development key")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration against its constraints.
func (c *Config) Validate() error {
	if err := validator.GetValidator().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	var errs []error
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := os.LookupEnv(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s must be an integer: %w", key, err))
				return
			}
			*dst = n
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := os.LookupEnv(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s must be a boolean: %w", key, err))
				return
			}
			*dst = b
		}
	}

	flag("DEBUG", &c.Debug)
	str("HTTP_ADDR", &c.HTTPAddr)
	str("STORAGE_TYPE", &c.StorageType)
	str("STORAGE_DIR", &c.StorageDir)
	str("SAVE_DIR", &c.SaveDir)
	num("MAX_GAMES", &c.MaxGames)
	num("MIN_BOARD_SIZE", &c.MinBoardSize)
	num("MAX_BOARD_SIZE", &c.MaxBoardSize)
	num("DEFAULT_BOARD_SIZE", &c.DefaultBoardSize)
	str("REDIS_CONNSTRING", &c.RedisAddr)
	str("SQLITE_DSN", &c.SQLiteDSN)
	str("JWT_SECRET", &c.JWTSecret)
	flag("OTEL_ENABLED", &c.OtelEnabled)
	str("OTEL_ENDPOINT", &c.OtelEndpoint)
	if v, ok := os.LookupEnv("CORS_ORIGINS"); ok {
		c.CORSOrigins = strings.Split(v, ",")
	}

	return errors.Join(errs...)
}

// applyFile overlays the profile's section of a JSON file shaped like
// {"development": {...}, "production": {...}}. A missing file is ignored.
func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Config file not found, skipping", "path", path)
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var sections map[string]json.RawMessage
	if err := json.Unmarshal(data, &sections); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	section, ok := sections[c.Profile]
	if !ok {
		return nil
	}
	if err := json.Unmarshal(section, c); err != nil {
		return fmt.Errorf("failed to apply %s section of %s: %w", c.Profile, path, err)
	}
	return nil
}

// Public returns the settings that are safe to expose over the API.
func (c *Config) Public() map[string]any {
	return map[string]any{
		"DEBUG":          c.Debug,
		"STORAGE_TYPE":   c.StorageType,
		"STORAGE_DIR":    c.StorageDir,
		"MAX_GAMES":      c.MaxGames,
		"MIN_BOARD_SIZE": c.MinBoardSize,
		"MAX_BOARD_SIZE": c.MaxBoardSize,
	}
}
