package repository

import (
	"context"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/player"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
)

//go:generate mockgen -destination=mocks/game_repository_mock.go -package=mocks ctchen222/Hex/internal/repository GameRepository

var tracer = otel.Tracer("repository")

// Storage types
const (
	StorageMemory = "memory"
	StorageFile   = "file"
	StorageRedis  = "redis"
)

var ErrGameNotFound = errors.New("game not found")

// StoredGame is everything persisted about one game session.
type StoredGame struct {
	ID            string          `json:"game_id"`
	Snapshot      *game.Snapshot  `json:"engine_state"`
	Player1       player.Profile  `json:"player1"`
	Player2       player.Profile  `json:"player2"`
	CreatedAt     time.Time       `json:"created_at"`
	LastMoveAt    time.Time       `json:"last_move_at"`
	MoveDurations []time.Duration `json:"move_durations"`
}

// GameRepository defines the interface for game data operations.
type GameRepository interface {
	Save(ctx context.Context, g *StoredGame) error
	FindByID(ctx context.Context, id string) (*StoredGame, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]string, error)
}

// NewGameRepository returns the repository for storageType. Dir is used by
// file storage and rdb by redis storage.
func NewGameRepository(storageType, dir string, rdb *redis.Client) (GameRepository, error) {
	switch storageType {
	case StorageMemory:
		return NewMemoryGameRepository(), nil
	case StorageFile:
		return NewFileGameRepository(dir)
	case StorageRedis:
		if rdb == nil {
			return nil, errors.New("redis storage requires a redis client")
		}
		return NewRedisGameRepository(rdb), nil
	default:
		return nil, fmt.Errorf("unknown storage type %q", storageType)
	}
}

func encodeGame(g *StoredGame) ([]byte, error) {
	data, err := json.Marshal(g)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game %s: %w", g.ID, err)
	}
	return data, nil
}

func decodeGame(id string, data []byte) (*StoredGame, error) {
	var g StoredGame
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, fmt.Errorf("failed to unmarshal game %s: %w", id, err)
	}
	if g.Snapshot == nil {
		return nil, fmt.Errorf("game %s has no engine state: %w", id, game.ErrMalformedState)
	}
	return &g, nil
}
