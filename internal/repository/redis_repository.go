package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	gamesSetKey     = "games"
	fieldState      = "state"
	fieldUpdatedAt  = "updated_at"
	gameKeyTemplate = "game:%s"
)

type redisGameRepository struct {
	rdb *redis.Client
}

// NewRedisGameRepository creates a Redis-based GameRepository. Each game is a
// hash at game:<id> and its id is kept in the games set.
func NewRedisGameRepository(rdb *redis.Client) GameRepository {
	return &redisGameRepository{rdb: rdb}
}

func gameKey(id string) string {
	return fmt.Sprintf(gameKeyTemplate, id)
}

// Save writes the game and registers its id in one transaction.
func (r *redisGameRepository) Save(ctx context.Context, g *StoredGame) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Save", trace.WithAttributes(
		attribute.String("game.id", g.ID),
	))
	defer span.End()

	data, err := encodeGame(g)
	if err != nil {
		return err
	}

	pipe := r.rdb.TxPipeline()
	pipe.HSet(ctx, gameKey(g.ID), fieldState, data, fieldUpdatedAt, time.Now().UTC().Format(time.RFC3339Nano))
	pipe.SAdd(ctx, gamesSetKey, g.ID)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to save game in redis")
		return fmt.Errorf("failed to save game in redis: %w", err)
	}
	return nil
}

// FindByID retrieves a game from Redis.
func (r *redisGameRepository) FindByID(ctx context.Context, id string) (*StoredGame, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.FindByID", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	data, err := r.rdb.HGet(ctx, gameKey(id), fieldState).Bytes()
	if err == redis.Nil {
		return nil, ErrGameNotFound
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to get game from redis")
		return nil, fmt.Errorf("failed to get game from redis: %w", err)
	}
	return decodeGame(id, data)
}

// Delete removes the game hash and its id.
func (r *redisGameRepository) Delete(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "GameRepository.Delete", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	pipe := r.rdb.TxPipeline()
	del := pipe.Del(ctx, gameKey(id))
	pipe.SRem(ctx, gamesSetKey, id)
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to delete game from redis")
		return fmt.Errorf("failed to delete game from redis: %w", err)
	}
	if del.Val() == 0 {
		return ErrGameNotFound
	}
	return nil
}

// List returns the ids of all stored games.
func (r *redisGameRepository) List(ctx context.Context) ([]string, error) {
	ctx, span := tracer.Start(ctx, "GameRepository.List")
	defer span.End()

	ids, err := r.rdb.SMembers(ctx, gamesSetKey).Result()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to list games in redis")
		return nil, fmt.Errorf("failed to list games in redis: %w", err)
	}
	sort.Strings(ids)
	return ids, nil
}
