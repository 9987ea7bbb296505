package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type fileGameRepository struct {
	dir string
}

// NewFileGameRepository creates a GameRepository that keeps one indented
// JSON file per game in dir.
func NewFileGameRepository(dir string) (GameRepository, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir %s: %w", dir, err)
	}
	return &fileGameRepository{dir: dir}, nil
}

func (r *fileGameRepository) path(id string) (string, error) {
	if id == "" || id != filepath.Base(id) || strings.HasPrefix(id, ".") {
		return "", fmt.Errorf("invalid game id %q: %w", id, ErrGameNotFound)
	}
	return filepath.Join(r.dir, id+".json"), nil
}

func (r *fileGameRepository) Save(ctx context.Context, g *StoredGame) error {
	_, span := tracer.Start(ctx, "FileGameRepository.Save", trace.WithAttributes(
		attribute.String("game.id", g.ID),
	))
	defer span.End()

	path, err := r.path(g.ID)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal game %s: %w", g.ID, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to write game file")
		return fmt.Errorf("failed to write game %s: %w", g.ID, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to replace game file")
		return fmt.Errorf("failed to replace game %s: %w", g.ID, err)
	}
	return nil
}

func (r *fileGameRepository) FindByID(ctx context.Context, id string) (*StoredGame, error) {
	_, span := tracer.Start(ctx, "FileGameRepository.FindByID", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	path, err := r.path(id)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to read game %s: %w", id, err)
	}
	return decodeGame(id, data)
}

func (r *fileGameRepository) Delete(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "FileGameRepository.Delete", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	path, err := r.path(id)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrGameNotFound
		}
		return fmt.Errorf("failed to delete game %s: %w", id, err)
	}
	return nil
}

func (r *fileGameRepository) List(ctx context.Context) ([]string, error) {
	_, span := tracer.Start(ctx, "FileGameRepository.List")
	defer span.End()

	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list storage dir %s: %w", r.dir, err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
