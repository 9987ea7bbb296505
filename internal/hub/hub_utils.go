package hub

import (
	"context"
	"ctchen222/Hex/internal/events"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/player"
	"ctchen222/Hex/internal/room"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// publish sends an event to the broker. Publishing is best effort.
func (h *Hub) publish(ctx context.Context, eventType, gameID string, payload any) {
	ev, err := events.NewEvent(eventType, gameID, payload)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to build event", "event.type", eventType, "game.id", gameID, "error", err)
		return
	}
	if err := h.broker.Publish(ctx, ev); err != nil {
		slog.ErrorContext(ctx, "Failed to publish event", "event.type", eventType, "game.id", gameID, "error", err)
	}
}

// DefaultSaveName is the file name used when a save request names none.
func DefaultSaveName(gameID string, now time.Time) string {
	return fmt.Sprintf("game_%s_%s.json", gameID, now.Format("20060102_150405"))
}

// sanitizeFilename reduces name to a plain base name ending in .json.
func sanitizeFilename(name string) (string, error) {
	base := filepath.Base(strings.TrimSpace(name))
	base = unsafeFilenameChars.ReplaceAllString(base, "_")
	base = strings.TrimLeft(base, ".")
	if base == "" || base == "_" {
		return "", fmt.Errorf("%w: %q", ErrInvalidFilename, name)
	}
	if !strings.HasSuffix(base, ".json") {
		base += ".json"
	}
	return base, nil
}

// SaveToFile writes the snapshot of game id to name inside the save
// directory and returns the file name used.
func (h *Hub) SaveToFile(ctx context.Context, id, name string) (string, error) {
	ctx, span := tracer.Start(ctx, "hub.SaveToFile", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	if name == "" {
		name = DefaultSaveName(id, time.Now())
	}
	filename, err := sanitizeFilename(name)
	if err != nil {
		return "", err
	}

	r, err := h.Room(ctx, id)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(h.opts.SaveDir, 0o755); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to create save dir")
		return "", fmt.Errorf("failed to create save dir: %w", err)
	}

	engine, err := game.Restore(r.Stored().Snapshot)
	if err != nil {
		return "", err
	}
	if err := game.SaveFile(filepath.Join(h.opts.SaveDir, filename), engine); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to write save file")
		return "", err
	}

	slog.InfoContext(ctx, "Game saved to file", "game.id", id, "file.name", filename)
	return filename, nil
}

// LoadFromFile restores a game saved with SaveToFile as a new game between
// two default human players.
func (h *Hub) LoadFromFile(ctx context.Context, name string) (*room.Room, error) {
	ctx, span := tracer.Start(ctx, "hub.LoadFromFile")
	defer span.End()

	filename, err := sanitizeFilename(name)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("file.name", filename))

	engine, err := game.LoadFile(filepath.Join(h.opts.SaveDir, filename))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to load save file")
		return nil, err
	}
	if size := engine.Size(); size < h.opts.MinBoardSize || size > h.opts.MaxBoardSize {
		return nil, fmt.Errorf("%w: %d (allowed %d-%d)", ErrBoardSizeOutOfRange, size, h.opts.MinBoardSize, h.opts.MaxBoardSize)
	}

	r, err := room.NewRoom(uuid.New().String(), engine, player.DefaultProfile(1), player.DefaultProfile(2))
	if err != nil {
		return nil, err
	}
	if err := h.addRoom(ctx, r); err != nil {
		return nil, err
	}

	h.publish(ctx, events.GameCreated, r.ID, events.GameCreatedPayload{
		BoardSize: engine.Size(),
		Player1:   r.Player1,
		Player2:   r.Player2,
	})
	slog.InfoContext(ctx, "Game loaded from file", "game.id", r.ID, "file.name", filename)
	return r, nil
}
