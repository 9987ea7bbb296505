package room

import (
	"context"
	"ctchen222/Hex/internal/bot"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/player"
	"ctchen222/Hex/internal/repository"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("room")
	meter  = otel.Meter("room")
)

var (
	ErrGameFinished    = errors.New("game already finished")
	ErrNotComputerTurn = errors.New("current player is not a computer")
)

// Room is one game session: the engine, the two seats and move timings.
// All access to the engine goes through the room's mutex.
type Room struct {
	ID      string
	Player1 player.Profile
	Player2 player.Profile

	// saveMu orders saves of this room; mu is only held while copying.
	saveMu sync.Mutex

	mu            sync.Mutex
	engine        *game.Engine
	computers     map[game.PlayerMark]bot.MoveSelector
	createdAt     time.Time
	lastMoveAt    time.Time
	moveDurations []time.Duration
	movesCounter  metric.Int64Counter
}

// MoveResult describes an applied move.
type MoveResult struct {
	Move     game.Move
	Duration time.Duration
	State    State
}

// Finished reports whether the move ended the game.
func (m *MoveResult) Finished() bool {
	return m.State.IsFinished
}

// NewRoom creates a session around engine. Profiles are normalized and
// computer seats get their move selector.
func NewRoom(id string, engine *game.Engine, p1, p2 player.Profile) (*Room, error) {
	p1, err := p1.Normalize(1)
	if err != nil {
		return nil, err
	}
	p2, err = p2.Normalize(2)
	if err != nil {
		return nil, err
	}

	counter, err := meter.Int64Counter("hex.moves",
		metric.WithDescription("Moves applied to games"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create moves counter: %w", err)
	}

	now := time.Now().UTC()
	r := &Room{
		ID:           id,
		Player1:      p1,
		Player2:      p2,
		engine:       engine,
		computers:    make(map[game.PlayerMark]bot.MoveSelector),
		createdAt:    now,
		lastMoveAt:   now,
		movesCounter: counter,
	}

	for mark, p := range map[game.PlayerMark]player.Profile{game.PlayerA: p1, game.PlayerB: p2} {
		if !p.IsComputer() {
			continue
		}
		cp, err := p.ComputerPlayer()
		if err != nil {
			return nil, err
		}
		r.computers[mark] = cp
	}
	return r, nil
}

// FromStored rebuilds a room from its persisted form.
func FromStored(g *repository.StoredGame) (*Room, error) {
	engine, err := game.Restore(g.Snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game %s: %w", g.ID, err)
	}
	r, err := NewRoom(g.ID, engine, g.Player1, g.Player2)
	if err != nil {
		return nil, err
	}
	if !g.CreatedAt.IsZero() {
		r.createdAt = g.CreatedAt
	}
	if !g.LastMoveAt.IsZero() {
		r.lastMoveAt = g.LastMoveAt
	}
	r.moveDurations = append([]time.Duration(nil), g.MoveDurations...)
	return r, nil
}

// Stored returns the persisted form of the room.
func (r *Room) Stored() *repository.StoredGame {
	r.mu.Lock()
	defer r.mu.Unlock()

	return &repository.StoredGame{
		ID:            r.ID,
		Snapshot:      r.engine.Snapshot(),
		Player1:       r.Player1,
		Player2:       r.Player2,
		CreatedAt:     r.createdAt,
		LastMoveAt:    r.lastMoveAt,
		MoveDurations: append([]time.Duration(nil), r.moveDurations...),
	}
}

// Save persists the current state of the room. Saves of one room are
// serialized and each copies the state only after the previous one returned.
func (r *Room) Save(ctx context.Context, repo repository.GameRepository) error {
	r.saveMu.Lock()
	defer r.saveMu.Unlock()
	return repo.Save(ctx, r.Stored())
}

// CreatedAt returns when the game was created.
func (r *Room) CreatedAt() time.Time {
	return r.createdAt
}

// Profile returns the seat playing mark.
func (r *Room) Profile(mark game.PlayerMark) player.Profile {
	if mark == game.PlayerB {
		return r.Player2
	}
	return r.Player1
}

// Move applies a move for the player to move.
func (r *Room) Move(ctx context.Context, row, col int) (*MoveResult, error) {
	ctx, span := tracer.Start(ctx, "room.Move", trace.WithAttributes(
		attribute.String("game.id", r.ID),
		attribute.Int("move.row", row),
		attribute.Int("move.col", col),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	return r.apply(ctx, span, row, col, time.Now(), "human")
}

// ComputerMove lets the computer seat to move choose and apply its move.
func (r *Room) ComputerMove(ctx context.Context) (*MoveResult, error) {
	ctx, span := tracer.Start(ctx, "room.ComputerMove", trace.WithAttributes(
		attribute.String("game.id", r.ID),
	))
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine.IsFinished() {
		return nil, ErrGameFinished
	}
	selector, ok := r.computers[r.engine.CurrentPlayer()]
	if !ok {
		span.SetStatus(codes.Error, "Current player is not a computer")
		return nil, fmt.Errorf("%w: player %d", ErrNotComputerTurn, r.engine.CurrentPlayer())
	}

	start := time.Now()
	pos, err := selector.SelectMove(ctx, r.engine)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Computer failed to choose a move")
		return nil, fmt.Errorf("computer move failed: %w", err)
	}
	return r.apply(ctx, span, pos.Row, pos.Col, start, "computer")
}

// apply plays the move and records its timing. The caller holds mu.
func (r *Room) apply(ctx context.Context, span trace.Span, row, col int, start time.Time, source string) (*MoveResult, error) {
	if r.engine.IsFinished() {
		return nil, ErrGameFinished
	}

	mark := r.engine.CurrentPlayer()
	if err := r.engine.Play(row, col); err != nil {
		slog.WarnContext(ctx, "Rejected move", "game.id", r.ID, "move.row", row, "move.col", col, "error", err)
		span.SetAttributes(attribute.Bool("move.valid", false))
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid move")
		return nil, err
	}
	span.SetAttributes(attribute.Bool("move.valid", true))

	elapsed := time.Since(start)
	r.lastMoveAt = time.Now().UTC()
	r.moveDurations = append(r.moveDurations, elapsed)
	r.movesCounter.Add(ctx, 1, metric.WithAttributes(attribute.String("move.source", source)))

	slog.InfoContext(ctx, "Move applied",
		"game.id", r.ID, "player.mark", mark, "move.row", row, "move.col", col,
		"game.state", r.engine.State())

	return &MoveResult{
		Move:     game.Move{Row: row, Col: col, Mark: mark},
		Duration: elapsed,
		State:    r.state(),
	}, nil
}
