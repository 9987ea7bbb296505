package hub

import (
	"context"
	"ctchen222/Hex/internal/events"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/player"
	"ctchen222/Hex/internal/repository"
	"ctchen222/Hex/internal/room"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// GlobalStats summarizes the games held in memory.
type GlobalStats struct {
	TotalGames      int     `json:"total_games"`
	ActiveGames     int     `json:"active_games"`
	FinishedGames   int     `json:"finished_games"`
	TotalMoves      int     `json:"total_moves"`
	AverageMoveTime float64 `json:"average_move_time"`
	StorageType     string  `json:"storage_type"`
	RecordedResults int     `json:"recorded_results"`
}

// CreateGame starts a new game between p1 and p2 and returns its room.
func (h *Hub) CreateGame(ctx context.Context, size int, p1, p2 player.Profile) (*room.Room, error) {
	ctx, span := tracer.Start(ctx, "hub.CreateGame", trace.WithAttributes(
		attribute.Int("game.board_size", size),
	))
	defer span.End()

	if size < h.opts.MinBoardSize || size > h.opts.MaxBoardSize {
		err := fmt.Errorf("%w: %d (allowed %d-%d)", ErrBoardSizeOutOfRange, size, h.opts.MinBoardSize, h.opts.MaxBoardSize)
		span.SetStatus(codes.Error, "Board size out of range")
		return nil, err
	}
	engine, err := game.New(size)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not create engine")
		return nil, fmt.Errorf("%w: %w", ErrBoardSizeOutOfRange, err)
	}

	r, err := room.NewRoom(uuid.New().String(), engine, p1, p2)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Invalid player profile")
		return nil, err
	}
	span.SetAttributes(attribute.String("game.id", r.ID))

	if err := h.addRoom(ctx, r); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Failed to store game")
		return nil, err
	}

	h.publish(ctx, events.GameCreated, r.ID, events.GameCreatedPayload{
		BoardSize: size,
		Player1:   r.Player1,
		Player2:   r.Player2,
	})
	slog.InfoContext(ctx, "Game created", "game.id", r.ID, "game.board_size", size,
		"player1.type", r.Player1.Type, "player2.type", r.Player2.Type)
	return r, nil
}

// addRoom persists a new room and keeps it in memory, evicting the oldest
// room when the limit is reached.
func (h *Hub) addRoom(ctx context.Context, r *room.Room) error {
	if err := r.Save(ctx, h.repo); err != nil {
		return fmt.Errorf("failed to save game %s: %w", r.ID, err)
	}

	h.mu.Lock()
	h.evictLocked(ctx)
	h.rooms[r.ID] = r
	h.mu.Unlock()

	h.gamesCreated.Add(ctx, 1)
	return nil
}

// evictLocked drops the oldest rooms from memory until there is space for
// one more. Evicted games stay in storage. The caller holds mu.
func (h *Hub) evictLocked(ctx context.Context) {
	for len(h.rooms) >= h.opts.MaxGames {
		var oldest *room.Room
		for _, r := range h.rooms {
			if oldest == nil || r.CreatedAt().Before(oldest.CreatedAt()) {
				oldest = r
			}
		}
		delete(h.rooms, oldest.ID)
		slog.InfoContext(ctx, "Evicted oldest game from memory", "game.id", oldest.ID)
	}
}

// Room returns the room of a game, loading it from storage when it is not
// in memory.
func (h *Hub) Room(ctx context.Context, id string) (*room.Room, error) {
	h.mu.RLock()
	r, ok := h.rooms[id]
	h.mu.RUnlock()
	if ok {
		return r, nil
	}

	ctx, span := tracer.Start(ctx, "hub.loadRoom", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	stored, err := h.repo.FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrGameNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to load game")
		}
		return nil, err
	}
	loaded, err := room.FromStored(stored)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Stored game is malformed")
		return nil, err
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if existing, ok := h.rooms[id]; ok {
		return existing, nil
	}
	h.evictLocked(ctx)
	h.rooms[id] = loaded
	slog.InfoContext(ctx, "Game loaded from storage", "game.id", id)
	return loaded, nil
}

// ListGames returns the games in memory and those only in storage, newest
// first. Stored games are read without being loaded into memory.
func (h *Hub) ListGames(ctx context.Context) []room.Summary {
	h.mu.RLock()
	list := make([]room.Summary, 0, len(h.rooms))
	listed := make(map[string]bool, len(h.rooms))
	for id, r := range h.rooms {
		s := r.Summary()
		s.InMemory = true
		list = append(list, s)
		listed[id] = true
	}
	h.mu.RUnlock()

	ids, err := h.repo.List(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to list stored games", "error", err)
	}
	for _, id := range ids {
		if listed[id] {
			continue
		}
		stored, err := h.repo.FindByID(ctx, id)
		if err != nil {
			slog.WarnContext(ctx, "Failed to read stored game", "game.id", id, "error", err)
			continue
		}
		r, err := room.FromStored(stored)
		if err != nil {
			slog.WarnContext(ctx, "Skipping malformed stored game", "game.id", id, "error", err)
			continue
		}
		list = append(list, r.Summary())
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].CreatedAt.After(list[j].CreatedAt)
	})
	return list
}

// DeleteGame removes a game from memory and storage.
func (h *Hub) DeleteGame(ctx context.Context, id string) error {
	ctx, span := tracer.Start(ctx, "hub.DeleteGame", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	h.mu.Lock()
	_, inMemory := h.rooms[id]
	delete(h.rooms, id)
	h.mu.Unlock()

	if err := h.repo.Delete(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrGameNotFound) {
			span.RecordError(err)
			span.SetStatus(codes.Error, "Failed to delete game")
			return err
		}
		if !inMemory {
			return err
		}
	}

	h.publish(ctx, events.GameDeleted, id, nil)
	slog.InfoContext(ctx, "Game deleted", "game.id", id)
	return nil
}

// MakeMove applies a move for the player to move in game id.
func (h *Hub) MakeMove(ctx context.Context, id string, row, col int) (*room.MoveResult, error) {
	ctx, span := tracer.Start(ctx, "hub.MakeMove", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	r, err := h.Room(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := r.Move(ctx, row, col)
	if err != nil {
		return nil, err
	}
	h.afterMove(ctx, r, res)
	return res, nil
}

// MakeComputerMove lets the computer seat to move play in game id.
func (h *Hub) MakeComputerMove(ctx context.Context, id string) (*room.MoveResult, error) {
	ctx, span := tracer.Start(ctx, "hub.MakeComputerMove", trace.WithAttributes(
		attribute.String("game.id", id),
	))
	defer span.End()

	r, err := h.Room(ctx, id)
	if err != nil {
		return nil, err
	}
	res, err := r.ComputerMove(ctx)
	if err != nil {
		return nil, err
	}
	h.afterMove(ctx, r, res)
	return res, nil
}

// afterMove persists the room, publishes the move and, when the game ended,
// publishes and records the result. Failures here do not undo the move.
func (h *Hub) afterMove(ctx context.Context, r *room.Room, res *room.MoveResult) {
	if err := r.Save(ctx, h.repo); err != nil {
		slog.ErrorContext(ctx, "Failed to persist game after move", "game.id", r.ID, "error", err)
	}

	h.publish(ctx, events.MoveMade, r.ID, events.MoveMadePayload{
		Row:           res.Move.Row,
		Col:           res.Move.Col,
		Mark:          res.Move.Mark,
		Board:         res.State.Board,
		CurrentPlayer: res.State.CurrentPlayer,
		GameState:     res.State.GameState,
		MoveCount:     res.State.MovesCount,
	})

	if !res.Finished() {
		return
	}

	winner := winnerMark(res.State.Winner)
	var winnerName string
	if winner != game.Empty {
		winnerName = r.Profile(winner).Name
	}
	h.publish(ctx, events.GameFinished, r.ID, events.GameFinishedPayload{
		GameState:  res.State.GameState,
		Winner:     winner,
		WinnerName: winnerName,
		TotalMoves: res.State.MovesCount,
	})
	slog.InfoContext(ctx, "Game finished", "game.id", r.ID, "game.state", res.State.GameState, "winner.name", winnerName)

	if h.results == nil {
		return
	}
	result := &repository.GameResult{
		GameID:      r.ID,
		BoardSize:   res.State.BoardSize,
		Player1Name: r.Player1.Name,
		Player2Name: r.Player2.Name,
		WinnerMark:  int(winner),
		WinnerName:  winnerName,
		TotalMoves:  res.State.MovesCount,
		DurationMS:  res.State.LastMoveAt.Sub(res.State.CreatedAt).Milliseconds(),
		FinishedAt:  res.State.LastMoveAt,
	}
	if err := h.results.Record(ctx, result); err != nil {
		slog.ErrorContext(ctx, "Failed to record game result", "game.id", r.ID, "error", err)
	}
}

// GameStats returns timing statistics of game id and its watcher count.
func (h *Hub) GameStats(ctx context.Context, id string) (room.Stats, error) {
	r, err := h.Room(ctx, id)
	if err != nil {
		return room.Stats{}, err
	}
	stats := r.Stats()
	stats.Watchers = h.WatcherCount(id)
	return stats, nil
}

// Board returns the visual forms of the board of game id.
func (h *Hub) Board(ctx context.Context, id string) (room.BoardView, error) {
	r, err := h.Room(ctx, id)
	if err != nil {
		return room.BoardView{}, err
	}
	return r.Board(), nil
}

// GlobalStats summarizes the games in memory.
func (h *Hub) GlobalStats(ctx context.Context) GlobalStats {
	h.mu.RLock()
	rooms := make([]*room.Room, 0, len(h.rooms))
	for _, r := range h.rooms {
		rooms = append(rooms, r)
	}
	h.mu.RUnlock()

	stats := GlobalStats{TotalGames: len(rooms), StorageType: h.opts.StorageType}
	var total time.Duration
	var timed int
	for _, r := range rooms {
		if r.State().IsFinished {
			stats.FinishedGames++
		}
		durations := r.MoveDurations()
		stats.TotalMoves += len(durations)
		for _, d := range durations {
			total += d
		}
		timed += len(durations)
	}
	stats.ActiveGames = stats.TotalGames - stats.FinishedGames
	if timed > 0 {
		stats.AverageMoveTime = total.Seconds() / float64(timed)
	}

	if h.results != nil {
		n, err := h.results.Count(ctx)
		if err != nil {
			slog.WarnContext(ctx, "Failed to count recorded results", "error", err)
		}
		stats.RecordedResults = n
	}
	return stats
}

// Leaderboard returns the players with the most recorded wins.
func (h *Hub) Leaderboard(ctx context.Context, limit int) ([]repository.LeaderboardEntry, error) {
	if h.results == nil {
		return []repository.LeaderboardEntry{}, nil
	}
	return h.results.Leaderboard(ctx, limit)
}
