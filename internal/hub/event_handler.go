package hub

import (
	"context"
	"ctchen222/Hex/internal/events"
	"ctchen222/Hex/internal/game"
	"ctchen222/Hex/internal/player"
	"ctchen222/Hex/internal/validator"
	"ctchen222/Hex/pkg/proto"
	"encoding/json"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// handleEvent turns a game event into a watcher message and pushes it to
// every watcher of that game. Run only.
func (h *Hub) handleEvent(ctx context.Context, ev events.Event) {
	ctx, span := tracer.Start(ctx, "hub.handleEvent", trace.WithAttributes(
		attribute.String("event.type", ev.Type),
		attribute.String("game.id", ev.GameID),
	))
	defer span.End()

	set := h.watchers[ev.GameID]
	if len(set) == 0 {
		return
	}

	msg := &proto.ServerToClientMessage{GameID: ev.GameID}
	switch ev.Type {
	case events.MoveMade:
		var payload events.MoveMadePayload
		if err := ev.Decode(&payload); err != nil {
			slog.ErrorContext(ctx, "Could not unmarshal move_made payload", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Could not unmarshal move_made payload")
			return
		}
		msg.Type = proto.TypeUpdate
		msg.Board = payload.Board
		msg.CurrentPlayer = payload.CurrentPlayer
		msg.GameState = payload.GameState
		msg.LastMove = &proto.LastMove{Row: payload.Row, Col: payload.Col, Mark: payload.Mark}

	case events.GameFinished:
		var payload events.GameFinishedPayload
		if err := ev.Decode(&payload); err != nil {
			slog.ErrorContext(ctx, "Could not unmarshal game_finished payload", "error", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, "Could not unmarshal game_finished payload")
			return
		}
		msg.Type = proto.TypeFinished
		msg.GameState = payload.GameState
		msg.Winner = payload.Winner

	case events.GameDeleted:
		msg.Type = proto.TypeDeleted
		msg.Reason = "game deleted"

	default:
		return
	}

	for w := range set {
		h.send(ctx, w, msg)
	}

	if ev.Type == events.GameDeleted {
		for w := range h.watchers[ev.GameID] {
			h.removeWatcher(w)
		}
	}
}

// send queues msg for the watcher, dropping the watcher when its buffer is
// full. Run only.
func (h *Hub) send(ctx context.Context, w *player.Watcher, msg *proto.ServerToClientMessage) {
	if err := validator.GetValidator().Struct(msg); err != nil {
		slog.ErrorContext(ctx, "Refusing to send invalid message", "message.type", msg.Type, "error", err)
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling message", "error", err)
		return
	}
	if !w.Enqueue(data) {
		slog.WarnContext(ctx, "Watcher is too slow, dropping it", "watcher.id", w.ID, "game.id", w.GameID)
		h.removeWatcher(w)
	}
}

func winnerMark(w *int) game.PlayerMark {
	if w == nil {
		return game.Empty
	}
	return game.PlayerMark(*w)
}
