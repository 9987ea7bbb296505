package hub

import (
	"context"
	"ctchen222/Hex/internal/player"
	"ctchen222/Hex/pkg/proto"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errHubStopped = errors.New("hub is not running")

// Watch registers conn as a watcher of gameID and blocks until the
// connection is closed or ctx ends. Anything the watcher sends is ignored.
func (h *Hub) Watch(ctx context.Context, gameID string, conn player.Connection) error {
	ctx, span := tracer.Start(ctx, "hub.Watch", trace.WithAttributes(
		attribute.String("game.id", gameID),
	))
	defer span.End()

	if _, err := h.Room(ctx, gameID); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "Unknown game")
		return err
	}

	w := player.NewWatcher(uuid.New().String(), gameID, conn)
	span.SetAttributes(attribute.String("watcher.id", w.ID))
	go w.WritePump()

	select {
	case h.register <- w:
	case <-h.done:
		w.Close()
		return errHubStopped
	case <-ctx.Done():
		w.Close()
		return ctx.Err()
	}

	h.readPump(ctx, w)
	<-w.Done()
	return nil
}

// readPump drains the watcher's connection until it fails, then unregisters it.
func (h *Hub) readPump(ctx context.Context, w *player.Watcher) {
	defer func() {
		select {
		case h.unregister <- w:
		case <-h.done:
		}
	}()

	for {
		if _, _, err := w.Conn.ReadMessage(); err != nil {
			slog.DebugContext(ctx, "Watcher connection closed", "watcher.id", w.ID, "game.id", w.GameID, "error", err)
			return
		}
	}
}

// addWatcher stores the watcher and sends it the current state. Run only.
func (h *Hub) addWatcher(ctx context.Context, w *player.Watcher) {
	set, ok := h.watchers[w.GameID]
	if !ok {
		set = make(map[*player.Watcher]bool)
		h.watchers[w.GameID] = set
	}
	set[w] = true
	h.setWatcherCount(w.GameID)
	slog.InfoContext(ctx, "Watcher registered", "watcher.id", w.ID, "game.id", w.GameID, "watchers.count", len(set))

	r, err := h.Room(ctx, w.GameID)
	if err != nil {
		h.send(ctx, w, &proto.ServerToClientMessage{Type: proto.TypeError, GameID: w.GameID, Reason: err.Error()})
		return
	}
	st := r.State()
	h.send(ctx, w, &proto.ServerToClientMessage{
		Type:          proto.TypeState,
		GameID:        w.GameID,
		Board:         st.Board,
		CurrentPlayer: st.CurrentPlayer,
		GameState:     st.GameState,
		Winner:        winnerMark(st.Winner),
	})
}

// removeWatcher forgets the watcher and stops its write pump, which closes
// the connection once the queued messages are written. Run only.
func (h *Hub) removeWatcher(w *player.Watcher) {
	set, ok := h.watchers[w.GameID]
	if !ok || !set[w] {
		return
	}
	delete(set, w)
	if len(set) == 0 {
		delete(h.watchers, w.GameID)
	}
	h.setWatcherCount(w.GameID)
	w.Close()
	slog.Info("Watcher unregistered", "watcher.id", w.ID, "game.id", w.GameID)
}

// closeWatchers drops every watcher. Run only.
func (h *Hub) closeWatchers() {
	for _, set := range h.watchers {
		for w := range set {
			h.removeWatcher(w)
		}
	}
}

// WatcherCount returns the number of watchers of gameID.
func (h *Hub) WatcherCount(gameID string) int {
	h.countMu.RLock()
	defer h.countMu.RUnlock()
	return h.watcherCounts[gameID]
}

// setWatcherCount mirrors the size of the watcher set of gameID. Run only.
func (h *Hub) setWatcherCount(gameID string) {
	h.countMu.Lock()
	defer h.countMu.Unlock()
	if n := len(h.watchers[gameID]); n > 0 {
		h.watcherCounts[gameID] = n
	} else {
		delete(h.watcherCounts, gameID)
	}
}
