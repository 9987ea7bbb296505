package player

import (
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	// writeWait is the time allowed to write one message to a watcher.
	writeWait = 10 * time.Second

	// sendBufferSize is how many messages may wait for a slow watcher.
	sendBufferSize = 16
)

// Connection is an interface that abstracts the websocket connection.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (int, []byte, error)
	SetWriteDeadline(t time.Time) error
	Close() error
}

// Watcher is a read-only subscriber to the updates of one game. Messages are
// queued with Enqueue and written by WritePump.
type Watcher struct {
	ID     string
	GameID string
	Conn   Connection

	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

// NewWatcher creates a watcher of gameID over conn.
func NewWatcher(id, gameID string, conn Connection) *Watcher {
	return &Watcher{
		ID:     id,
		GameID: gameID,
		Conn:   conn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

// Enqueue queues data for the watcher without blocking. It returns false
// when the buffer is full.
func (w *Watcher) Enqueue(data []byte) bool {
	select {
	case w.send <- data:
		return true
	default:
		return false
	}
}

// Close stops the watcher. Queued messages are still written before
// WritePump closes the connection. Only the owner of the watcher may call
// Close, and Enqueue must not be called afterwards.
func (w *Watcher) Close() {
	w.closeOnce.Do(func() { close(w.send) })
}

// Done is closed once WritePump has returned.
func (w *Watcher) Done() <-chan struct{} {
	return w.done
}

// WritePump writes queued messages to the connection until Close is called
// or a write fails, then closes the connection.
func (w *Watcher) WritePump() {
	defer close(w.done)
	defer func() {
		if err := w.Conn.Close(); err != nil {
			slog.Debug("Error closing watcher connection", "watcher.id", w.ID, "error", err)
		}
	}()

	for data := range w.send {
		if err := w.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			slog.Warn("error setting watcher write deadline", "watcher.id", w.ID, "game.id", w.GameID, "error", err)
			return
		}
		if err := w.Conn.WriteMessage(websocket.TextMessage, data); err != nil {
			slog.Warn("error writing message to watcher", "watcher.id", w.ID, "game.id", w.GameID, "error", err)
			return
		}
	}
}
