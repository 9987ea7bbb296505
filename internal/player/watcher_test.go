package player

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingConn struct {
	mu        sync.Mutex
	written   []string
	deadlines int
	closed    bool
	failWrite bool
}

func (c *recordingConn) WriteMessage(_ int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failWrite {
		return errors.New("broken pipe")
	}
	c.written = append(c.written, string(data))
	return nil
}

func (c *recordingConn) ReadMessage() (int, []byte, error) {
	return 0, nil, errors.New("not readable")
}

func (c *recordingConn) SetWriteDeadline(time.Time) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.deadlines++
	return nil
}

func (c *recordingConn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

func waitDone(t *testing.T, w *Watcher) {
	t.Helper()
	select {
	case <-w.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("write pump did not stop")
	}
}

func TestWatcherEnqueueIsBounded(t *testing.T) {
	w := NewWatcher("w1", "g1", &recordingConn{})
	for i := 0; i < sendBufferSize; i++ {
		require.True(t, w.Enqueue([]byte("msg")))
	}
	assert.False(t, w.Enqueue([]byte("one too many")))
}

func TestWatcherWritePumpDrainsThenCloses(t *testing.T) {
	conn := &recordingConn{}
	w := NewWatcher("w1", "g1", conn)
	require.True(t, w.Enqueue([]byte("first")))
	require.True(t, w.Enqueue([]byte("second")))
	w.Close()
	w.Close()

	go w.WritePump()
	waitDone(t, w)

	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.Equal(t, []string{"first", "second"}, conn.written)
	assert.Equal(t, 2, conn.deadlines)
	assert.True(t, conn.closed)
}

func TestWatcherWritePumpStopsOnWriteError(t *testing.T) {
	conn := &recordingConn{failWrite: true}
	w := NewWatcher("w1", "g1", conn)
	go w.WritePump()
	require.True(t, w.Enqueue([]byte("lost")))
	waitDone(t, w)

	conn.mu.Lock()
	defer conn.mu.Unlock()
	assert.True(t, conn.closed)
	assert.Empty(t, conn.written)
}
