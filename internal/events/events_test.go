package events

import (
	"context"
	"ctchen222/Hex/internal/game"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestNewEventAndDecode(t *testing.T) {
	ev, err := NewEvent(MoveMade, "g1", MoveMadePayload{Row: 1, Col: 2, Mark: game.PlayerA, GameState: game.InProgress})
	require.NoError(t, err)
	assert.Equal(t, MoveMade, ev.Type)
	assert.Equal(t, "g1", ev.GameID)
	assert.False(t, ev.Timestamp.IsZero())

	var p MoveMadePayload
	require.NoError(t, ev.Decode(&p))
	assert.Equal(t, 2, p.Col)

	ev, err = NewEvent(GameDeleted, "g1", nil)
	require.NoError(t, err)
	assert.Nil(t, ev.Payload)
}

// exerciseBroker checks delivery to several subscribers and cancellation.
func exerciseBroker(t *testing.T, b Broker) {
	ctx := context.Background()
	ch1, cancel1, err := b.Subscribe(ctx)
	require.NoError(t, err)
	ch2, cancel2, err := b.Subscribe(ctx)
	require.NoError(t, err)
	defer cancel2()

	ev, err := NewEvent(GameCreated, "g1", GameCreatedPayload{BoardSize: 7})
	require.NoError(t, err)
	require.NoError(t, b.Publish(ctx, ev))

	for _, ch := range []<-chan Event{ch1, ch2} {
		got := receive(t, ch)
		assert.Equal(t, GameCreated, got.Type)
		assert.Equal(t, "g1", got.GameID)
		var p GameCreatedPayload
		require.NoError(t, got.Decode(&p))
		assert.Equal(t, 7, p.BoardSize)
	}

	cancel1()
	cancel1()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch1:
			return !ok
		default:
			return false
		}
	}, 5*time.Second, 10*time.Millisecond)
}

func TestLocalBroker(t *testing.T) {
	exerciseBroker(t, NewLocalBroker())
}

func TestLocalBrokerContextCancel(t *testing.T) {
	b := NewLocalBroker()
	ctx, cancel := context.WithCancel(context.Background())
	ch, _, err := b.Subscribe(ctx)
	require.NoError(t, err)

	cancel()
	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
	assert.NoError(t, b.Publish(context.Background(), Event{Type: GameDeleted}))
}

func TestLocalBrokerSlowSubscriber(t *testing.T) {
	b := NewLocalBroker()
	_, cancel, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	defer cancel()

	for i := 0; i < subscriberBuffer*2; i++ {
		require.NoError(t, b.Publish(context.Background(), Event{Type: MoveMade}))
	}
}

func TestRedisBroker(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping redis container test in short mode")
	}
	ctx := context.Background()
	ctr, err := tcredis.Run(ctx, "redis:7-alpine")
	if err != nil {
		t.Skipf("redis container unavailable: %v", err)
	}
	t.Cleanup(func() { testcontainers.TerminateContainer(ctr) })

	uri, err := ctr.ConnectionString(ctx)
	require.NoError(t, err)
	opts, err := redis.ParseURL(uri)
	require.NoError(t, err)
	rdb := redis.NewClient(opts)
	t.Cleanup(func() { rdb.Close() })

	exerciseBroker(t, NewRedisBroker(rdb))
}
