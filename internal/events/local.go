package events

import (
	"context"
	"log/slog"
	"sync"
)

const subscriberBuffer = 64

// LocalBroker fans events out to subscribers in the same process. A
// subscriber that falls behind loses events instead of blocking publishers.
type LocalBroker struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]chan Event
}

// NewLocalBroker creates an in-process broker.
func NewLocalBroker() *LocalBroker {
	return &LocalBroker{subs: make(map[int]chan Event)}
}

func (b *LocalBroker) Publish(ctx context.Context, event Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for id, ch := range b.subs {
		select {
		case ch <- event:
		default:
			slog.WarnContext(ctx, "Dropping event for slow subscriber", "subscriber.id", id, "event.type", event.Type)
		}
	}
	return nil
}

func (b *LocalBroker) Subscribe(ctx context.Context) (<-chan Event, func(), error) {
	ch := make(chan Event, subscriberBuffer)

	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = ch
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
			close(ch)
		})
	}

	context.AfterFunc(ctx, cancel)

	return ch, cancel, nil
}
