package hub

import (
	"context"
	"ctchen222/Hex/internal/events"
	"ctchen222/Hex/internal/player"
	"ctchen222/Hex/internal/repository"
	"ctchen222/Hex/internal/room"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

var (
	tracer = otel.Tracer("hub")
	meter  = otel.Meter("hub")
)

var (
	ErrGameNotFound        = repository.ErrGameNotFound
	ErrGameFinished        = room.ErrGameFinished
	ErrNotComputerTurn     = room.ErrNotComputerTurn
	ErrBoardSizeOutOfRange = errors.New("board size out of range")
	ErrInvalidFilename     = errors.New("invalid file name")
)

// Options configure a Hub.
type Options struct {
	MaxGames     int
	MinBoardSize int
	MaxBoardSize int
	SaveDir      string
	StorageType  string
}

// Hub manages all game sessions: it keeps the active rooms in memory,
// persists them, publishes their events and feeds watchers.
type Hub struct {
	opts    Options
	repo    repository.GameRepository
	results repository.ResultRepository
	broker  events.Broker

	mu    sync.RWMutex
	rooms map[string]*room.Room

	// owned by Run
	watchers   map[string]map[*player.Watcher]bool
	register   chan *player.Watcher
	unregister chan *player.Watcher
	done       chan struct{}

	countMu       sync.RWMutex
	watcherCounts map[string]int

	gamesCreated metric.Int64Counter
}

// NewHub creates a new hub. Results may be nil, in which case finished games
// are not recorded.
func NewHub(opts Options, repo repository.GameRepository, results repository.ResultRepository, broker events.Broker) (*Hub, error) {
	if opts.MaxGames < 1 {
		return nil, fmt.Errorf("max games must be positive, got %d", opts.MaxGames)
	}
	counter, err := meter.Int64Counter("hex.games.created",
		metric.WithDescription("Games created or loaded"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create games counter: %w", err)
	}

	return &Hub{
		opts:          opts,
		repo:          repo,
		results:       results,
		broker:        broker,
		rooms:         make(map[string]*room.Room),
		watchers:      make(map[string]map[*player.Watcher]bool),
		register:      make(chan *player.Watcher),
		unregister:    make(chan *player.Watcher),
		done:          make(chan struct{}),
		watcherCounts: make(map[string]int),
		gamesCreated:  counter,
	}, nil
}

// Run serves watcher registration and forwards published events to the
// watchers of each game until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) error {
	evCh, cancel, err := h.broker.Subscribe(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to game events: %w", err)
	}
	defer cancel()
	defer close(h.done)

	slog.InfoContext(ctx, "Hub started", "storage.type", h.opts.StorageType, "max_games", h.opts.MaxGames)

	for {
		select {
		case <-ctx.Done():
			h.closeWatchers()
			slog.Info("Hub stopped")
			return nil

		case w := <-h.register:
			h.addWatcher(ctx, w)

		case w := <-h.unregister:
			h.removeWatcher(w)

		case ev, ok := <-evCh:
			if !ok {
				h.closeWatchers()
				return errors.New("game event subscription closed")
			}
			h.handleEvent(ctx, ev)
		}
	}
}
