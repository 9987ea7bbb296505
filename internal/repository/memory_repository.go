package repository

import (
	"context"
	"sort"
	"sync"
)

type memoryGameRepository struct {
	mu    sync.RWMutex
	games map[string][]byte
}

// NewMemoryGameRepository creates a GameRepository kept in process memory.
// Games are stored encoded so callers never share state with the store.
func NewMemoryGameRepository() GameRepository {
	return &memoryGameRepository{games: make(map[string][]byte)}
}

func (r *memoryGameRepository) Save(ctx context.Context, g *StoredGame) error {
	_, span := tracer.Start(ctx, "MemoryGameRepository.Save")
	defer span.End()

	data, err := encodeGame(g)
	if err != nil {
		return err
	}

	r.mu.Lock()
	r.games[g.ID] = data
	r.mu.Unlock()
	return nil
}

func (r *memoryGameRepository) FindByID(ctx context.Context, id string) (*StoredGame, error) {
	_, span := tracer.Start(ctx, "MemoryGameRepository.FindByID")
	defer span.End()

	r.mu.RLock()
	data, ok := r.games[id]
	r.mu.RUnlock()
	if !ok {
		return nil, ErrGameNotFound
	}
	return decodeGame(id, data)
}

func (r *memoryGameRepository) Delete(ctx context.Context, id string) error {
	_, span := tracer.Start(ctx, "MemoryGameRepository.Delete")
	defer span.End()

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.games[id]; !ok {
		return ErrGameNotFound
	}
	delete(r.games, id)
	return nil
}

func (r *memoryGameRepository) List(ctx context.Context) ([]string, error) {
	_, span := tracer.Start(ctx, "MemoryGameRepository.List")
	defer span.End()

	r.mu.RLock()
	ids := make([]string, 0, len(r.games))
	for id := range r.games {
		ids = append(ids, id)
	}
	r.mu.RUnlock()

	sort.Strings(ids)
	return ids, nil
}
