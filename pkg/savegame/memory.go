package savegame

import (
	"context"
	"sync"
)

// MemoryStore keeps saves in process memory
type MemoryStore struct {
	mu    sync.Mutex
	games map[string]*Game
}

// NewMemoryStore returns an empty MemoryStore
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{games: make(map[string]*Game)}
}

// Save stores a copy of the game
func (m *MemoryStore) Save(ctx context.Context, game *Game) error {
	if err := validate(game); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.games[game.Key] = game.clone()
	return nil
}

// Load returns a copy of the saved game
func (m *MemoryStore) Load(ctx context.Context, key string) (*Game, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	game, ok := m.games[key]
	if !ok {
		return nil, ErrNotFound
	}

	return game.clone(), nil
}

// Delete removes the save
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.games[key]; !ok {
		return ErrNotFound
	}

	delete(m.games, key)
	return nil
}
