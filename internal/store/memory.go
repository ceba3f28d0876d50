// internal/store/memory.go
//
// In-memory implementation of the engine Store interface.
// Each player (logged-in user or anonymous cookie holder) owns exactly one
// engine, which carries their current session and running score ledger.
//
// Characteristics:
//   - Stores *game.Engine values keyed by owner ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - State is lost when the process restarts.
//   - ErrNotFound is returned for unknown owners on Get().

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/mkay81/numquest/internal/game"
)

// ErrNotFound is returned by Get for owners with no engine yet.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for player engines.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates an owner's engine.
	Save(ctx context.Context, owner string, e *game.Engine) error

	// Get retrieves the engine for an owner.
	// Returns ErrNotFound if the owner has never played.
	Get(ctx context.Context, owner string) (*game.Engine, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex            // guards engines map
	engines map[string]*game.Engine // keyed by owner ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{engines: make(map[string]*game.Engine)}
}

// Save adds or updates the engine in the map.
func (m *memory) Save(ctx context.Context, owner string, e *game.Engine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.engines[owner] = e
	return nil
}

// Get looks up an engine by owner ID.
func (m *memory) Get(ctx context.Context, owner string) (*game.Engine, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.engines[owner]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}
