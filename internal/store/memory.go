// apps/go-solver/internal/store/memory.go
//
// In-memory implementation of the solve-session Store interface, used by the
// API server. Sessions are ephemeral solving state, so durability is not
// required; state is lost when the process restarts.
//
// Characteristics:
//   - Stores *Solve objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Errors are returned for missing session IDs on Get().

package store

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/nerdle/apps/go-solver/internal/candidates"
	"github.com/robalobadob/nerdle/apps/go-solver/internal/session"
)

// ErrNotFound is returned by Get for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Solve is one API-driven solving session: its live candidate set and the
// feedback applied so far. The universe it was filtered down from is shared
// and never mutated.
type Solve struct {
	ID      string
	Live    *candidates.Set
	Steps   []session.Step
	Created time.Time
}

// Store defines the persistence interface for solve sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save persists or updates a session.
	Save(ctx context.Context, s *Solve) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*Solve, error)
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu     sync.RWMutex      // guards solves map
	solves map[string]*Solve // keyed by Solve.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{solves: make(map[string]*Solve)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *Solve) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.solves[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*Solve, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.solves[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// NewID returns a compact 16-hex-char identifier.
// Collisions are extremely unlikely given crypto/rand entropy.
func NewID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
