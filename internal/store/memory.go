// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Holds live game sessions for the HTTP host.
//
// Characteristics:
//   - Stores *session.Session objects keyed by ID in a map.
//   - Concurrency-safe via RWMutex (concurrent reads allowed, writes exclusive).
//   - Idle sessions are evicted by Sweep.
//   - Guest sessions move to an account through Claim.
//   - State is lost when the process restarts.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordbuff/internal/session"
)

// ErrNotFound is returned by Get for an unknown session ID.
var ErrNotFound = errors.New("store: session not found")

// Store defines the persistence interface for live sessions.
type Store interface {
	// Save persists or replaces a session.
	Save(ctx context.Context, s *session.Session) error

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*session.Session, error)

	// Sweep drops sessions idle since before cutoff and reports how many.
	Sweep(ctx context.Context, cutoff time.Time) (int, error)

	// Claim moves every session owned by from to the owner to.
	Claim(ctx context.Context, from, to string) (int, error)

	// Len reports the number of live sessions.
	Len() int
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex                // guards sessions map
	sessions map[string]*session.Session // keyed by Session.ID
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*session.Session)}
}

// Save adds or updates the session in the map.
func (m *memory) Save(ctx context.Context, s *session.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

// Get looks up a session by ID.
func (m *memory) Get(ctx context.Context, id string) (*session.Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

// Sweep removes sessions whose last activity is before cutoff.
//
// Reading a session's activity waits on that session's own lock, so the
// candidates are picked from a snapshot with the map unlocked. The write lock
// is only held for the deletes.
func (m *memory) Sweep(ctx context.Context, cutoff time.Time) (int, error) {
	var idle []*session.Session
	for _, s := range m.snapshot() {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if s.LastSeen().Before(cutoff) {
			idle = append(idle, s)
		}
	}
	if len(idle) == 0 {
		return 0, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, s := range idle {
		// Skip sessions replaced by Save since the snapshot.
		if m.sessions[s.ID] == s {
			delete(m.sessions, s.ID)
			n++
		}
	}
	return n, nil
}

// Claim hands every session owned by from over to to and reports how many moved.
func (m *memory) Claim(ctx context.Context, from, to string) (int, error) {
	if from == "" || to == "" || from == to {
		return 0, nil
	}
	n := 0
	for _, s := range m.snapshot() {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if s.Claim(from, to) {
			n++
		}
	}
	return n, nil
}

// snapshot copies the live sessions out so callers can take per-session
// locks without holding m.mu.
func (m *memory) snapshot() []*session.Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*session.Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, s)
	}
	return out
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
