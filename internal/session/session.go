// internal/session/session.go
//
// Single-owner wrapper around one game engine.
// Responsibilities:
//   - Serialise every engine call behind a mutex (the engines themselves are
//     not safe for concurrent use).
//   - Act as the host tick loop: before each call, feed the engine the
//     wall-clock time elapsed since the previous call.
//   - Record ownership and last activity for the store's idle sweep.
//   - Log the session's end once, whichever call (or tick) ended it.

package session

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/wordbuff/internal/cardgame"
	"github.com/robalobadob/wordbuff/internal/wordgrid"
)

// Kind names the engine a session drives.
type Kind string

const (
	KindCard Kind = "card"
	KindGrid Kind = "grid"
)

// ErrWrongKind is returned when a card call reaches a grid session or vice versa.
var ErrWrongKind = errors.New("session: wrong game kind")

// Session owns exactly one engine.
type Session struct {
	ID        string
	Kind      Kind
	Source    string // content ID the session was started from
	CreatedAt time.Time

	mu       sync.Mutex // guards everything below
	owner    string     // user ID or anonymous ID
	clock    Clock
	lastTick time.Time
	finished bool
	card     *cardgame.Engine
	grid     *wordgrid.Engine
}

// NewCard wraps a started card engine.
func NewCard(owner, source string, e *cardgame.Engine, clock Clock) *Session {
	s := newSession(KindCard, owner, source, clock)
	s.card = e
	return s
}

// NewGrid wraps a grid engine that already has its grid set.
func NewGrid(owner, source string, e *wordgrid.Engine, clock Clock) *Session {
	s := newSession(KindGrid, owner, source, clock)
	s.grid = e
	return s
}

func newSession(kind Kind, owner, source string, clock Clock) *Session {
	if clock == nil {
		clock = RealClock{}
	}
	now := clock.Now()
	return &Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Source:    source,
		CreatedAt: now,
		owner:     owner,
		clock:     clock,
		lastTick:  now,
	}
}

// Card advances the timer and runs fn with exclusive access to the card engine.
func (s *Session) Card(fn func(e *cardgame.Engine)) error {
	if s.Kind != KindCard {
		return ErrWrongKind
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.card.Tick(s.elapsed())
	fn(s.card)
	if s.card.Phase() == cardgame.GameOver {
		s.finish(s.card.State().Score)
	}
	return nil
}

// Grid advances the timer and runs fn with exclusive access to the grid engine.
func (s *Session) Grid(fn func(e *wordgrid.Engine)) error {
	if s.Kind != KindGrid {
		return ErrWrongKind
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grid.UpdateTimer(s.elapsed())
	fn(s.grid)
	if s.grid.GameOver() {
		s.finish(s.grid.State().Score)
	}
	return nil
}

// Owner reports who the session belongs to.
func (s *Session) Owner() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.owner
}

// OwnedBy reports whether id owns the session.
func (s *Session) OwnedBy(id string) bool {
	return id != "" && s.Owner() == id
}

// Claim hands the session from one owner to another. It reports false, and
// changes nothing, when from is not the current owner.
func (s *Session) Claim(from, to string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if from == "" || to == "" || s.owner != from {
		return false
	}
	s.owner = to
	return true
}

// Finished reports whether the engine has reached game over.
func (s *Session) Finished() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finished
}

// LastSeen reports the time of the most recent engine call.
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTick
}

// finish records and logs the end of the session the first time it is seen.
// Caller holds s.mu.
func (s *Session) finish(score int) {
	if s.finished {
		return
	}
	s.finished = true
	log.Info().Str("session", s.ID).Str("kind", string(s.Kind)).Str("source", s.Source).
		Int("score", score).Msg("session finished")
}

// elapsed returns seconds since the previous call and resets the mark.
// Caller holds s.mu.
func (s *Session) elapsed() float64 {
	now := s.clock.Now()
	d := now.Sub(s.lastTick).Seconds()
	s.lastTick = now
	return d
}
