// internal/store/memory.go
//
// In-memory registry of game sessions for the HTTP adapter.
//
// Characteristics:
//   - Sessions keyed by ID in a map guarded by an RWMutex.
//   - Each Session carries its own mutex: one mutator per game at a time.
//   - State is lost when the process restarts (sessions are never persisted).

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robalobadob/wordgrid/internal/game"
)

// ErrNotFound is returned for unknown session IDs.
var ErrNotFound = errors.New("store: session not found")

// Session owns one game engine.
type Session struct {
	mu        sync.Mutex
	ID        string
	Daily     string // YYYY-MM-DD when opened with daily words
	Round     int    // bumped by every reset; (ID, Round) names one played game
	CreatedAt time.Time
	UpdatedAt time.Time
	engine    *game.Engine
	recorded  bool
	now       func() time.Time
}

// NewSession wraps e under a fresh ID. now stamps CreatedAt/UpdatedAt;
// nil means time.Now.
func NewSession(e *game.Engine, now func() time.Time) *Session {
	if now == nil {
		now = time.Now
	}
	t := now().UTC()
	return &Session{ID: game.NewID(), engine: e, CreatedAt: t, UpdatedAt: t, now: now}
}

// With runs fn while holding the session lock.
func (s *Session) With(fn func(e *game.Engine) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.engine)
	s.UpdatedAt = s.now().UTC()
	return err
}

// MarkRecorded reports whether this is the first call since the current
// round ended; used so a finished game is logged once. Call inside With.
func (s *Session) MarkRecorded() bool {
	if s.recorded {
		return false
	}
	s.recorded = true
	return true
}

// NextRound starts a new round after a reset: the recorded flag and the
// daily tag are cleared. Call inside With.
func (s *Session) NextRound() {
	s.Round++
	s.recorded = false
	s.Daily = ""
}

// Store defines the persistence interface for sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// Prune drops sessions not updated since cutoff and returns how many.
	Prune(ctx context.Context, cutoff time.Time) int
	Len() int
}

type memory struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*Session)}
}

func (m *memory) Save(ctx context.Context, s *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = s
	return nil
}

func (m *memory) Get(ctx context.Context, id string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[id]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, id)
	return nil
}

func (m *memory) Prune(ctx context.Context, cutoff time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		s.mu.Lock()
		stale := s.UpdatedAt.Before(cutoff)
		s.mu.Unlock()
		if stale {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
