// Package session keeps the active view of each viewing session. A session pins
// the graph it was created with, so a data reload never changes what an open
// client is looking at.
package session

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/stockgraph/core/internal/filter"
	"github.com/stockgraph/core/internal/models"
)

// ErrNotFound is returned for an unknown session id.
var ErrNotFound = errors.New("session not found")

// Session holds one client's graph and active view.
type Session struct {
	ID      string
	Created time.Time

	graph  *models.Graph
	strict bool

	mu     sync.RWMutex
	active models.View
}

// Snapshot is the JSON form of a session.
type Snapshot struct {
	ID       string        `json:"id"`
	Created  string        `json:"created"`
	Filtered bool          `json:"filtered"`
	View     models.View   `json:"view"`
	Stats    *models.Stats `json:"stats,omitempty"`
}

func (s *Session) Graph() *models.Graph {
	return s.graph
}

// Active returns the current view.
func (s *Session) Active() models.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

// Filtered reports whether the active view is narrower than the full graph.
func (s *Session) Filtered() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filtered()
}

func (s *Session) filtered() bool {
	return len(s.active.Nodes) < len(s.graph.Nodes)
}

// Focus replaces the active view with the focus view of the full graph. Focus
// never narrows an already filtered view. Outside strict mode only an unknown
// focus kind is an error; an empty value gives the empty view.
func (s *Session) Focus(focus models.Focus) (models.View, error) {
	view, err := s.apply(focus)
	if err != nil {
		return models.View{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = view
	return view, nil
}

// Toggle is the click policy: clicking while a filtered view is shown restores
// the full graph, otherwise the focus view is shown.
func (s *Session) Toggle(focus models.Focus) (models.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.filtered() {
		s.active = s.graph.View()
		return s.active, nil
	}

	view, err := s.apply(focus)
	if err != nil {
		return models.View{}, err
	}
	s.active = view
	return view, nil
}

// Clear restores the full graph.
func (s *Session) Clear() models.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = s.graph.View()
	return s.active
}

func (s *Session) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		ID:       s.ID,
		Created:  s.Created.UTC().Format(time.RFC3339),
		Filtered: s.filtered(),
		View:     s.active,
		Stats:    s.graph.Stats,
	}
}

func (s *Session) apply(focus models.Focus) (models.View, error) {
	if s.strict {
		return filter.ApplyStrict(s.graph, focus)
	}
	if err := focus.ValidateKind(); err != nil {
		return models.View{}, err
	}
	return filter.Apply(s.graph, focus), nil
}

// Store is a concurrency-safe registry of sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	strict   bool
	now      func() time.Time
}

type Option func(*Store)

// WithStrictFocus makes focus operations fail with filter.ErrNotFound when the
// focus matches nothing.
func WithStrictFocus(strict bool) Option {
	return func(s *Store) {
		s.strict = strict
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		sessions: make(map[string]*Session),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create starts a session on g showing the full graph.
func (s *Store) Create(g *models.Graph) *Session {
	sess := &Session{
		ID:      uuid.NewString(),
		Created: s.now(),
		graph:   g,
		strict:  s.strict,
		active:  g.View(),
	}

	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return sess, nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	delete(s.sessions, id)
	return nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Expire removes sessions created before the cutoff and returns how many were
// removed.
func (s *Store) Expire(before time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.Created.Before(before) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}
