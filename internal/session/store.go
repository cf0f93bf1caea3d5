package session

import (
	"context"
	"sync"
	"time"

	"haloscope/internal/explore"

	"github.com/google/uuid"
)

// CookieName carries the session id between requests
const CookieName = "haloscope_session"

type entry struct {
	view     explore.View
	lastSeen time.Time
}

// Store keeps one explorer view per client, keyed by a random uuid.
// Entries idle for longer than the TTL are evicted by Sweep.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	initial explore.View
	entries map[string]*entry
	now     func() time.Time
}

// NewStore creates a store whose new sessions start from initial
func NewStore(ttl time.Duration, initial explore.View) *Store {
	return &Store{
		ttl:     ttl,
		initial: initial,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Get returns the view of a session, starting a new session when id is
// empty, unknown or expired. The returned id is the one to hand back to the client.
func (s *Store) Get(id string) (string, explore.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(id)
	if e == nil {
		id = uuid.NewString()
		e = &entry{view: s.initial, lastSeen: s.now()}
		s.entries[id] = e
	}
	return id, e.view
}

// Update applies fn to the session's view and returns the result
func (s *Store) Update(id string, fn func(*explore.View)) (string, explore.View) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.touch(id)
	if e == nil {
		id = uuid.NewString()
		e = &entry{view: s.initial, lastSeen: s.now()}
		s.entries[id] = e
	}
	fn(&e.view)
	return id, e.view
}

// Reset puts a session back to the initial view
func (s *Store) Reset(id string) explore.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e := s.touch(id); e != nil {
		e.view = s.initial
	}
	return s.initial
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep evicts expired sessions and returns how many were removed
func (s *Store) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	removed := 0
	for id, e := range s.entries {
		if s.expired(e) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// Run sweeps on every interval until ctx is done
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

// touch must be called with mu held
func (s *Store) touch(id string) *entry {
	if id == "" {
		return nil
	}
	e, ok := s.entries[id]
	if !ok {
		return nil
	}
	if s.expired(e) {
		delete(s.entries, id)
		return nil
	}
	e.lastSeen = s.now()
	return e
}

func (s *Store) expired(e *entry) bool {
	return s.ttl > 0 && s.now().Sub(e.lastSeen) > s.ttl
}
