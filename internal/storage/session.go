package storage

import (
	"sync"
	"time"

	"github.com/aliskhannn/quizdeck/internal/clock"
	"github.com/aliskhannn/quizdeck/internal/viewer"
)

type sessionEntry struct {
	mu       sync.Mutex
	viewer   *viewer.Viewer
	lastSeen time.Time
	removed  bool
}

// SessionStorage provides in-memory storage of viewers by session key.
// Each session is mutated by one caller at a time.
type SessionStorage struct {
	mu           sync.RWMutex
	sessions     map[string]*sessionEntry
	clock        clock.Clock
	defaultTopic string
}

// NewSessionStorage creates a new SessionStorage. New viewers use
// defaultTopic as their topic fallback.
func NewSessionStorage(clk clock.Clock, defaultTopic string) *SessionStorage {
	return &SessionStorage{
		sessions:     make(map[string]*sessionEntry),
		clock:        clk,
		defaultTopic: defaultTopic,
	}
}

// With runs fn with exclusive access to the viewer of key, creating a
// viewer on the catalog view if the key is new.
func (s *SessionStorage) With(key string, fn func(v *viewer.Viewer) error) error {
	for {
		entry := s.getOrCreate(key)

		entry.mu.Lock()
		if entry.removed {
			// Evicted between lookup and lock; start over with a fresh entry.
			entry.mu.Unlock()
			continue
		}
		entry.lastSeen = s.clock.Now()
		err := fn(entry.viewer)
		entry.mu.Unlock()

		return err
	}
}

// Peek runs fn with the viewer of key if it exists. fn may change the
// viewer; the call does not count as activity and never creates a session.
func (s *SessionStorage) Peek(key string, fn func(v *viewer.Viewer)) {
	s.mu.RLock()
	entry, ok := s.sessions[key]
	s.mu.RUnlock()
	if !ok {
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if !entry.removed {
		fn(entry.viewer)
	}
}

// Delete removes the session of key.
func (s *SessionStorage) Delete(key string) {
	s.mu.Lock()
	entry, ok := s.sessions[key]
	delete(s.sessions, key)
	s.mu.Unlock()

	if ok {
		entry.mu.Lock()
		entry.removed = true
		entry.mu.Unlock()
	}
}

// EvictIdle removes sessions last used before olderThan and returns how
// many were removed. Sessions in use are skipped.
func (s *SessionStorage) EvictIdle(olderThan time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	evicted := 0
	for key, entry := range s.sessions {
		if !entry.mu.TryLock() {
			continue
		}
		if entry.lastSeen.Before(olderThan) {
			entry.removed = true
			delete(s.sessions, key)
			evicted++
		}
		entry.mu.Unlock()
	}

	return evicted
}

// Len returns the number of stored sessions.
func (s *SessionStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

func (s *SessionStorage) getOrCreate(key string) *sessionEntry {
	s.mu.RLock()
	entry, ok := s.sessions[key]
	s.mu.RUnlock()
	if ok {
		return entry
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok = s.sessions[key]; ok {
		return entry
	}
	entry = &sessionEntry{
		viewer:   viewer.New(s.defaultTopic),
		lastSeen: s.clock.Now(),
	}
	s.sessions[key] = entry

	return entry
}
