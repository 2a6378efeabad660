// Package cache provides lookup session storage backed by process memory or Redis.
package cache

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rastreo/backend/internal/domain/tracking"
)

// entry represents a stored session with expiration
type entry struct {
	session   tracking.Session
	expiresAt time.Time
}

// InMemorySessionStore implements SessionRepository using an in-memory map.
// This is suitable for single-instance deployments and testing
type InMemorySessionStore struct {
	mu        sync.RWMutex
	entries   map[uuid.UUID]entry
	ttl       time.Duration
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemorySessionStore creates a new in-memory session store.
// Sessions expire ttl after their last save; a non-positive ttl keeps them
// until deleted. It starts a background goroutine to clean up expired entries.
func NewInMemorySessionStore(ttl time.Duration) *InMemorySessionStore {
	store := &InMemorySessionStore{
		entries:  make(map[uuid.UUID]entry),
		ttl:      ttl,
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop()

	return store
}

// Save stores a copy of the session and refreshes its expiration
func (s *InMemorySessionStore) Save(ctx context.Context, session *tracking.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := entry{session: *session}
	if s.ttl > 0 {
		e.expiresAt = time.Now().Add(s.ttl)
	}
	s.entries[session.ID] = e
	return nil
}

// FindByID returns a copy of the session or ErrSessionNotFound
func (s *InMemorySessionStore) FindByID(ctx context.Context, id uuid.UUID) (*tracking.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.entries[id]
	if !exists || e.expired(time.Now()) {
		return nil, tracking.ErrSessionNotFound
	}

	session := e.session
	return &session, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (s *InMemorySessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.entries, id)
	return nil
}

// Ping always succeeds
func (s *InMemorySessionStore) Ping(context.Context) error {
	return nil
}

// Close stops the cleanup goroutine and releases resources.
// Safe to call multiple times
func (s *InMemorySessionStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (e entry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && now.After(e.expiresAt)
}

// cleanupLoop periodically removes expired entries
func (s *InMemorySessionStore) cleanupLoop() {
	defer s.wg.Done()

	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired entries from the store
func (s *InMemorySessionStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	for id, e := range s.entries {
		if e.expired(now) {
			delete(s.entries, id)
		}
	}
}

// Size returns the number of entries in the store (for testing/monitoring)
func (s *InMemorySessionStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Ensure InMemorySessionStore implements SessionRepository
var _ tracking.SessionRepository = (*InMemorySessionStore)(nil)
