package drivers

import (
	"context"
	"sync"
	"time"

	"github.com/creastat/docstore"
	"github.com/creastat/docstore/session"
)

// InMemoryStore implements session.Store using an in-memory map guarded by a
// read-write mutex.
type InMemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*session.Record
}

// NewInMemoryStore creates a new in-memory session store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		sessions: make(map[string]*session.Record),
	}
}

// Get implements session.Store.
// Returns nil if the session is not found (not an error).
func (s *InMemoryStore) Get(ctx context.Context, id string) (*session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.sessions == nil {
		return nil, session.ErrClosed
	}

	record, exists := s.sessions[id]
	if !exists {
		return nil, nil // Not found
	}

	cp := *record
	return &cp, nil
}

// Merge implements session.Store.
// Stored records are replaced, never modified in place, so copies handed
// out by Get stay consistent.
func (s *InMemoryStore) Merge(ctx context.Context, id string, token docstore.SessionToken) (*session.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.sessions == nil {
		return nil, session.ErrClosed
	}

	now := time.Now()

	stored, exists := s.sessions[id]
	if !exists {
		record := session.NewRecord(id, token, now)
		s.sessions[id] = record

		cp := *record
		return &cp, nil
	}

	record := *stored
	if record.Apply(token, now) {
		s.sessions[id] = &record
	}

	cp := record
	return &cp, nil
}

// Delete implements session.Store.
func (s *InMemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

// Close implements session.Store.
func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sessions = nil
	return nil
}

var _ session.Store = (*InMemoryStore)(nil)
