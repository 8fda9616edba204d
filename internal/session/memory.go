package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	state     TabState
	expiresAt time.Time
}

// MemoryStore is the single-process Store used when Redis is not available.
type MemoryStore struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	nextSweep time.Time
	tabs      map[string]map[string]memoryEntry // session -> agent -> entry
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		ttl:  ttl,
		now:  time.Now,
		tabs: make(map[string]map[string]memoryEntry),
	}
}

func (s *MemoryStore) Get(_ context.Context, sessionID, agentID string) (TabState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.tabs[sessionID][agentID]
	if !ok {
		return TabState{}, ErrNotFound
	}
	now := s.now()
	if now.After(entry.expiresAt) {
		s.deleteLocked(sessionID, agentID)
		return TabState{}, ErrNotFound
	}
	entry.expiresAt = now.Add(s.ttl)
	s.tabs[sessionID][agentID] = entry
	return entry.state, nil
}

func (s *MemoryStore) Put(_ context.Context, sessionID string, state TabState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	// Sweep expired sessions at most once per ttl.
	if !now.Before(s.nextSweep) {
		s.pruneLocked(now)
		s.nextSweep = now.Add(s.ttl)
	}
	if state.UpdatedAt.IsZero() {
		state.UpdatedAt = now.UTC()
	}
	tabs, ok := s.tabs[sessionID]
	if !ok {
		tabs = make(map[string]memoryEntry)
		s.tabs[sessionID] = tabs
	}
	tabs[state.AgentID] = memoryEntry{state: state, expiresAt: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Clear(_ context.Context, sessionID, agentID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteLocked(sessionID, agentID)
	return nil
}

func (s *MemoryStore) ClearAll(_ context.Context, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tabs, sessionID)
	return nil
}

// ActiveSessions also drops expired entries.
func (s *MemoryStore) ActiveSessions(_ context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pruneLocked(s.now())
	return len(s.tabs), nil
}

func (s *MemoryStore) pruneLocked(now time.Time) {
	for sid, tabs := range s.tabs {
		for agentID, entry := range tabs {
			if now.After(entry.expiresAt) {
				delete(tabs, agentID)
			}
		}
		if len(tabs) == 0 {
			delete(s.tabs, sid)
		}
	}
}

func (s *MemoryStore) deleteLocked(sessionID, agentID string) {
	tabs, ok := s.tabs[sessionID]
	if !ok {
		return
	}
	delete(tabs, agentID)
	if len(tabs) == 0 {
		delete(s.tabs, sessionID)
	}
}
