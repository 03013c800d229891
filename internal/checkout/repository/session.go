package repository

import (
	"sync"
	"time"

	"glowbook/pkg/model"
)

// SessionStore holds checkout sessions for the duration of a checkout plus a
// confirmation-read grace period.
type SessionStore interface {
	Get(id string) (*model.CheckoutSession, bool)
	Save(session *model.CheckoutSession)
	Stop()
}

type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*model.CheckoutSession
	ttl      time.Duration
	stopCh   chan struct{}
}

func NewMemorySessionStore(ttl time.Duration) SessionStore {
	store := &memorySessionStore{
		sessions: make(map[string]*model.CheckoutSession),
		ttl:      ttl,
		stopCh:   make(chan struct{}),
	}

	go store.cleanup()

	return store
}

func (s *memorySessionStore) Get(id string) (*model.CheckoutSession, bool) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}

	if time.Now().After(session.ExpiresAt) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, false
	}

	copied := *session
	return &copied, true
}

func (s *memorySessionStore) Save(session *model.CheckoutSession) {
	s.mu.Lock()
	defer s.mu.Unlock()

	copied := *session
	copied.ExpiresAt = time.Now().Add(s.ttl)
	s.sessions[session.ID] = &copied
}

func (s *memorySessionStore) cleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for id, session := range s.sessions {
				if now.After(session.ExpiresAt) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		case <-s.stopCh:
			return
		}
	}
}

func (s *memorySessionStore) Stop() {
	close(s.stopCh)
}
