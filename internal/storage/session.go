package storage

import (
	"sync"
)

// SessionStorage provides in-memory storage for live sessions keyed by chat ID.
type SessionStorage[V comparable] struct {
	mu       sync.RWMutex
	sessions map[int64]V
}

// NewSessionStorage creates a new SessionStorage.
func NewSessionStorage[V comparable]() *SessionStorage[V] {
	return &SessionStorage[V]{
		sessions: make(map[int64]V),
	}
}

// Store saves the session for chatID, replacing any previous one.
func (s *SessionStorage[V]) Store(chatID int64, session V) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[chatID] = session
}

// Get retrieves the session for chatID.
func (s *SessionStorage[V]) Get(chatID int64) (V, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.sessions[chatID]
	return v, ok
}

// Delete removes the session for chatID.
func (s *SessionStorage[V]) Delete(chatID int64) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.sessions[chatID]
	delete(s.sessions, chatID)
	return v, ok
}

// DeleteIf removes the session for chatID only if it is still session.
func (s *SessionStorage[V]) DeleteIf(chatID int64, session V) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.sessions[chatID]; !ok || cur != session {
		return false
	}
	delete(s.sessions, chatID)
	return true
}

// Drain removes and returns all sessions.
func (s *SessionStorage[V]) Drain() []V {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]V, 0, len(s.sessions))
	for id, v := range s.sessions {
		out = append(out, v)
		delete(s.sessions, id)
	}
	return out
}

// Len reports the number of stored sessions.
func (s *SessionStorage[V]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
