// Package session implements the server-side session used only by the
// logout flow. A session is a plain {sessionID -> userID} record; the
// session id travels in a cookie, never the user id.
package session

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("session not found")

// Store defines how server sessions are stored and retrieved
type Store interface {
	// Create establishes a session for a user and returns its id
	Create(userID string) (string, error)

	// Get resolves a session id to a user id
	Get(sessionID string) (string, error)

	// Delete terminates a session. Deleting an unknown id is not an error;
	// logout must succeed for already-expired sessions.
	Delete(sessionID string) error
}

// MemoryStore is a process-local, in-memory session store. Restarting the
// process invalidates all sessions; bearer tokens stay valid independently
// until they expire.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]string
}

// NewMemoryStore creates an empty in-memory session store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]string)}
}

func (s *MemoryStore) Create(userID string) (string, error) {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = userID
	s.mu.Unlock()
	return id, nil
}

func (s *MemoryStore) Get(sessionID string) (string, error) {
	s.mu.RLock()
	userID, ok := s.sessions[sessionID]
	s.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	return userID, nil
}

func (s *MemoryStore) Delete(sessionID string) error {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
	return nil
}
