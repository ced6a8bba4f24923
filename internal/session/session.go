// Package session keeps ephemeral per-user conversation state in memory.
// Sessions are never persisted; a process restart drops all of them.
package session

import "sync"

// State identifies a step of the intake conversation.
type State string

// StateIdle indicates there is no active conversation with the user.
const StateIdle State = "idle"

// Session stores the conversation stage and data accumulated so far.
// PendingLink is set only between the link and amount steps.
type Session struct {
	State       State
	PendingLink string
}

// Store holds sessions keyed by user id.
//
// Update runs its closure under the store lock, so a read-modify-write
// transition observed by one update cannot interleave with another for the
// same user. Callers decide side effects inside the closure and execute them
// after Update returns.
type Store interface {
	Get(userID int64) Session
	Update(userID int64, fn func(*Session))
	Clear(userID int64)
	InProgress(userID int64) bool
}

type memoryStore struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
}

// NewMemoryStore constructs the in-memory Store implementation.
func NewMemoryStore() Store {
	return &memoryStore{sessions: make(map[int64]*Session)}
}

// Get returns a copy of the user's session, or an idle session if none exists.
func (m *memoryStore) Get(userID int64) Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if s, ok := m.sessions[userID]; ok {
		return *s
	}
	return Session{State: StateIdle}
}

// Update applies fn to the user's session atomically. A session left idle with
// no pending data is removed, so an absent session and an idle one stay
// indistinguishable.
func (m *memoryStore) Update(userID int64, fn func(*Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{State: StateIdle}
	}
	fn(s)
	if s.State == StateIdle && s.PendingLink == "" {
		delete(m.sessions, userID)
		return
	}
	if !ok {
		m.sessions[userID] = s
	}
}

// Clear removes the session for a user.
func (m *memoryStore) Clear(userID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// InProgress reports whether the user has an active non-idle session.
func (m *memoryStore) InProgress(userID int64) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[userID]
	return ok && s.State != StateIdle
}
