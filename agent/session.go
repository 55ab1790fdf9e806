package agent

import (
	"strings"
	"sync"
	"time"
)

// Session carries verification state across the turns of one conversation.
// A session is never rolled back to unverified by the core; expiry is an
// external policy.
type Session struct {
	ID         string
	Verified   bool
	CustomerID string
	UpdatedAt  time.Time
}

// SessionStore is the shared, keyed mutable session state. Concurrent
// writes for the same id are last-writer-wins; verification is idempotent
// so this is acceptable.
type SessionStore struct {
	mu sync.Mutex
	m  map[string]*Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{m: make(map[string]*Session)}
}

// Get returns the session for id, creating an unverified one on first
// reference.
func (ss *SessionStore) Get(id string) Session {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	if s, ok := ss.m[id]; ok {
		return *s
	}
	s := &Session{ID: id, UpdatedAt: time.Now()}
	ss.m[id] = s
	return *s
}

// MarkVerified binds a customer id to the session and flips it to verified.
func (ss *SessionStore) MarkVerified(id, customerID string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()

	now := time.Now()
	if s, ok := ss.m[id]; ok {
		s.Verified = true
		s.CustomerID = strings.TrimSpace(customerID)
		s.UpdatedAt = now
		return
	}
	ss.m[id] = &Session{ID: id, Verified: true, CustomerID: strings.TrimSpace(customerID), UpdatedAt: now}
}

// Len returns the number of live sessions.
func (ss *SessionStore) Len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.m)
}
