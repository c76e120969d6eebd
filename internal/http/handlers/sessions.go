package handlers

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/glamora-hn/booking-engine/internal/booking"
	"github.com/glamora-hn/booking-engine/internal/catalog"
)

// Session binds one booking workflow to one authenticated user. The catalog
// snapshot taken at session start rides along so every step of the flow sees
// the same services and prices.
type Session struct {
	ID        string
	UserID    string
	Workflow  *booking.Workflow
	Services  []catalog.ServiceOffering
	CreatedAt time.Time
}

// ServiceByID finds a service in the session's catalog snapshot.
func (s *Session) ServiceByID(id string) (catalog.ServiceOffering, bool) {
	for _, svc := range s.Services {
		if svc.ID == id {
			return svc, true
		}
	}
	return catalog.ServiceOffering{}, false
}

// SessionStore is an in-memory session repository with a TTL. Expired
// sessions are dropped lazily on read and in bulk by Sweep.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	expiry   map[string]time.Time
	ttl      time.Duration

	now func() time.Time
}

// NewSessionStore creates a store whose sessions expire ttl after their last
// touch.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
		expiry:   make(map[string]time.Time),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create registers a new session for the user.
func (s *SessionStore) Create(userID string, wf *booking.Workflow, services []catalog.ServiceOffering) *Session {
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Workflow:  wf,
		Services:  services,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.expiry[sess.ID] = s.now().Add(s.ttl)
	s.mu.Unlock()
	return sess
}

// Get returns a live session and extends its TTL. Expired sessions read as
// absent.
func (s *SessionStore) Get(id string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.now().After(s.expiry[id]) {
		delete(s.sessions, id)
		delete(s.expiry, id)
		return nil, false
	}
	s.expiry[id] = s.now().Add(s.ttl)
	return sess, true
}

// Delete removes a session.
func (s *SessionStore) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	delete(s.expiry, id)
	s.mu.Unlock()
}

// Sweep drops all expired sessions and reports how many were removed.
func (s *SessionStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	removed := 0
	for id, deadline := range s.expiry {
		if now.After(deadline) {
			delete(s.sessions, id)
			delete(s.expiry, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of live sessions, counting unexpired only.
func (s *SessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	now := s.now()
	n := 0
	for id := range s.sessions {
		if !now.After(s.expiry[id]) {
			n++
		}
	}
	return n
}
