// Package authstore holds the user's backend credential for the lifetime of
// a session. Tokens are kept in memory only with an expiry, and interested
// components can subscribe to changes instead of polling.
package authstore

import (
	"sync"
	"time"
)

// Store is a concurrency-safe holder for a single bearer token. The zero
// TTL means the token never expires on its own.
type Store struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time
	ttl       time.Duration
	nextID    int
	subs      map[int]func(token string)

	now func() time.Time
}

// New creates a store whose tokens expire ttl after each Set. Pass zero for
// no expiry.
func New(ttl time.Duration) *Store {
	return &Store{
		ttl:  ttl,
		subs: make(map[int]func(string)),
		now:  time.Now,
	}
}

// Token returns the current token, or "" when unset or expired. Expiry is
// lazy: the token is dropped the first time it is read past its deadline.
func (s *Store) Token() string {
	s.mu.RLock()
	token := s.token
	expired := token != "" && !s.expiresAt.IsZero() && s.now().After(s.expiresAt)
	s.mu.RUnlock()
	if !expired {
		return token
	}

	s.mu.Lock()
	if s.token != "" && !s.expiresAt.IsZero() && s.now().After(s.expiresAt) {
		s.token = ""
		s.expiresAt = time.Time{}
	}
	token = s.token
	s.mu.Unlock()
	if token == "" {
		s.notify("")
	}
	return token
}

// Set stores a token and restarts its TTL.
func (s *Store) Set(token string) {
	s.mu.Lock()
	s.token = token
	if s.ttl > 0 {
		s.expiresAt = s.now().Add(s.ttl)
	} else {
		s.expiresAt = time.Time{}
	}
	s.mu.Unlock()
	s.notify(token)
}

// Clear drops the token immediately.
func (s *Store) Clear() {
	s.mu.Lock()
	s.token = ""
	s.expiresAt = time.Time{}
	s.mu.Unlock()
	s.notify("")
}

// Subscribe registers fn to run on every token change. The returned func
// unsubscribes; it is safe to call more than once.
func (s *Store) Subscribe(fn func(token string)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) notify(token string) {
	s.mu.RLock()
	fns := make([]func(string), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.mu.RUnlock()
	for _, fn := range fns {
		fn(token)
	}
}
