package session

import (
	"crypto/rand"
	"encoding/base64"
	"sync"
	"time"

	"github.com/google/uuid"
)

// DefaultTTL is how long an idle session stays valid
const DefaultTTL = 7 * 24 * time.Hour

type entry struct {
	userID  uuid.UUID
	expires time.Time
}

// Store maps session tokens to signed-in users and expires idle ones
type Store struct {
	mu       sync.RWMutex
	sessions map[string]entry
	ttl      time.Duration
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewStore creates a new session store with the given TTL
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &Store{
		sessions: make(map[string]entry),
		ttl:      ttl,
		done:     make(chan struct{}),
	}
	s.wg.Add(1)
	go s.cleanup()
	return s
}

// Create starts a session for userID and returns its token
func (s *Store) Create(userID uuid.UUID) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := base64.URLEncoding.EncodeToString(b)

	s.mu.Lock()
	s.sessions[token] = entry{userID: userID, expires: time.Now().Add(s.ttl)}
	s.mu.Unlock()

	return token, nil
}

// Lookup returns the user of a live session
func (s *Store) Lookup(token string) (uuid.UUID, bool) {
	s.mu.RLock()
	e, exists := s.sessions[token]
	s.mu.RUnlock()

	if !exists || !time.Now().Before(e.expires) {
		return uuid.Nil, false
	}
	return e.userID, true
}

// Delete removes a session token
func (s *Store) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Refresh extends the expiration of a valid token
func (s *Store) Refresh(token string) {
	s.mu.Lock()
	if e, exists := s.sessions[token]; exists && time.Now().Before(e.expires) {
		e.expires = time.Now().Add(s.ttl)
		s.sessions[token] = e
	}
	s.mu.Unlock()
}

// cleanup periodically removes expired sessions
func (s *Store) cleanup() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			now := time.Now()
			s.mu.Lock()
			for token, e := range s.sessions {
				if now.After(e.expires) {
					delete(s.sessions, token)
				}
			}
			s.mu.Unlock()
		}
	}
}

// Close signals the cleanup goroutine to stop and waits for it to finish
func (s *Store) Close() {
	close(s.done)
	s.wg.Wait()
}
