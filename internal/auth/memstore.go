// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package auth

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// MemorySessionStore is an in-process SessionStore: a mutex-guarded map from
// token to session. Validation takes the read lock so concurrent requests do
// not serialize; creation and eviction take the write lock.
type MemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemorySessionStore creates an empty store whose sessions live for ttl.
// A non-positive ttl falls back to DefaultSessionTTL.
func NewMemorySessionStore(ttl time.Duration) *MemorySessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemorySessionStore{
		sessions: make(map[uuid.UUID]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create issues a fresh random 128-bit token for the user and registers it.
func (s *MemorySessionStore) Create(userID int64) (uuid.UUID, error) {
	token, err := uuid.NewRandom()
	if err != nil {
		return uuid.Nil, oops.Code("SESSION_TOKEN_GENERATE_FAILED").
			With("operation", "uuid.NewRandom").
			Wrap(err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Collision is vanishingly unlikely for random UUIDs; refusing is
	// cheaper than silently adopting another user's token.
	if _, exists := s.sessions[token]; exists {
		return uuid.Nil, oops.Code("SESSION_TOKEN_COLLISION").
			Errorf("generated token already registered")
	}

	s.sessions[token] = &Session{
		Token:    token,
		UserID:   userID,
		IssuedAt: s.now(),
		TTL:      s.ttl,
	}
	return token, nil
}

// Validate resolves a token to its user ID, enforcing liveness. Unknown and
// expired tokens are indistinguishable to the caller.
func (s *MemorySessionStore) Validate(token uuid.UUID) (int64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, exists := s.sessions[token]
	if !exists || !session.IsLiveAt(s.now()) {
		return 0, false
	}
	return session.UserID, true
}

// Len returns the number of registered sessions, expired entries included.
func (s *MemorySessionStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// DeleteExpired evicts every session past its TTL and returns the count.
func (s *MemorySessionStore) DeleteExpired() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for token, session := range s.sessions {
		if !session.IsLiveAt(now) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// SweepLoop evicts expired sessions every interval until ctx is cancelled.
// Without it the map grows without bound, since expiry is otherwise only
// evaluated lazily at validation time. The optional swept callback receives
// the eviction count of each pass.
func (s *MemorySessionStore) SweepLoop(ctx context.Context, interval time.Duration, swept func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n := s.DeleteExpired()
			if n > 0 {
				slog.Debug("swept expired sessions", "count", n, "remaining", s.Len())
			}
			if swept != nil {
				swept(n)
			}
		}
	}
}
