// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package auth

import (
	"time"

	"github.com/google/uuid"
)

// DefaultSessionTTL is how long a session stays live after issuance unless
// configured otherwise.
const DefaultSessionTTL = 24 * time.Hour

// Session maps an opaque token to an account for the duration of its TTL.
// Tokens are random 128-bit UUIDs carried in a cookie as plain text.
type Session struct {
	Token    uuid.UUID
	UserID   int64
	IssuedAt time.Time
	TTL      time.Duration
}

// IsLiveAt reports whether the session is still live at the given instant.
// A session is live strictly before IssuedAt+TTL and dead at or after it.
func (s *Session) IsLiveAt(t time.Time) bool {
	return t.Before(s.IssuedAt.Add(s.TTL))
}

// SessionStore issues and validates session tokens. Implementations must
// support concurrent validation from many request goroutines.
type SessionStore interface {
	// Create issues a fresh token for the user and registers it.
	Create(userID int64) (uuid.UUID, error)

	// Validate resolves a token to the owning user ID. It enforces
	// liveness: an expired token is reported as invalid, identically to an
	// unknown one.
	Validate(token uuid.UUID) (int64, bool)
}
