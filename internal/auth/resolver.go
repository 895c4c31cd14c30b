// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package auth

import (
	"net/http"

	"github.com/google/uuid"
)

// DefaultCookieName is the cookie under which the session token travels.
const DefaultCookieName = "session_id"

// Identity is the outcome of per-request authentication: either anonymous or
// a concrete user.
type Identity struct {
	UserID        int64
	Authenticated bool
}

// Anonymous is the identity of an unauthenticated request.
var Anonymous = Identity{}

// Authenticated builds the identity of a logged-in user.
func Authenticated(userID int64) Identity {
	return Identity{UserID: userID, Authenticated: true}
}

// Resolver turns an inbound request into an Identity by reading the session
// cookie and validating its token. Resolution never fails the request: a
// missing cookie, an unparseable token, an unknown token, and an expired
// session all degrade to Anonymous.
type Resolver struct {
	cookieName string
	sessions   SessionStore
}

// NewResolver creates a Resolver reading tokens from the named cookie. An
// empty cookieName falls back to DefaultCookieName.
func NewResolver(cookieName string, sessions SessionStore) *Resolver {
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	return &Resolver{cookieName: cookieName, sessions: sessions}
}

// CookieName returns the cookie the resolver reads tokens from.
func (r *Resolver) CookieName() string {
	return r.cookieName
}

// FromRequest resolves the request's identity.
func (r *Resolver) FromRequest(req *http.Request) Identity {
	cookie, err := req.Cookie(r.cookieName)
	if err != nil {
		return Anonymous
	}
	token, err := uuid.Parse(cookie.Value)
	if err != nil {
		return Anonymous
	}
	userID, ok := r.sessions.Validate(token)
	if !ok {
		return Anonymous
	}
	return Authenticated(userID)
}
