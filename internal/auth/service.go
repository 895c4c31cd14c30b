// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/samber/oops"
)

// Account validation constraints.
const (
	DefaultMinPasswordLength = 6
	MaxUsernameLength        = 30
)

// Account is the credential-bearing view of a user, as the account service
// needs it. The forum side of the same row lives in forum.User.
type Account struct {
	ID           int64
	Name         string
	PasswordHash []byte
	Salt         []byte
}

// UserDirectory is the slice of durable storage the account service
// consumes: lookup by name and insertion of freshly registered users.
// Implementations return ErrNotFound (wrapped is fine) on absent names and
// ErrConflict when the name is already taken.
type UserDirectory interface {
	LookupAccount(ctx context.Context, name string) (*Account, error)
	CreateAccount(ctx context.Context, name string, passwordHash, salt []byte) (*Account, error)
}

// dummy credential verified when a login names an unknown user, so response
// time does not reveal whether the account exists.
var (
	dummySalt = make([]byte, SaltLength)
	dummyHash = make([]byte, HashLength)
)

// Service implements account registration and login on top of a
// UserDirectory, a CredentialHasher, and a SessionStore.
type Service struct {
	users       UserDirectory
	sessions    SessionStore
	hasher      CredentialHasher
	minPassword int
}

// NewService creates an account service. A non-positive minPassword falls
// back to DefaultMinPasswordLength.
func NewService(users UserDirectory, sessions SessionStore, hasher CredentialHasher, minPassword int) *Service {
	if minPassword <= 0 {
		minPassword = DefaultMinPasswordLength
	}
	return &Service{
		users:       users,
		sessions:    sessions,
		hasher:      hasher,
		minPassword: minPassword,
	}
}

// Register creates a new account and issues a session for it. All
// validation failures surface before any write: ErrInvalidName,
// ErrWeakCredential, ErrConflict.
func (s *Service) Register(ctx context.Context, username, password string) (*Account, uuid.UUID, error) {
	if username == "" || len(username) > MaxUsernameLength {
		return nil, uuid.Nil, oops.Code("AUTH_INVALID_USERNAME").
			With("max", MaxUsernameLength).
			Wrap(ErrInvalidName)
	}
	if len(password) < s.minPassword {
		return nil, uuid.Nil, oops.Code("AUTH_WEAK_PASSWORD").
			With("min", s.minPassword).
			Wrap(ErrWeakCredential)
	}

	_, err := s.users.LookupAccount(ctx, username)
	switch {
	case err == nil:
		return nil, uuid.Nil, oops.Code("AUTH_USERNAME_TAKEN").
			With("username", username).
			Wrap(ErrConflict)
	case !errors.Is(err, ErrNotFound):
		return nil, uuid.Nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "lookup username").
			Wrap(err)
	}

	hash, salt, err := s.hasher.Generate(password)
	if err != nil {
		return nil, uuid.Nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "hash password").
			Wrap(err)
	}

	// The directory enforces name uniqueness too, closing the race between
	// the lookup above and this insert.
	account, err := s.users.CreateAccount(ctx, username, hash, salt)
	if err != nil {
		if errors.Is(err, ErrConflict) {
			return nil, uuid.Nil, oops.Code("AUTH_USERNAME_TAKEN").
				With("username", username).
				Wrap(ErrConflict)
		}
		return nil, uuid.Nil, oops.Code("AUTH_REGISTER_FAILED").
			With("operation", "insert user").
			Wrap(err)
	}

	token, err := s.sessions.Create(account.ID)
	if err != nil {
		return nil, uuid.Nil, oops.Code("AUTH_SESSION_CREATE_FAILED").Wrap(err)
	}
	return account, token, nil
}

// Login authenticates an account and issues a session. Unknown usernames
// and wrong passwords are indistinguishable (ErrInvalidCredentials), and a
// dummy digest is verified for unknown names so latency does not differ
// either.
func (s *Service) Login(ctx context.Context, username, password string) (*Account, uuid.UUID, error) {
	account, lookupErr := s.users.LookupAccount(ctx, username)
	if lookupErr != nil {
		if errors.Is(lookupErr, ErrNotFound) {
			s.hasher.Verify(password, dummySalt, dummyHash)
			return nil, uuid.Nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
		}
		return nil, uuid.Nil, oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "lookup username").
			Wrap(lookupErr)
	}

	if !s.hasher.Verify(password, account.Salt, account.PasswordHash) {
		return nil, uuid.Nil, oops.Code("AUTH_INVALID_CREDENTIALS").Wrap(ErrInvalidCredentials)
	}

	token, err := s.sessions.Create(account.ID)
	if err != nil {
		return nil, uuid.Nil, oops.Code("AUTH_SESSION_CREATE_FAILED").Wrap(err)
	}
	return account, token, nil
}
