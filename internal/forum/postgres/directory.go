// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package postgres

import (
	"context"
	"errors"

	"github.com/stratumbbs/stratum/internal/auth"
	"github.com/stratumbbs/stratum/internal/forum"
)

// LookupAccount implements auth.UserDirectory over the users table,
// translating forum sentinels into the auth package's.
func (r *Repository) LookupAccount(ctx context.Context, name string) (*auth.Account, error) {
	user, err := r.FindUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, forum.ErrNotFound) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return accountFromUser(user), nil
}

// CreateAccount implements auth.UserDirectory.
func (r *Repository) CreateAccount(ctx context.Context, name string, passwordHash, salt []byte) (*auth.Account, error) {
	user, err := r.InsertUser(ctx, name, passwordHash, salt)
	if err != nil {
		if errors.Is(err, forum.ErrConflict) {
			return nil, auth.ErrConflict
		}
		return nil, err
	}
	return accountFromUser(user), nil
}

func accountFromUser(user *forum.User) *auth.Account {
	return &auth.Account{
		ID:           user.ID,
		Name:         user.Name,
		PasswordHash: user.PasswordHash,
		Salt:         user.Salt,
	}
}
