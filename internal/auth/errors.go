// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package auth

import "errors"

var (
	// ErrNotFound is returned when a requested account does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a username is already taken.
	ErrConflict = errors.New("username already taken")

	// ErrWeakCredential is returned when a password is below the configured
	// minimum length.
	ErrWeakCredential = errors.New("password too short")

	// ErrInvalidName is returned when a username fails validation.
	ErrInvalidName = errors.New("invalid username")

	// ErrInvalidCredentials is returned when a login attempt does not match
	// a known account. Deliberately identical for unknown usernames and
	// wrong passwords.
	ErrInvalidCredentials = errors.New("invalid username or password")
)
