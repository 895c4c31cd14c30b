// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package forum

import "errors"

// Sentinel errors for the forum domain. Callers match with errors.Is; the
// HTTP layer maps each to a structured failure state, never a server fault.
var (
	// ErrNotFound is returned when a requested post or user does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidRange is returned when a floor range request has start > end.
	ErrInvalidRange = errors.New("invalid floor range")

	// ErrConflict is returned when a unique constraint (username) is violated.
	ErrConflict = errors.New("already exists")

	// ErrUnauthorized is returned when an operation requires a live session
	// and none is attached.
	ErrUnauthorized = errors.New("unauthorized")
)
