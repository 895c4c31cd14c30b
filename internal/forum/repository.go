// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package forum

import "context"

// Repository abstracts durable storage for the forum core. Implementations
// return ErrNotFound (wrapped is fine) when a looked-up row is absent and
// ErrConflict when an insert violates a uniqueness constraint.
type Repository interface {
	// FindUserByID retrieves a user by primary key.
	FindUserByID(ctx context.Context, id int64) (*User, error)

	// FindUserByName retrieves a user by exact name.
	FindUserByName(ctx context.Context, name string) (*User, error)

	// InsertUser stores a new user and returns it with the assigned ID.
	InsertUser(ctx context.Context, name string, passwordHash, salt []byte) (*User, error)

	// FindPostByID retrieves a post by primary key.
	FindPostByID(ctx context.Context, id int64) (*Post, error)

	// InsertPost stores a new post and returns it with the assigned ID.
	InsertPost(ctx context.Context, authorID int64, title string) (*Post, error)

	// ListRecentPosts returns the most recently created posts, newest first,
	// up to limit.
	ListRecentPosts(ctx context.Context, limit int) ([]Post, error)

	// CountFloors returns the number of floors under a post.
	CountFloors(ctx context.Context, postID int64) (uint64, error)

	// ListFloorsInRange returns the floors of a post whose floor_number lies
	// in the inclusive range [start, end], ordered by floor_number ascending.
	ListFloorsInRange(ctx context.Context, postID int64, start, end uint) ([]Floor, error)

	// InsertFloor stores a new floor and returns it with the assigned ID.
	InsertFloor(ctx context.Context, postID int64, floorNumber uint, authorID int64, content string) (*Floor, error)
}

// Transactor runs a function inside a storage transaction. Repository calls
// made with the context passed to fn join that transaction, so multi-row
// writes appear atomic to external readers.
type Transactor interface {
	InTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
