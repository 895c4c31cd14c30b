// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

// Package forumtest provides an in-memory Repository for tests.
package forumtest

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/stratumbbs/stratum/internal/auth"
	"github.com/stratumbbs/stratum/internal/forum"
)

// Repo is an in-memory implementation of forum.Repository,
// forum.Transactor, and auth.UserDirectory. Setting FailWith makes every
// subsequent call return that error, for exercising persistence-failure
// paths.
type Repo struct {
	mu          sync.Mutex
	users       map[int64]forum.User
	usersByName map[string]int64
	posts       map[int64]forum.Post
	floors      map[int64]forum.Floor
	nextUser    int64
	nextPost    int64
	nextFloor   int64

	FailWith error
}

// NewRepo creates an empty in-memory repository.
func NewRepo() *Repo {
	return &Repo{
		users:       make(map[int64]forum.User),
		usersByName: make(map[string]int64),
		posts:       make(map[int64]forum.Post),
		floors:      make(map[int64]forum.Floor),
	}
}

// SeedUser inserts a user directly, bypassing validation.
func (r *Repo) SeedUser(name string, hash, salt []byte) forum.User {
	user, err := r.InsertUser(context.Background(), name, hash, salt)
	if err != nil {
		panic(err)
	}
	return *user
}

// DeleteUser removes a user row, clearing author references the way the
// schema's ON DELETE SET NULL does.
func (r *Repo) DeleteUser(id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user, ok := r.users[id]; ok {
		delete(r.usersByName, user.Name)
		delete(r.users, id)
	}
	for pid, post := range r.posts {
		if post.Author != nil && *post.Author == id {
			post.Author = nil
			r.posts[pid] = post
		}
	}
	for fid, floor := range r.floors {
		if floor.Author != nil && *floor.Author == id {
			floor.Author = nil
			r.floors[fid] = floor
		}
	}
}

// FindUserByID implements forum.Repository.
func (r *Repo) FindUserByID(_ context.Context, id int64) (*forum.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	user, ok := r.users[id]
	if !ok {
		return nil, forum.ErrNotFound
	}
	return &user, nil
}

// FindUserByName implements forum.Repository.
func (r *Repo) FindUserByName(_ context.Context, name string) (*forum.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	id, ok := r.usersByName[name]
	if !ok {
		return nil, forum.ErrNotFound
	}
	user := r.users[id]
	return &user, nil
}

// InsertUser implements forum.Repository.
func (r *Repo) InsertUser(_ context.Context, name string, passwordHash, salt []byte) (*forum.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	if _, taken := r.usersByName[name]; taken {
		return nil, forum.ErrConflict
	}
	r.nextUser++
	user := forum.User{
		ID:           r.nextUser,
		Name:         name,
		PasswordHash: passwordHash,
		Salt:         salt,
		CreatedAt:    time.Now(),
	}
	r.users[user.ID] = user
	r.usersByName[name] = user.ID
	return &user, nil
}

// FindPostByID implements forum.Repository.
func (r *Repo) FindPostByID(_ context.Context, id int64) (*forum.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	post, ok := r.posts[id]
	if !ok {
		return nil, forum.ErrNotFound
	}
	return &post, nil
}

// InsertPost implements forum.Repository.
func (r *Repo) InsertPost(_ context.Context, authorID int64, title string) (*forum.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	r.nextPost++
	now := time.Now()
	post := forum.Post{
		ID:        r.nextPost,
		Author:    &authorID,
		Title:     title,
		CreatedAt: &now,
	}
	r.posts[post.ID] = post
	return &post, nil
}

// ListRecentPosts implements forum.Repository.
func (r *Repo) ListRecentPosts(_ context.Context, limit int) ([]forum.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	var posts []forum.Post
	for id := r.nextPost; id >= 1 && len(posts) < limit; id-- {
		if post, ok := r.posts[id]; ok {
			posts = append(posts, post)
		}
	}
	return posts, nil
}

// CountFloors implements forum.Repository.
func (r *Repo) CountFloors(_ context.Context, postID int64) (uint64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return 0, r.FailWith
	}
	var count uint64
	for _, floor := range r.floors {
		if floor.PostID == postID {
			count++
		}
	}
	return count, nil
}

// ListFloorsInRange implements forum.Repository.
func (r *Repo) ListFloorsInRange(_ context.Context, postID int64, start, end uint) ([]forum.Floor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	var floors []forum.Floor
	for number := start; number <= end; number++ {
		for _, floor := range r.floors {
			if floor.PostID == postID && floor.FloorNumber == number {
				floors = append(floors, floor)
			}
		}
	}
	return floors, nil
}

// InsertFloor implements forum.Repository.
func (r *Repo) InsertFloor(_ context.Context, postID int64, floorNumber uint, authorID int64, content string) (*forum.Floor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.FailWith != nil {
		return nil, r.FailWith
	}
	for _, floor := range r.floors {
		if floor.PostID == postID && floor.FloorNumber == floorNumber {
			return nil, forum.ErrConflict
		}
	}
	r.nextFloor++
	now := time.Now()
	floor := forum.Floor{
		ID:          r.nextFloor,
		PostID:      postID,
		FloorNumber: floorNumber,
		Author:      &authorID,
		Content:     content,
		CreatedAt:   &now,
	}
	r.floors[floor.ID] = floor
	return &floor, nil
}

// InTransaction implements forum.Transactor. State is snapshotted before fn
// and restored if fn fails, mimicking a rollback.
func (r *Repo) InTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	r.mu.Lock()
	snapPosts := make(map[int64]forum.Post, len(r.posts))
	for k, v := range r.posts {
		snapPosts[k] = v
	}
	snapFloors := make(map[int64]forum.Floor, len(r.floors))
	for k, v := range r.floors {
		snapFloors[k] = v
	}
	snapNextPost, snapNextFloor := r.nextPost, r.nextFloor
	r.mu.Unlock()

	if err := fn(ctx); err != nil {
		r.mu.Lock()
		r.posts, r.floors = snapPosts, snapFloors
		r.nextPost, r.nextFloor = snapNextPost, snapNextFloor
		r.mu.Unlock()
		return err
	}
	return nil
}

// LookupAccount implements auth.UserDirectory.
func (r *Repo) LookupAccount(ctx context.Context, name string) (*auth.Account, error) {
	user, err := r.FindUserByName(ctx, name)
	if err != nil {
		if errors.Is(err, forum.ErrNotFound) {
			return nil, auth.ErrNotFound
		}
		return nil, err
	}
	return &auth.Account{ID: user.ID, Name: user.Name, PasswordHash: user.PasswordHash, Salt: user.Salt}, nil
}

// CreateAccount implements auth.UserDirectory.
func (r *Repo) CreateAccount(ctx context.Context, name string, passwordHash, salt []byte) (*auth.Account, error) {
	user, err := r.InsertUser(ctx, name, passwordHash, salt)
	if err != nil {
		if errors.Is(err, forum.ErrConflict) {
			return nil, auth.ErrConflict
		}
		return nil, err
	}
	return &auth.Account{ID: user.ID, Name: user.Name, PasswordHash: user.PasswordHash, Salt: user.Salt}, nil
}
