// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

// Package postgres implements the forum repository and the auth user
// directory against PostgreSQL via pgx.
package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/samber/oops"

	"github.com/stratumbbs/stratum/internal/forum"
)

// querier abstracts query execution over both a pool and an open
// transaction, so repository methods transparently join a transaction
// carried in context.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Pool is the subset of *pgxpool.Pool the repository needs. pgxmock
// satisfies it for tests.
type Pool interface {
	querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Repository implements forum.Repository and auth.UserDirectory.
type Repository struct {
	pool Pool
}

// NewRepository creates a Repository backed by the given connection pool.
func NewRepository(pool Pool) *Repository {
	return &Repository{pool: pool}
}

// q returns the transaction carried in ctx, or the pool.
func (r *Repository) q(ctx context.Context) querier {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return r.pool
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// FindUserByID retrieves a user by primary key.
func (r *Repository) FindUserByID(ctx context.Context, id int64) (*forum.User, error) {
	row := r.q(ctx).QueryRow(ctx, `
		SELECT id, name, passwd, salt, created_at
		FROM users
		WHERE id = $1
	`, id)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("id", id).
			Wrap(forum.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_ID_FAILED").
			With("operation", "get user by id").
			With("id", id).
			Wrap(err)
	}
	return user, nil
}

// FindUserByName retrieves a user by exact name.
func (r *Repository) FindUserByName(ctx context.Context, name string) (*forum.User, error) {
	row := r.q(ctx).QueryRow(ctx, `
		SELECT id, name, passwd, salt, created_at
		FROM users
		WHERE name = $1
	`, name)

	user, err := scanUser(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("USER_NOT_FOUND").
			With("username", name).
			Wrap(forum.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("USER_GET_BY_NAME_FAILED").
			With("operation", "get user by name").
			With("username", name).
			Wrap(err)
	}
	return user, nil
}

// InsertUser stores a new user. A duplicate name surfaces as ErrConflict.
func (r *Repository) InsertUser(ctx context.Context, name string, passwordHash, salt []byte) (*forum.User, error) {
	user := &forum.User{
		Name:         name,
		PasswordHash: passwordHash,
		Salt:         salt,
	}
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO users (name, passwd, salt)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, name, passwordHash, salt).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, oops.Code("USER_NAME_TAKEN").
				With("username", name).
				Wrap(forum.ErrConflict)
		}
		return nil, oops.Code("USER_INSERT_FAILED").
			With("operation", "insert user").
			With("username", name).
			Wrap(err)
	}
	return user, nil
}

// FindPostByID retrieves a post by primary key.
func (r *Repository) FindPostByID(ctx context.Context, id int64) (*forum.Post, error) {
	row := r.q(ctx).QueryRow(ctx, `
		SELECT id, author, title, created_at
		FROM posts
		WHERE id = $1
	`, id)

	var post forum.Post
	err := row.Scan(&post.ID, &post.Author, &post.Title, &post.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("POST_NOT_FOUND").
			With("id", id).
			Wrap(forum.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("POST_GET_BY_ID_FAILED").
			With("operation", "get post by id").
			With("id", id).
			Wrap(err)
	}
	return &post, nil
}

// InsertPost stores a new post.
func (r *Repository) InsertPost(ctx context.Context, authorID int64, title string) (*forum.Post, error) {
	post := &forum.Post{
		Author: &authorID,
		Title:  title,
	}
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO posts (author, title)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, authorID, title).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return nil, oops.Code("POST_INSERT_FAILED").
			With("operation", "insert post").
			With("author_id", authorID).
			Wrap(err)
	}
	return post, nil
}

// ListRecentPosts returns the most recently created posts, newest first.
func (r *Repository) ListRecentPosts(ctx context.Context, limit int) ([]forum.Post, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT id, author, title, created_at
		FROM posts
		ORDER BY id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").
			With("operation", "list recent posts").
			With("limit", limit).
			Wrap(err)
	}
	defer rows.Close()

	var posts []forum.Post
	for rows.Next() {
		var post forum.Post
		if err := rows.Scan(&post.ID, &post.Author, &post.Title, &post.CreatedAt); err != nil {
			return nil, oops.Code("POST_SCAN_FAILED").
				With("operation", "scan post row").
				Wrap(err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("POST_ROWS_ERROR").
			With("operation", "iterate post rows").
			Wrap(err)
	}
	return posts, nil
}

// CountFloors returns the number of floors under a post.
func (r *Repository) CountFloors(ctx context.Context, postID int64) (uint64, error) {
	var count int64
	err := r.q(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM floors WHERE post_id = $1
	`, postID).Scan(&count)
	if err != nil {
		return 0, oops.Code("FLOOR_COUNT_FAILED").
			With("operation", "count floors").
			With("post_id", postID).
			Wrap(err)
	}
	return uint64(count), nil
}

// ListFloorsInRange returns the floors of a post with floor_number in the
// inclusive range [start, end], ascending.
func (r *Repository) ListFloorsInRange(ctx context.Context, postID int64, start, end uint) ([]forum.Floor, error) {
	rows, err := r.q(ctx).Query(ctx, `
		SELECT id, post_id, floor_number, author, content, created_at
		FROM floors
		WHERE post_id = $1 AND floor_number BETWEEN $2 AND $3
		ORDER BY floor_number
	`, postID, int64(start), int64(end))
	if err != nil {
		return nil, oops.Code("FLOOR_LIST_FAILED").
			With("operation", "list floors in range").
			With("post_id", postID).
			Wrap(err)
	}
	defer rows.Close()

	var floors []forum.Floor
	for rows.Next() {
		floor, err := scanFloor(rows)
		if err != nil {
			return nil, oops.Code("FLOOR_SCAN_FAILED").
				With("operation", "scan floor row").
				Wrap(err)
		}
		floors = append(floors, *floor)
	}
	if err := rows.Err(); err != nil {
		return nil, oops.Code("FLOOR_ROWS_ERROR").
			With("operation", "iterate floor rows").
			Wrap(err)
	}
	return floors, nil
}

// InsertFloor stores a new floor under a post.
func (r *Repository) InsertFloor(ctx context.Context, postID int64, floorNumber uint, authorID int64, content string) (*forum.Floor, error) {
	floor := &forum.Floor{
		PostID:      postID,
		FloorNumber: floorNumber,
		Author:      &authorID,
		Content:     content,
	}
	err := r.q(ctx).QueryRow(ctx, `
		INSERT INTO floors (post_id, floor_number, author, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, postID, int64(floorNumber), authorID, content).Scan(&floor.ID, &floor.CreatedAt)
	if err != nil {
		return nil, oops.Code("FLOOR_INSERT_FAILED").
			With("operation", "insert floor").
			With("post_id", postID).
			With("floor_number", floorNumber).
			Wrap(err)
	}
	return floor, nil
}

func scanUser(row pgx.Row) (*forum.User, error) {
	var user forum.User
	if err := row.Scan(&user.ID, &user.Name, &user.PasswordHash, &user.Salt, &user.CreatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func scanFloor(row pgx.Row) (*forum.Floor, error) {
	var floor forum.Floor
	var number int64
	if err := row.Scan(&floor.ID, &floor.PostID, &number, &floor.Author, &floor.Content, &floor.CreatedAt); err != nil {
		return nil, err
	}
	floor.FloorNumber = uint(number)
	return &floor, nil
}
