// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package forum

import (
	"context"
	"errors"
	"log/slog"

	"github.com/samber/oops"

	"github.com/stratumbbs/stratum/internal/auth"
)

// Service orchestrates the repository into the read and write operations the
// HTTP layer exposes: single-post aggregation, floor listing, recent posts,
// and transactional post creation.
type Service struct {
	repo           Repository
	tx             Transactor
	maxFloorWindow uint
	recentLimit    int
}

// NewService creates a forum content service. maxFloorWindow caps the number
// of floors a single GetFloors call may return; recentLimit caps
// ListRecentPosts.
func NewService(repo Repository, tx Transactor, maxFloorWindow uint, recentLimit int) *Service {
	return &Service{
		repo:           repo,
		tx:             tx,
		maxFloorWindow: maxFloorWindow,
		recentLimit:    recentLimit,
	}
}

// GetPost returns the aggregate view of a single post: title, resolved
// author name, and total floor count. Returns ErrNotFound (wrapped) when the
// post does not exist.
func (s *Service) GetPost(ctx context.Context, postID int64) (*PostView, error) {
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code("POST_NOT_FOUND").
				With("post_id", postID).
				Wrap(err)
		}
		return nil, oops.Code("POST_GET_FAILED").
			With("post_id", postID).
			Wrap(err)
	}

	count, err := s.repo.CountFloors(ctx, postID)
	if err != nil {
		return nil, oops.Code("FLOOR_COUNT_FAILED").
			With("post_id", postID).
			Wrap(err)
	}

	return &PostView{
		Title:      post.Title,
		AuthorName: s.authorName(ctx, post.Author),
		AuthorID:   post.Author,
		FloorCount: count,
	}, nil
}

// GetFloors returns the floors of a post whose floor_number lies in the
// requested inclusive range, clamped to the configured maximum window and
// ordered ascending. Returns ErrInvalidRange (wrapped) when start > end.
func (s *Service) GetFloors(ctx context.Context, postID int64, start, end uint) ([]Floor, error) {
	start, end, err := ClampFloorRange(start, end, s.maxFloorWindow)
	if err != nil {
		return nil, err
	}

	floors, err := s.repo.ListFloorsInRange(ctx, postID, start, end)
	if err != nil {
		return nil, oops.Code("FLOOR_LIST_FAILED").
			With("post_id", postID).
			With("start", start).
			With("end", end).
			Wrap(err)
	}
	return floors, nil
}

// ListRecentPosts returns the most recently created posts, newest first,
// each paired with its author's display name.
func (s *Service) ListRecentPosts(ctx context.Context) ([]PostWithAuthor, error) {
	posts, err := s.repo.ListRecentPosts(ctx, s.recentLimit)
	if err != nil {
		return nil, oops.Code("POST_LIST_FAILED").Wrap(err)
	}

	// Posts on a board tend to cluster by author; avoid re-resolving the
	// same name within one request.
	names := make(map[int64]string, len(posts))
	result := make([]PostWithAuthor, 0, len(posts))
	for _, post := range posts {
		name := UnknownAuthorName
		if post.Author != nil {
			cached, ok := names[*post.Author]
			if !ok {
				cached = s.authorName(ctx, post.Author)
				names[*post.Author] = cached
			}
			name = cached
		}
		result = append(result, PostWithAuthor{Post: post, AuthorName: name})
	}
	return result, nil
}

// CreatePost inserts a new post together with its opening floor (floor 1,
// same author, the given content) as one transaction, so no reader ever
// observes a post without its floor 1. Requires an authenticated identity;
// returns ErrUnauthorized (wrapped) otherwise.
func (s *Service) CreatePost(ctx context.Context, ident auth.Identity, title, content string) (int64, error) {
	if !ident.Authenticated {
		return 0, oops.Code("POST_CREATE_UNAUTHORIZED").Wrap(ErrUnauthorized)
	}

	var postID int64
	err := s.tx.InTransaction(ctx, func(ctx context.Context) error {
		post, err := s.repo.InsertPost(ctx, ident.UserID, title)
		if err != nil {
			return oops.Code("POST_INSERT_FAILED").
				With("author_id", ident.UserID).
				Wrap(err)
		}
		if _, err := s.repo.InsertFloor(ctx, post.ID, 1, ident.UserID, content); err != nil {
			return oops.Code("FLOOR_INSERT_FAILED").
				With("post_id", post.ID).
				Wrap(err)
		}
		postID = post.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return postID, nil
}

// AuthorDisplayName resolves a user's display name, degrading to the
// placeholder when the account no longer exists.
func (s *Service) AuthorDisplayName(ctx context.Context, userID int64) (string, error) {
	user, err := s.repo.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return UnknownAuthorName, nil
		}
		return "", oops.Code("USER_GET_FAILED").
			With("user_id", userID).
			Wrap(err)
	}
	return user.Name, nil
}

// authorName resolves a display name for an optional author ID. A missing
// author, a deleted account, or a failed lookup all degrade to the
// placeholder rather than failing the surrounding read.
func (s *Service) authorName(ctx context.Context, authorID *int64) string {
	if authorID == nil {
		return UnknownAuthorName
	}
	user, err := s.repo.FindUserByID(ctx, *authorID)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			slog.DebugContext(ctx, "author lookup failed", "author_id", *authorID, "error", err)
		}
		return UnknownAuthorName
	}
	return user.Name
}
