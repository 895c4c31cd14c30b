// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package forum_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stratumbbs/stratum/internal/auth"
	"github.com/stratumbbs/stratum/internal/forum"
	"github.com/stratumbbs/stratum/internal/forum/forumtest"
)

func newTestService(repo *forumtest.Repo) *forum.Service {
	return forum.NewService(repo, repo, 30, 10)
}

// seedPost creates a post with its opening floor through the service, the
// only write path, and returns the post ID.
func seedPost(t *testing.T, svc *forum.Service, authorID int64, title, content string) int64 {
	t.Helper()
	postID, err := svc.CreatePost(context.Background(), auth.Authenticated(authorID), title, content)
	require.NoError(t, err)
	return postID
}

func TestServiceGetPost(t *testing.T) {
	ctx := context.Background()

	t.Run("aggregates title, author, and floor count", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)
		author := repo.SeedUser("ada", nil, nil)
		postID := seedPost(t, svc, author.ID, "hello board", "first!")

		_, err := repo.InsertFloor(ctx, postID, 2, author.ID, "second floor")
		require.NoError(t, err)

		view, err := svc.GetPost(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, "hello board", view.Title)
		assert.Equal(t, "ada", view.AuthorName)
		require.NotNil(t, view.AuthorID)
		assert.Equal(t, author.ID, *view.AuthorID)
		assert.Equal(t, uint64(2), view.FloorCount)
	})

	t.Run("missing post yields not found", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)

		_, err := svc.GetPost(ctx, 404)
		require.ErrorIs(t, err, forum.ErrNotFound)
	})

	t.Run("deleted author degrades to placeholder", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)
		author := repo.SeedUser("ada", nil, nil)
		postID := seedPost(t, svc, author.ID, "orphaned", "body")

		repo.DeleteUser(author.ID)

		view, err := svc.GetPost(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, forum.UnknownAuthorName, view.AuthorName)
		assert.Nil(t, view.AuthorID)
	})
}

func TestServiceGetFloors(t *testing.T) {
	ctx := context.Background()

	t.Run("returns floors in ascending order", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)
		author := repo.SeedUser("ada", nil, nil)
		postID := seedPost(t, svc, author.ID, "thread", "floor one")
		for n := uint(2); n <= 5; n++ {
			_, err := repo.InsertFloor(ctx, postID, n, author.ID, "reply")
			require.NoError(t, err)
		}

		floors, err := svc.GetFloors(ctx, postID, 2, 4)
		require.NoError(t, err)
		require.Len(t, floors, 3)
		for i, floor := range floors {
			assert.Equal(t, uint(i+2), floor.FloorNumber)
			assert.Equal(t, postID, floor.PostID)
		}
	})

	t.Run("oversized range is clamped", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := forum.NewService(repo, repo, 3, 10)
		author := repo.SeedUser("ada", nil, nil)
		postID := seedPost(t, svc, author.ID, "thread", "floor one")
		for n := uint(2); n <= 8; n++ {
			_, err := repo.InsertFloor(ctx, postID, n, author.ID, "reply")
			require.NoError(t, err)
		}

		floors, err := svc.GetFloors(ctx, postID, 2, 100)
		require.NoError(t, err)
		require.Len(t, floors, 3)
		assert.Equal(t, uint(2), floors[0].FloorNumber)
		assert.Equal(t, uint(4), floors[2].FloorNumber)
	})

	t.Run("inverted range is rejected before any query", func(t *testing.T) {
		repo := forumtest.NewRepo()
		repo.FailWith = errors.New("should not be reached")
		svc := newTestService(repo)

		_, err := svc.GetFloors(ctx, 1, 9, 3)
		require.ErrorIs(t, err, forum.ErrInvalidRange)
	})

	t.Run("range past the last floor is empty, not an error", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)
		author := repo.SeedUser("ada", nil, nil)
		postID := seedPost(t, svc, author.ID, "thread", "floor one")

		floors, err := svc.GetFloors(ctx, postID, 10, 20)
		require.NoError(t, err)
		assert.Empty(t, floors)
	})
}

func TestServiceListRecentPosts(t *testing.T) {
	ctx := context.Background()

	t.Run("newest first with resolved author names", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)
		ada := repo.SeedUser("ada", nil, nil)
		grace := repo.SeedUser("grace", nil, nil)

		seedPost(t, svc, ada.ID, "oldest", "body")
		seedPost(t, svc, grace.ID, "middle", "body")
		seedPost(t, svc, ada.ID, "newest", "body")

		posts, err := svc.ListRecentPosts(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, "newest", posts[0].Post.Title)
		assert.Equal(t, "ada", posts[0].AuthorName)
		assert.Equal(t, "middle", posts[1].Post.Title)
		assert.Equal(t, "grace", posts[1].AuthorName)
		assert.Equal(t, "oldest", posts[2].Post.Title)
	})

	t.Run("caps at the configured limit", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := forum.NewService(repo, repo, 30, 2)
		ada := repo.SeedUser("ada", nil, nil)
		for range 5 {
			seedPost(t, svc, ada.ID, "post", "body")
		}

		posts, err := svc.ListRecentPosts(ctx)
		require.NoError(t, err)
		assert.Len(t, posts, 2)
	})

	t.Run("deleted authors degrade to placeholder", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)
		ada := repo.SeedUser("ada", nil, nil)
		seedPost(t, svc, ada.ID, "orphaned", "body")
		repo.DeleteUser(ada.ID)

		posts, err := svc.ListRecentPosts(ctx)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, forum.UnknownAuthorName, posts[0].AuthorName)
	})
}

func TestServiceCreatePost(t *testing.T) {
	ctx := context.Background()

	t.Run("creates the post with its opening floor", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)
		ada := repo.SeedUser("ada", nil, nil)

		postID, err := svc.CreatePost(ctx, auth.Authenticated(ada.ID), "hello", "first post body")
		require.NoError(t, err)

		view, err := svc.GetPost(ctx, postID)
		require.NoError(t, err)
		assert.Equal(t, "hello", view.Title)
		assert.Equal(t, uint64(1), view.FloorCount)

		floors, err := svc.GetFloors(ctx, postID, 1, 1)
		require.NoError(t, err)
		require.Len(t, floors, 1)
		assert.Equal(t, uint(1), floors[0].FloorNumber)
		assert.Equal(t, "first post body", floors[0].Content)
		require.NotNil(t, floors[0].Author)
		assert.Equal(t, ada.ID, *floors[0].Author)
	})

	t.Run("anonymous identity is rejected", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)

		_, err := svc.CreatePost(ctx, auth.Anonymous, "hello", "body")
		require.ErrorIs(t, err, forum.ErrUnauthorized)
	})

	t.Run("failed floor insert rolls back the post", func(t *testing.T) {
		repo := forumtest.NewRepo()
		svc := newTestService(repo)
		ada := repo.SeedUser("ada", nil, nil)
		postID := seedPost(t, svc, ada.ID, "existing", "body")

		// Force the opening-floor insert to collide so the transaction
		// aborts after the post row was written.
		_, err := repo.InsertFloor(ctx, postID+1, 1, ada.ID, "squatter")
		require.NoError(t, err)

		_, err = svc.CreatePost(ctx, auth.Authenticated(ada.ID), "doomed", "body")
		require.Error(t, err)

		_, err = svc.GetPost(ctx, postID+1)
		require.ErrorIs(t, err, forum.ErrNotFound)
	})
}

func TestServiceAuthorDisplayName(t *testing.T) {
	ctx := context.Background()
	repo := forumtest.NewRepo()
	svc := newTestService(repo)
	ada := repo.SeedUser("ada", nil, nil)

	t.Run("resolves an existing user", func(t *testing.T) {
		name, err := svc.AuthorDisplayName(ctx, ada.ID)
		require.NoError(t, err)
		assert.Equal(t, "ada", name)
	})

	t.Run("missing user degrades to placeholder", func(t *testing.T) {
		name, err := svc.AuthorDisplayName(ctx, 404)
		require.NoError(t, err)
		assert.Equal(t, forum.UnknownAuthorName, name)
	})
}
