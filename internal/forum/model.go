// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package forum

import "time"

// UnknownAuthorName is the display name substituted when a post or floor
// has no author on record (account deleted, or the row predates author
// tracking).
const UnknownAuthorName = "unknown user"

// User is a registered account. PasswordHash and Salt are raw digests, both
// exactly 32 bytes (see auth.SHA256Hasher).
type User struct {
	ID           int64
	Name         string
	PasswordHash []byte
	Salt         []byte
	CreatedAt    time.Time
}

// Post is a discussion thread. Its opening content lives in floor 1; the
// post row itself carries only the title and authorship.
type Post struct {
	ID        int64      `json:"id"`
	Author    *int64     `json:"author"` // nil once the author account is deleted
	Title     string     `json:"title"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Floor is one entry in a post's reply chain. FloorNumber is 1-based and
// unique within a post; floor 1 is always the post's opening content.
type Floor struct {
	ID          int64      `json:"id"`
	PostID      int64      `json:"post_id"`
	FloorNumber uint       `json:"floor_number"`
	Author      *int64     `json:"author"`
	Content     string     `json:"content"`
	CreatedAt   *time.Time `json:"created_at,omitempty"`
}

// PostWithAuthor pairs a post with its author's resolved display name.
type PostWithAuthor struct {
	Post       Post   `json:"post"`
	AuthorName string `json:"author_name"`
}

// PostView is the aggregate returned for a single post: title, resolved
// author, and the total number of floors under it.
type PostView struct {
	Title      string `json:"title"`
	AuthorName string `json:"author"`
	AuthorID   *int64 `json:"author_id"`
	FloorCount uint64 `json:"floor_num"`
}
