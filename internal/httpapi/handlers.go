// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package httpapi

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/stratumbbs/stratum/internal/auth"
	"github.com/stratumbbs/stratum/internal/forum"
)

// Handlers holds the services behind the forum's HTTP surface.
type Handlers struct {
	forum      *forum.Service
	accounts   *auth.Service
	resolver   *auth.Resolver
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewHandlers wires the forum and account services into HTTP handlers. The
// resolver supplies per-request identity; sessionTTL bounds the lifetime of
// the session cookie set on register/login.
func NewHandlers(forumSvc *forum.Service, accounts *auth.Service, resolver *auth.Resolver, sessionTTL time.Duration, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handlers{
		forum:      forumSvc,
		accounts:   accounts,
		resolver:   resolver,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type newPostRequest struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type accountInfo struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	SessionID string `json:"session_id"`
}

type identityInfo struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type recentPostsInfo struct {
	Posts []forum.PostWithAuthor `json:"posts"`
}

type floorsInfo struct {
	Floors []forum.Floor `json:"floors"`
}

type newPostInfo struct {
	PostID int64 `json:"post_id"`
}

// handleRecentPosts serves GET /post/recent.
func (h *Handlers) handleRecentPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.forum.ListRecentPosts(r.Context())
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	if posts == nil {
		posts = []forum.PostWithAuthor{}
	}
	writeOK(w, http.StatusOK, recentPostsInfo{Posts: posts})
}

// handleGetPost serves GET /post/get/{postId}.
func (h *Handlers) handleGetPost(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postId")
	if !ok {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	view, err := h.forum.GetPost(r.Context(), postID)
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, view)
}

// handleGetFloors serves GET /post/get/floor/{postId}?start=&end=.
func (h *Handlers) handleGetFloors(w http.ResponseWriter, r *http.Request) {
	postID, ok := pathID(r, "postId")
	if !ok {
		writeErr(w, http.StatusNotFound, "not found")
		return
	}
	start, err1 := strconv.ParseUint(r.URL.Query().Get("start"), 10, 32)
	end, err2 := strconv.ParseUint(r.URL.Query().Get("end"), 10, 32)
	if err1 != nil || err2 != nil {
		writeErr(w, http.StatusBadRequest, "invalid floor range")
		return
	}
	floors, err := h.forum.GetFloors(r.Context(), postID, uint(start), uint(end))
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	if floors == nil {
		floors = []forum.Floor{}
	}
	writeOK(w, http.StatusOK, floorsInfo{Floors: floors})
}

// handleCreateAccount serves POST /account/create.
func (h *Handlers) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account, token, err := h.accounts.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	h.setSessionCookie(w, token)
	writeOK(w, http.StatusOK, accountInfo{ID: account.ID, Name: account.Name, SessionID: token.String()})
}

// handleLogin serves POST /account/login.
func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	account, token, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	h.setSessionCookie(w, token)
	writeOK(w, http.StatusOK, accountInfo{ID: account.ID, Name: account.Name, SessionID: token.String()})
}

// handleWhoAmI serves GET /account/me: resolves the session cookie to the
// logged-in identity, or reports anonymous.
func (h *Handlers) handleWhoAmI(w http.ResponseWriter, r *http.Request) {
	ident := h.resolver.FromRequest(r)
	if !ident.Authenticated {
		writeErr(w, http.StatusUnauthorized, "please login")
		return
	}
	name, err := h.forum.AuthorDisplayName(r.Context(), ident.UserID)
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, identityInfo{ID: ident.UserID, Name: name})
}

// handleNewPost serves POST /newpost. Requires a live session.
func (h *Handlers) handleNewPost(w http.ResponseWriter, r *http.Request) {
	ident := h.resolver.FromRequest(r)

	var req newPostRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	postID, err := h.forum.CreatePost(r.Context(), ident, req.Title, req.Content)
	if err != nil {
		writeFailure(w, h.logger, err)
		return
	}
	writeOK(w, http.StatusOK, newPostInfo{PostID: postID})
}

func (h *Handlers) setSessionCookie(w http.ResponseWriter, token uuid.UUID) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.resolver.CookieName(),
		Value:    token.String(),
		Path:     "/",
		MaxAge:   int(h.sessionTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	defer r.Body.Close() //nolint:errcheck // nothing useful to do with a body close error
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeErr(w, http.StatusBadRequest, "malformed request body")
		return false
	}
	return true
}
