// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

// Package httpapi exposes the forum over HTTP with a uniform JSON envelope.
package httpapi

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/samber/oops"

	"github.com/stratumbbs/stratum/internal/observability"
)

// Server serves the forum API.
type Server struct {
	addr       string
	handler    http.Handler
	listener   net.Listener
	httpServer *http.Server
	running    atomic.Bool
}

// NewServer builds the route table around the given handlers and wraps it
// with request logging and metrics.
func NewServer(addr string, h *Handlers, logger *slog.Logger, metrics *observability.Metrics) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /post/recent", h.handleRecentPosts)
	mux.HandleFunc("GET /post/get/{postId}", h.handleGetPost)
	mux.HandleFunc("GET /post/get/floor/{postId}", h.handleGetFloors)
	mux.HandleFunc("POST /account/create", h.handleCreateAccount)
	mux.HandleFunc("POST /account/login", h.handleLogin)
	mux.HandleFunc("GET /account/me", h.handleWhoAmI)
	mux.HandleFunc("POST /newpost", h.handleNewPost)

	return &Server{
		addr:    addr,
		handler: withRequestLog(mux, logger, metrics),
	}
}

// Handler returns the fully wrapped route table, for tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Start begins serving the API. It returns an error channel that receives
// any error from the HTTP server after it starts; the channel is closed on
// graceful shutdown.
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, oops.Errorf("api server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, oops.With("addr", s.addr).Wrap(err)
	}
	s.listener = listener

	httpSrv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.httpServer = httpSrv

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := httpSrv.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("api server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("api server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the server, letting in-flight requests finish.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return oops.With("operation", "shutdown_api_server").Wrap(err)
		}
	}
	slog.Info("api server stopped")
	return nil
}

// Addr returns the address the server is listening on, or "" if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}
