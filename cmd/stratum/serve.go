// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/stratumbbs/stratum/internal/auth"
	"github.com/stratumbbs/stratum/internal/config"
	"github.com/stratumbbs/stratum/internal/forum"
	forumpg "github.com/stratumbbs/stratum/internal/forum/postgres"
	"github.com/stratumbbs/stratum/internal/httpapi"
	"github.com/stratumbbs/stratum/internal/logging"
	"github.com/stratumbbs/stratum/internal/observability"
	"github.com/stratumbbs/stratum/internal/store"
	"github.com/stratumbbs/stratum/pkg/errutil"
)

const shutdownTimeout = 10 * time.Second

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the forum API server",
		Long: `Start the forum API server: the JSON HTTP surface, the in-memory
session store with its expiry sweeper, and the observability endpoints.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(configFile, cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}

	flags := cmd.Flags()
	flags.String("listen-addr", config.DefaultListenAddr, "API listen address")
	flags.String("metrics-addr", config.DefaultMetricsAddr, "metrics/health HTTP address (empty = disabled)")
	flags.String("database-url", "", "PostgreSQL URL (default: DATABASE_URL environment variable)")
	flags.Int("db-max-conns", config.DefaultDBMaxConns, "connection pool size")
	flags.String("log-format", config.DefaultLogFormat, "log format (json or text)")
	flags.Duration("session-ttl", config.DefaultSessionTTL, "session time-to-live")
	flags.Duration("session-sweep-interval", config.DefaultSweepInterval, "how often expired sessions are evicted")
	flags.Int("max-floor-window", config.DefaultMaxFloorWindow, "maximum floors returned per range request")
	flags.Int("recent-post-limit", config.DefaultRecentPostLimit, "posts returned by the recent listing")
	flags.Int("min-password-length", config.DefaultMinPasswordLength, "minimum password length at registration")
	flags.String("session-cookie", config.DefaultCookieName, "session cookie name")

	return cmd
}

func runServe(ctx context.Context, cfg *config.Config) error {
	logging.SetDefault("stratum", version, cfg.LogFormat)
	logger := slog.Default()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := store.NewPool(ctx, cfg.DatabaseURL, int32(cfg.DBMaxConns))
	if err != nil {
		errutil.LogError(logger, "database unreachable at boot", err)
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	repo := forumpg.NewRepository(pool)
	tx := forumpg.NewTransactor(pool)
	sessions := auth.NewMemorySessionStore(cfg.SessionTTL)
	hasher := auth.NewSHA256Hasher()
	resolver := auth.NewResolver(cfg.CookieName, sessions)

	accounts := auth.NewService(repo, sessions, hasher, cfg.MinPasswordLength)
	forumSvc := forum.NewService(repo, tx, cfg.MaxFloorWindow, cfg.RecentPostLimit)

	var metrics *observability.Metrics
	var obsSrv *observability.Server
	var obsErrCh <-chan error
	if cfg.MetricsAddr != "" {
		ready := func() bool { return pool.Ping(ctx) == nil }
		obsSrv = observability.NewServer(cfg.MetricsAddr, ready, sessions.Len)
		obsErrCh, err = obsSrv.Start()
		if err != nil {
			errutil.LogError(logger, "failed to start observability server", err)
			return err
		}
		metrics = obsSrv.Metrics()
	}

	go sessions.SweepLoop(ctx, cfg.SweepInterval, func(n int) {
		if metrics != nil {
			metrics.SessionsSweptTotal.Add(float64(n))
		}
	})

	handlers := httpapi.NewHandlers(forumSvc, accounts, resolver, cfg.SessionTTL, logger)
	apiSrv := httpapi.NewServer(cfg.ListenAddr, handlers, logger, metrics)
	apiErrCh, err := apiSrv.Start()
	if err != nil {
		errutil.LogError(logger, "failed to start api server", err)
		return err
	}

	select {
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	case err = <-apiErrCh:
		if err != nil {
			errutil.LogError(logger, "api server failed", err)
		}
	case err = <-obsErrCh:
		if err != nil {
			errutil.LogError(logger, "observability server failed", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if stopErr := apiSrv.Stop(shutdownCtx); stopErr != nil {
		errutil.LogError(logger, "api server shutdown failed", stopErr)
	}
	if obsSrv != nil {
		if stopErr := obsSrv.Stop(shutdownCtx); stopErr != nil {
			errutil.LogError(logger, "observability server shutdown failed", stopErr)
		}
	}
	return err
}
