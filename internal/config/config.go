// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

// Package config loads server configuration from defaults, an optional YAML
// file, and command-line flags, in increasing order of precedence.
package config

import (
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Defaults for every tunable. Flag definitions in cmd/ reuse these so the
// same value applies whether a key comes from a flag default, a file, or an
// explicit flag.
const (
	DefaultListenAddr        = ":3000"
	DefaultMetricsAddr       = "127.0.0.1:9100"
	DefaultLogFormat         = "json"
	DefaultDBMaxConns        = 6
	DefaultSessionTTL        = 24 * time.Hour
	DefaultSweepInterval     = 10 * time.Minute
	DefaultMaxFloorWindow    = 30
	DefaultRecentPostLimit   = 10
	DefaultMinPasswordLength = 6
	DefaultCookieName        = "session_id"
)

// Config holds the full server configuration.
type Config struct {
	ListenAddr        string
	MetricsAddr       string
	DatabaseURL       string
	DBMaxConns        int
	LogFormat         string
	SessionTTL        time.Duration
	SweepInterval     time.Duration
	MaxFloorWindow    uint
	RecentPostLimit   int
	MinPasswordLength int
	CookieName        string
}

// Load assembles the configuration. Precedence, lowest to highest: flag
// defaults, the YAML file at path (when non-empty), explicitly set flags.
// DATABASE_URL from the environment backfills an unset database-url key.
func Load(path string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrap(err)
		}
	}

	// posflag fills in flag defaults only for keys the file did not set,
	// and always wins for flags set on the command line.
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, oops.Code("CONFIG_FLAGS_FAILED").Wrap(err)
	}

	cfg := &Config{
		ListenAddr:        k.String("listen-addr"),
		MetricsAddr:       k.String("metrics-addr"),
		DatabaseURL:       k.String("database-url"),
		DBMaxConns:        k.Int("db-max-conns"),
		LogFormat:         k.String("log-format"),
		SessionTTL:        k.Duration("session-ttl"),
		SweepInterval:     k.Duration("session-sweep-interval"),
		MaxFloorWindow:    uint(k.Int("max-floor-window")),
		RecentPostLimit:   k.Int("recent-post-limit"),
		MinPasswordLength: k.Int("min-password-length"),
		CookieName:        k.String("session-cookie"),
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	}

	return cfg, nil
}

// Validate checks that the configuration can run a server.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return oops.Code("CONFIG_INVALID").Errorf("listen-addr is required")
	}
	if c.DatabaseURL == "" {
		return oops.Code("CONFIG_INVALID").Errorf("database-url is required (flag, config file, or DATABASE_URL)")
	}
	if c.LogFormat != "json" && c.LogFormat != "text" {
		return oops.Code("CONFIG_INVALID").Errorf("log-format must be 'json' or 'text', got %q", c.LogFormat)
	}
	if c.MaxFloorWindow < 1 {
		return oops.Code("CONFIG_INVALID").Errorf("max-floor-window must be at least 1")
	}
	if c.RecentPostLimit < 1 {
		return oops.Code("CONFIG_INVALID").Errorf("recent-post-limit must be at least 1")
	}
	if c.SessionTTL <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session-ttl must be positive")
	}
	if c.SweepInterval <= 0 {
		return oops.Code("CONFIG_INVALID").Errorf("session-sweep-interval must be positive")
	}
	return nil
}
