// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Stratum Contributors

package main

import (
	"github.com/spf13/cobra"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the Stratum CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stratum",
		Short: "Stratum - a floor-based discussion forum backend",
		Long: `Stratum is a discussion-forum backend: accounts, cookie sessions,
posts, and their numbered reply floors, served as a JSON API over
PostgreSQL.`,
	}

	// Global flag for config file path
	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
