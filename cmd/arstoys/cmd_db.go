package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/arstoys/pkg/app"
	"github.com/shashiranjanraj/arstoys/pkg/database"
)

// arstoys migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Running migrations…")
		return app.Migrate(database.FromEnv(), cmd.OutOrStdout())
	},
}

// arstoys migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:     "migrate:rollback",
	Aliases: []string{"migrate:down"},
	Short:   "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Rolling back last batch…")
		return app.Rollback(database.FromEnv(), cmd.OutOrStdout())
	},
}

// arstoys migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.MigrationStatus(database.FromEnv(), cmd.OutOrStdout())
	},
}

// arstoys seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the default admin and sample products when missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return app.Seed(cmd.Context(), database.FromEnv(), cmd.OutOrStdout())
	},
}
