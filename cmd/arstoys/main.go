// Command arstoys runs the ARS Toys storefront API and its maintenance
// tasks:
//
//	arstoys serve              # HTTP API (+ gRPC health when GRPC_PORT is set)
//	arstoys migrate            # apply pending migrations
//	arstoys migrate:rollback   # revert the last batch
//	arstoys migrate:status
//	arstoys seed               # default admin + sample catalog
//	arstoys route:list
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/arstoys/config"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "arstoys",
	Short:         "ARS Toys storefront API",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return config.Load()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)
}
