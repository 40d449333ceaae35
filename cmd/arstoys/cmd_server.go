package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/arstoys/pkg/app"
)

// arstoys serve
var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"run", "start"},
	Short:   "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a := app.New(app.ConfigFromEnv())
		if err := a.Boot(ctx); err != nil {
			return err
		}
		defer a.Shutdown(context.Background())

		return a.Serve(ctx)
	},
}

// arstoys route:list
var routeListCmd = &cobra.Command{
	Use:     "route:list",
	Aliases: []string{"routes"},
	Short:   "List all registered routes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return app.RouteList(cmd.OutOrStdout())
	},
}
