package app

import (
	"context"

	"github.com/shashiranjanraj/arstoys/internal/server"
)

// Serve runs the HTTP server (plus the gRPC health port when configured)
// until ctx is cancelled. The application must be booted.
func (a *Application) Serve(ctx context.Context) error {
	if a.State() != StateReady {
		return ErrNotReady
	}
	// Open event streams never go idle; end them so shutdown can drain.
	stop := context.AfterFunc(ctx, a.Feed.Close)
	defer stop()

	return server.Run(ctx, a.Handler(), server.Options{
		Port:     a.cfg.Port,
		GRPCPort: a.cfg.GRPCPort,
		Probe:    a.Ping,
	})
}
