// Package server binds the HTTP port (and the optional gRPC health port)
// and shuts both down gracefully when the context ends.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shashiranjanraj/arstoys/pkg/grpc"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
)

// Options configures Run.
type Options struct {
	Port string
	// GRPCPort enables the gRPC health server when non-empty.
	GRPCPort string
	// Probe backs the gRPC health status.
	Probe           grpc.Probe
	ShutdownTimeout time.Duration
}

// Run serves handler until ctx is cancelled, then drains in-flight
// requests for at most ShutdownTimeout.
func Run(ctx context.Context, handler http.Handler, opts Options) error {
	lis, err := net.Listen("tcp", ":"+opts.Port)
	if err != nil {
		return fmt.Errorf("server: listen on :%s: %w", opts.Port, err)
	}
	return Serve(ctx, lis, handler, opts)
}

// Serve is Run on an existing listener.
func Serve(ctx context.Context, lis net.Listener, handler http.Handler, opts Options) error {
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = 10 * time.Second
	}

	var rpc *grpc.Server
	if opts.GRPCPort != "" {
		s, err := grpc.Start(ctx, opts.GRPCPort, opts.Probe)
		if err != nil {
			lis.Close()
			return err
		}
		rpc = s
	}

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("ARS Toys API listening", "addr", lis.Addr().String())
		errCh <- srv.Serve(lis)
	}()

	select {
	case err := <-errCh:
		rpc.Stop()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down", "timeout", opts.ShutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer cancel()

	err := srv.Shutdown(shutdownCtx)
	rpc.Stop()
	if err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
