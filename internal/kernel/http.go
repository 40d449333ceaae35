// Package kernel builds the storefront's HTTP kernel: the global middleware
// stack and the endpoints that live outside /api.
package kernel

import (
	"context"
	"net/http"

	"github.com/shashiranjanraj/arstoys/pkg/metrics"
	"github.com/shashiranjanraj/arstoys/pkg/middleware"
	"github.com/shashiranjanraj/arstoys/pkg/reqid"
	"github.com/shashiranjanraj/arstoys/pkg/response"
	"github.com/shashiranjanraj/arstoys/pkg/router"
)

// Options configures the kernel.
type Options struct {
	// FrontendURL is the allowed CORS origin ("*" for any).
	FrontendURL string
	// Limiter throttles clients; nil disables rate limiting.
	Limiter *middleware.RateLimiter
	// Health reports whether the backing stores are reachable.
	Health func(ctx context.Context) error
	// UploadsPrefix and UploadsDir serve locally stored images. An empty
	// UploadsDir leaves the static route out.
	UploadsPrefix string
	UploadsDir    string
}

// New returns a router with the global middleware installed and the
// /health, /metrics and uploads routes mounted. Callers add /api routes.
func New(opts Options) *router.Router {
	r := router.New()

	// Outermost first:
	//  1. metrics   — total latency including everything below
	//  2. recovery  — panics become a 500 envelope
	//  3. reqid     — before anything logs
	//  4. logger    — tags the request logger with request_id
	//  5. CORS      — answers preflights before throttling
	//  6. rate      — rejects abusive clients early
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSFromOrigin(opts.FrontendURL)))
	if opts.Limiter != nil {
		r.Use(opts.Limiter.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", "health", health(opts.Health))
	r.Get("/metrics", "metrics", metrics.Handler())

	if opts.UploadsDir != "" {
		prefix := opts.UploadsPrefix
		if prefix == "" {
			prefix = "/uploads"
		}
		r.Static(prefix, http.Dir(opts.UploadsDir))
	}
	return r
}

func health(check func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if check != nil {
			if err := check(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "Service unavailable")
				return
			}
		}
		response.Success(w, response.Payload{"status": "ok"})
	}
}
