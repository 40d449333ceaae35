package app

import (
	"net/http"
	"strings"

	"github.com/shashiranjanraj/arstoys/app/routes"
	"github.com/shashiranjanraj/arstoys/internal/kernel"
	"github.com/shashiranjanraj/arstoys/pkg/router"
	"github.com/shashiranjanraj/arstoys/pkg/storage"
)

// buildRouter mounts the kernel endpoints and the /api routes over the
// booted services.
func (a *Application) buildRouter() (*router.Router, error) {
	opts := kernel.Options{
		FrontendURL:   a.cfg.FrontendURL,
		Limiter:       a.Limiter,
		Health:        a.Ping,
		UploadsPrefix: a.cfg.Storage.LocalURL,
	}
	// Only the local disk is served from here; S3 URLs point at the bucket.
	if d, ok := a.Storage.Disk().(*storage.LocalDisk); ok {
		opts.UploadsDir = d.Root()
	}

	a.Hub.SetCheckOrigin(originChecker(a.cfg.FrontendURL))

	r := kernel.New(opts)
	err := routes.RegisterAPI(r, routes.Deps{
		Verifier: a.Auth,
		Auth:     a.Auth,
		Catalog:  a.Catalog,
		Orders:   a.Orders,
		Live:     a.Hub,
		Events:   a.Feed,
		WANumber: a.cfg.WANumber,

		MaxUploadBytes: a.cfg.MaxUploadBytes,
	})
	return r, err
}

// originChecker allows websocket upgrades from the configured frontend
// origins. Requests without an Origin header are not browsers and pass.
func originChecker(frontend string) func(*http.Request) bool {
	frontend = strings.TrimSpace(frontend)
	if frontend == "" || frontend == "*" {
		return func(*http.Request) bool { return true }
	}
	allowed := map[string]bool{}
	for _, o := range strings.Split(frontend, ",") {
		allowed[strings.TrimRight(strings.TrimSpace(o), "/")] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || allowed[origin]
	}
}
