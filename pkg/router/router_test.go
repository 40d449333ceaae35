package router_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/arstoys/pkg/router"
)

func tag(value string) router.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("X-Chain", value)
			next.ServeHTTP(w, r)
		})
	}
}

func TestGroupMiddlewareOrderAndParams(t *testing.T) {
	r := router.New()
	api := r.Group("/api", tag("api"))
	orders := api.Group("orders", tag("auth"))
	orders.Put("/{id}/status", "orders.status", func(w http.ResponseWriter, req *http.Request) {
		_, _ = w.Write([]byte(router.Param(req, "id") + " " + router.Pattern(req)))
	})

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPut, "/api/orders/abc/status", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"api", "auth"}, rec.Header().Values("X-Chain"))
	assert.Equal(t, "abc /api/orders/{id}/status", rec.Body.String())
}

func TestNamedRoutesAndListing(t *testing.T) {
	r := router.New()
	api := r.Group("/api")
	noop := func(http.ResponseWriter, *http.Request) {}
	api.Get("/products/{id}", "products.show", noop)
	api.Delete("/products/{id}", "products.destroy", noop)
	api.Get("/config", "", noop)

	url, err := r.URL("products.show", map[string]string{"id": "42"})
	require.NoError(t, err)
	assert.Equal(t, "/api/products/42", url)

	_, err = r.URL("products.show", nil)
	assert.Error(t, err)

	routes := r.Routes()
	require.Len(t, routes, 3)
	assert.Equal(t, router.RouteInfo{Method: http.MethodGet, Path: "/api/config"}, routes[0])
	assert.Equal(t, http.MethodDelete, routes[1].Method)
	assert.Equal(t, "products.show", routes[2].Name)
}
