package routes

import (
	"fmt"
	"net/http"

	"github.com/shashiranjanraj/arstoys/app/controllers"
	"github.com/shashiranjanraj/arstoys/pkg/middleware"
	"github.com/shashiranjanraj/arstoys/pkg/rbac"
	"github.com/shashiranjanraj/arstoys/pkg/router"
)

// Deps are the collaborators the API routes are built from.
type Deps struct {
	Verifier middleware.Verifier
	Auth     controllers.Authenticator
	Catalog  controllers.Catalog
	Orders   controllers.Orders
	// Live and Events serve the admin order feed over websocket and
	// event-stream; nil leaves the route out.
	Live     http.Handler
	Events   http.Handler
	WANumber string
	// MaxUploadBytes caps product image uploads; the image store must be
	// built with the same value.
	MaxUploadBytes int64
}

// RegisterAPI mounts every /api route on r.
func RegisterAPI(r *router.Router, d Deps) error {
	authController := controllers.NewAuthController(d.Auth)
	productController := controllers.NewProductController(d.Catalog, d.MaxUploadBytes)
	orderController := controllers.NewOrderController(d.Orders)

	graphqlHandler, err := controllers.GraphQL(d.Catalog)
	if err != nil {
		return fmt.Errorf("routes: graphql schema: %w", err)
	}

	api := r.Group("/api")
	admin := api.Group("", middleware.Authenticate(d.Verifier), rbac.HasRole(rbac.RoleAdmin))

	// Auth
	api.Post("/auth/login", "auth.login", authController.Login)
	admin.Get("/auth/me", "auth.me", authController.Me)
	admin.Post("/auth/logout", "auth.logout", authController.Logout)

	// Catalog
	api.Get("/products", "products.index", productController.Index)
	api.Get("/products/{id}", "products.show", productController.Show)
	admin.Post("/products", "products.store", productController.Store)
	admin.Put("/products/{id}", "products.update", productController.Update)
	admin.Delete("/products/{id}", "products.destroy", productController.Destroy)
	api.Get("/graphql", "graphql.query", graphqlHandler)
	api.Post("/graphql", "graphql.execute", graphqlHandler)

	// Orders
	api.Post("/orders", "orders.store", orderController.Store)
	admin.Get("/orders", "orders.index", orderController.Index)
	admin.Get("/orders/stats", "orders.stats", orderController.Stats)
	if d.Live != nil {
		admin.Get("/orders/live", "orders.live", d.Live.ServeHTTP)
	}
	if d.Events != nil {
		admin.Get("/orders/events", "orders.events", d.Events.ServeHTTP)
	}
	admin.Get("/orders/{id}", "orders.show", orderController.Show)
	admin.Put("/orders/{id}/status", "orders.status", orderController.UpdateStatus)
	admin.Delete("/orders/{id}", "orders.destroy", orderController.Destroy)

	api.Get("/config", "config.show", controllers.Config(d.WANumber))
	return nil
}
