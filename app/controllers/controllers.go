// Package controllers adapts HTTP requests onto the storefront services.
// Handlers decode input, call one service method and write the JSON
// envelope; business rules live in app/services.
package controllers

import (
	"context"
	"net/url"

	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/app/services"
	"github.com/shashiranjanraj/arstoys/pkg/auth"
	"github.com/shashiranjanraj/arstoys/pkg/images"
)

// Authenticator is the part of *services.AuthService the auth routes use.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, models.Admin, error)
	Me(ctx context.Context, id *auth.Identity) (models.Admin, error)
}

// Catalog is the part of *services.CatalogService the product routes use.
type Catalog interface {
	List(ctx context.Context, q url.Values) ([]models.Product, error)
	Get(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, in services.ProductInput, upload *images.Upload) (models.Product, error)
	Update(ctx context.Context, id string, in services.ProductInput, upload *images.Upload) (models.Product, error)
	Delete(ctx context.Context, id string) error
}

// Orders is the part of *services.OrderService the order routes use.
type Orders interface {
	Place(ctx context.Context, in services.PlaceInput) (models.Order, error)
	List(ctx context.Context, q url.Values) ([]models.Order, error)
	Get(ctx context.Context, id string) (models.Order, error)
	SetStatus(ctx context.Context, id, status string) (models.Order, error)
	Delete(ctx context.Context, id string) error
	Stats(ctx context.Context) (services.Stats, error)
}
