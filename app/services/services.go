// Package services holds the storefront's business rules. Services receive
// their stores and collaborators through constructors and return apperr
// errors the HTTP layer maps onto status codes.
package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/shashiranjanraj/arstoys/app/filters"
	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/images"
	"github.com/shashiranjanraj/arstoys/pkg/workerpool"
)

// ProductStore persists products.
type ProductStore interface {
	List(ctx context.Context, p filters.Predicate) ([]models.Product, error)
	FindByID(ctx context.Context, id string) (models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	Save(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, id string) (models.Product, error)
}

// OrderCounter is the read side the stats view needs.
type OrderCounter interface {
	Count(ctx context.Context, status models.Status) (int64, error)
	SumTotals(ctx context.Context, excluded models.Status) (decimal.Decimal, error)
}

// OrderStore persists orders and allocates their numbers.
type OrderStore interface {
	OrderCounter
	Create(ctx context.Context, o *models.Order) error
	List(ctx context.Context, p filters.Predicate) ([]models.Order, error)
	FindByID(ctx context.Context, id string) (models.Order, error)
	UpdateStatus(ctx context.Context, id string, status models.Status) (models.Order, error)
	Delete(ctx context.Context, id string) (models.Order, error)
}

// AdminStore looks up administrators.
type AdminStore interface {
	FindByEmail(ctx context.Context, email string) (models.Admin, error)
	FindByID(ctx context.Context, id string) (models.Admin, error)
}

// ImageStore stores and releases product images.
type ImageStore interface {
	Store(ctx context.Context, data []byte, meta images.Metadata) (images.Ref, error)
	Release(ctx context.Context, ref images.Ref) error
}

// Scheduler runs background jobs.
type Scheduler interface {
	Submit(name string, job workerpool.Job) error
}

// EventPublisher announces committed changes.
type EventPublisher interface {
	Fire(ctx context.Context, name string, payload interface{})
}
