package repositories

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/arstoys/app/filters"
	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/apperr"
)

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// List returns the products matching p, newest first.
func (r *ProductRepository) List(ctx context.Context, p filters.Predicate) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.WithContext(ctx).
		Scopes(p.Scope).
		Order("created_at DESC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, apperr.NotFound("Product not found")
	}
	if err != nil {
		return p, fmt.Errorf("find product: %w", err)
	}
	return p, nil
}

// Create persists a new product record.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("create product: %w", err)
	}
	return nil
}

// Save persists every column of an existing product.
func (r *ProductRepository) Save(ctx context.Context, p *models.Product) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", p.ID).
		Select("*").Omit("id", "created_at").Updates(p)
	if res.Error != nil {
		return fmt.Errorf("save product: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Product not found")
	}
	return nil
}

// Delete removes a product and returns the row as it was, so the caller
// can release its image.
func (r *ProductRepository) Delete(ctx context.Context, id string) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return p, apperr.NotFound("Product not found")
	}
	if err != nil {
		return p, fmt.Errorf("delete product: %w", err)
	}
	return p, nil
}
