package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/apperr"
)

// AdminRepository handles database operations for Admin.
type AdminRepository struct {
	db *gorm.DB
}

func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// FindByEmail looks up an admin by email, case-insensitively.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return a, apperr.NotFound("Admin not found")
	}
	if err != nil {
		return a, fmt.Errorf("find admin: %w", err)
	}
	return a, nil
}

// FindByID looks up an admin by primary key.
func (r *AdminRepository) FindByID(ctx context.Context, id string) (models.Admin, error) {
	var a models.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return a, apperr.NotFound("Admin not found")
	}
	if err != nil {
		return a, fmt.Errorf("find admin: %w", err)
	}
	return a, nil
}

// Create persists a new admin. The email is stored lower-cased.
func (r *AdminRepository) Create(ctx context.Context, a *models.Admin) error {
	a.Email = strings.ToLower(strings.TrimSpace(a.Email))
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
