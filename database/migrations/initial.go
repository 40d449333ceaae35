package migrations

import (
	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/pkg/migration"
	"gorm.io/gorm"
)

func init() {
	migration.Register("20260301000000_create_admins_table", &CreateAdminsTable{})
	migration.Register("20260301000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260301000002_create_orders_tables", &CreateOrdersTables{})
	migration.Register("20260301000003_create_sequences_table", &CreateSequencesTable{})
}

// -------- 0000: admins --------

type CreateAdminsTable struct{}

func (m *CreateAdminsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Admin{})
}

func (m *CreateAdminsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Admin{})
}

// -------- 0001: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Product{})
}

// -------- 0002: orders + order_items --------

type CreateOrdersTables struct{}

func (m *CreateOrdersTables) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{}, &models.OrderItem{})
}

func (m *CreateOrdersTables) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.OrderItem{}, &models.Order{})
}

// -------- 0003: sequences --------

type CreateSequencesTable struct{}

func (m *CreateSequencesTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Sequence{})
}

func (m *CreateSequencesTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable(&models.Sequence{})
}
