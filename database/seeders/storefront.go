package seeders

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/arstoys/app/models"
	"github.com/shashiranjanraj/arstoys/config"
	"github.com/shashiranjanraj/arstoys/pkg/auth"
	"github.com/shashiranjanraj/arstoys/pkg/logger"
	"github.com/shashiranjanraj/arstoys/pkg/rbac"
)

func init() {
	Register("admins", SeedAdmin)
	Register("products", SeedProducts)
}

// SeedAdmin creates the default administrator when none exists.
func SeedAdmin(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(config.AdminPassword())
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	admin := models.Admin{
		ID:       uuid.NewString(),
		Name:     config.AdminName(),
		Email:    strings.ToLower(strings.TrimSpace(config.AdminEmail())),
		Password: hash,
		Role:     rbac.RoleAdmin,
	}
	if err := db.WithContext(ctx).Create(&admin).Error; err != nil {
		return err
	}
	logger.Info("seed: admin created", "email", admin.Email)
	return nil
}

type sample struct {
	name, emoji, age, desc, bg string
	category                   models.Category
	badge                      models.Badge
	price, originalPrice       int64
	rating                     float64
	reviews                    int
}

var samples = []sample{
	{"Rainbow Abacus", "🔢", "3-8 yrs", "Colorful counting beads to teach numbers and maths", "#E3F2FD", models.CategoryEducational, models.BadgeNew, 449, 599, 4.5, 24},
	{"Dinosaur Set", "🦕", "4-10 yrs", "12 realistic dinosaur figures with play mat included", "#F3E5F5", models.CategoryEducational, models.BadgeHot, 699, 899, 4.8, 56},
	{"Puzzle World Map", "🌍", "5-12 yrs", "60-piece colorful world map jigsaw puzzle", "#E8F5E9", models.CategoryEducational, models.BadgeTop, 549, 0, 4.3, 18},
	{"Magic Drawing Board", "🎨", "2-7 yrs", "Erasable LCD writing tablet with stylus pen", "#FFF3E0", models.CategoryCreative, models.BadgeSale, 299, 399, 4.6, 42},
	{"Racing Car Set", "🏎️", "5-12 yrs", "4 friction-powered cars with loop track & launcher", "#FCE4EC", models.CategoryVehicles, models.BadgeHot, 899, 1199, 4.7, 89},
	{"Giant Teddy Bear", "🧸", "1+ yrs", "Super soft 60cm teddy bear, perfect gift for all ages", "#FFF8E1", models.CategoryStuffed, models.BadgeTop, 1299, 1599, 4.9, 134},
	{"RC Helicopter", "🚁", "8+ yrs", "3.5 channel indoor remote control helicopter", "#E0F7FA", models.CategoryElectronic, models.BadgeNew, 1499, 1999, 4.4, 31},
	{"Cricket Set Junior", "🏏", "5-14 yrs", "Plastic bat, ball, stumps - full junior cricket kit", "#E8F5E9", models.CategoryOutdoor, models.BadgeHot, 699, 899, 4.5, 67},
	{"Building Blocks 100pc", "🟦", "3-10 yrs", "100 colorful interlocking blocks for creative building", "#F3E5F5", models.CategoryEducational, models.BadgeTop, 599, 749, 4.6, 45},
	{"Remote Control Car", "🚗", "6+ yrs", "High-speed 1:18 scale RC car with rechargeable battery", "#E3F2FD", models.CategoryVehicles, models.BadgeHot, 1199, 1499, 4.7, 92},
}

// SampleProducts builds the starter catalog. The first sample is the
// newest, so listings show them in declaration order.
func SampleProducts(now time.Time) []models.Product {
	products := make([]models.Product, 0, len(samples))
	for i, s := range samples {
		created := now.Add(-time.Duration(i) * time.Second)
		p := models.Product{
			ID:        uuid.NewString(),
			Name:      s.name,
			Category:  s.category,
			Emoji:     s.emoji,
			Price:     decimal.NewFromInt(s.price),
			Age:       s.age,
			Desc:      s.desc,
			Badge:     s.badge,
			Bg:        s.bg,
			InStock:   true,
			Rating:    s.rating,
			Reviews:   s.reviews,
			CreatedAt: created,
			UpdatedAt: created,
		}
		if s.originalPrice > 0 {
			p.OriginalPrice = decimal.NewNullDecimal(decimal.NewFromInt(s.originalPrice))
		}
		products = append(products, p)
	}
	return products
}

// SeedProducts inserts the starter catalog when the catalog is empty.
func SeedProducts(ctx context.Context, db *gorm.DB) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := SampleProducts(time.Now())
	if err := db.WithContext(ctx).Create(&products).Error; err != nil {
		return err
	}
	logger.Info("seed: sample products created", "count", len(products))
	return nil
}
