package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Money renders as a JSON number, as storefront clients expect.
	decimal.MarshalJSONWithoutQuotes = true
}

// Category groups products in the storefront navigation.
type Category string

const (
	CategoryEducational Category = "educational"
	CategoryOutdoor     Category = "outdoor"
	CategoryCreative    Category = "creative"
	CategoryVehicles    Category = "vehicles"
	CategoryStuffed     Category = "stuffed"
	CategoryElectronic  Category = "electronic"
)

// Categories lists every valid category in display order.
var Categories = []Category{
	CategoryEducational, CategoryOutdoor, CategoryCreative,
	CategoryVehicles, CategoryStuffed, CategoryElectronic,
}

// Valid reports whether c is one of Categories.
func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Badge is a display-only marketing label. The empty badge means none.
type Badge string

const (
	BadgeNew  Badge = "new"
	BadgeHot  Badge = "hot"
	BadgeSale Badge = "sale"
	BadgeTop  Badge = "top"
	BadgeNone Badge = ""
)

// ParseBadge accepts the four labels plus "none" or "" for no badge.
func ParseBadge(s string) (Badge, bool) {
	switch b := Badge(s); b {
	case BadgeNew, BadgeHot, BadgeSale, BadgeTop, BadgeNone:
		return b, true
	}
	if s == "none" {
		return BadgeNone, true
	}
	return "", false
}

const (
	DefaultEmoji = "🧸"
	DefaultBg    = "#E3F2FD"
)

// Product is a catalog entry.
type Product struct {
	ID            string              `gorm:"primaryKey;size:36"            json:"_id"`
	Name          string              `gorm:"size:255;not null;index"       json:"name"`
	Category      Category            `gorm:"size:32;not null;index"        json:"category"`
	Emoji         string              `gorm:"size:32"                       json:"emoji"`
	Img           string              `gorm:"size:1024"                     json:"img"`
	ImageKey      string              `gorm:"size:512"                      json:"-"`
	Price         decimal.Decimal     `gorm:"type:decimal(12,2);not null"   json:"price"`
	OriginalPrice decimal.NullDecimal `gorm:"type:decimal(12,2)"            json:"originalPrice"`
	Age           string              `gorm:"size:64;not null"              json:"age"`
	Desc          string              `gorm:"type:text;not null"            json:"desc"`
	Badge         Badge               `gorm:"size:16"                       json:"badge"`
	Bg            string              `gorm:"size:32"                       json:"bg"`
	InStock       bool                `gorm:"not null"                      json:"inStock"`
	Rating        float64             `gorm:"not null"                      json:"rating"`
	Reviews       int                 `gorm:"not null"                      json:"reviews"`
	CreatedAt     time.Time           `gorm:"index"                         json:"createdAt"`
	UpdatedAt     time.Time           `                                     json:"updatedAt"`
}

// Fields exposes the searchable text of p to in-memory predicates.
func (p Product) Fields() map[string]string {
	return map[string]string{
		"name":     p.Name,
		"category": string(p.Category),
	}
}
