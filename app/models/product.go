package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product is the bare catalog row. Promotion columns are either all unset
// (NULL/false) or describe a live promotion; they are never empty strings.
type Product struct {
	ID                  string              `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name                string              `gorm:"size:255;not null" json:"name"`
	Description         *string             `gorm:"type:text" json:"description"`
	Price               decimal.NullDecimal `gorm:"type:decimal(12,2)" json:"price"`
	ImageURL            *string             `gorm:"size:512" json:"image_url"`
	CategoryID          *string             `gorm:"size:36;index" json:"category_id"`
	IsActive            bool                `gorm:"not null" json:"is_active"`
	DisplayOrder        int                 `gorm:"not null" json:"display_order"`
	IsPromotion         bool                `gorm:"not null" json:"is_promotion"`
	PromotionText       *string             `gorm:"size:255" json:"promotion_text"`
	PromotionStart      *string             `gorm:"size:10" json:"promotion_start"`
	PromotionEnd        *string             `gorm:"size:10" json:"promotion_end"`
	SeasonalPromotionID *string             `gorm:"size:36;index" json:"seasonal_promotion_id"`
	CreatedAt           time.Time           `json:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at"`
}

// ProductWithCategory is the "product joined with its category" projection
// used by listing pages. Category columns are nil for uncategorized products.
type ProductWithCategory struct {
	Product      `gorm:"embedded"`
	CategoryName *string `json:"category_name"`
	CategorySlug *string `json:"category_slug"`
}

// LinkedTo reports whether the product currently points at promotionID.
func (p Product) LinkedTo(promotionID string) bool {
	return p.SeasonalPromotionID != nil && *p.SeasonalPromotionID == promotionID
}
