package models

import "time"

// SeasonalPromotion owns no product list: membership is whatever rows in
// products carry its id in seasonal_promotion_id.
type SeasonalPromotion struct {
	ID             string    `gorm:"size:36;not null;uniqueIndex;primary_key" json:"id"`
	Name           string    `gorm:"size:255;not null" json:"name"`
	Slug           string    `gorm:"size:255;not null;uniqueIndex" json:"slug"`
	Description    *string   `gorm:"type:text" json:"description"`
	BannerImageURL *string   `gorm:"size:512" json:"banner_image_url"`
	StartDate      string    `gorm:"size:10;not null;index" json:"start_date"`
	EndDate        string    `gorm:"size:10;not null" json:"end_date"`
	IsActive       bool      `gorm:"not null" json:"is_active"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (SeasonalPromotion) TableName() string {
	return "seasonal_promotions"
}

// RunningOn reports whether the promotion is enabled and today (YYYY-MM-DD)
// falls inside its window, bounds included.
func (p SeasonalPromotion) RunningOn(today string) bool {
	return p.IsActive && p.StartDate <= today && p.EndDate >= today
}
