package migrations

import (
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"gorm.io/gorm"
)

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.AuthUser{}, &models.User{}, &models.Category{}, &models.SeasonalPromotion{}, &models.Product{}, &models.SiteSetting{})
}
