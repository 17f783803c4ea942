package repositories

import (
	"context"
	"errors"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"gorm.io/gorm"
)

type PromotionRepositoryImpl interface {
	Create(ctx context.Context, promotion *models.SeasonalPromotion) error
	Update(ctx context.Context, promotion *models.SeasonalPromotion) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.SeasonalPromotion, error)
	GetAll(ctx context.Context) ([]models.SeasonalPromotion, error)
	GetRunningOn(ctx context.Context, today string) ([]models.SeasonalPromotion, error)
	GetRunningBySlug(ctx context.Context, slug, today string) (*models.SeasonalPromotion, error)
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
	CountRunningOn(ctx context.Context, today string) (int64, error)
}

type promotionRepository struct {
	db *gorm.DB
}

func NewPromotionRepository(db *gorm.DB) PromotionRepositoryImpl {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(ctx context.Context, promotion *models.SeasonalPromotion) error {
	return r.db.WithContext(ctx).Create(promotion).Error
}

func (r *promotionRepository) Update(ctx context.Context, promotion *models.SeasonalPromotion) error {
	return r.db.WithContext(ctx).Save(promotion).Error
}

func (r *promotionRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.SeasonalPromotion{}, "id = ?", id).Error
}

func (r *promotionRepository) GetByID(ctx context.Context, id string) (*models.SeasonalPromotion, error) {
	var promotion models.SeasonalPromotion
	if err := r.db.WithContext(ctx).First(&promotion, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

func (r *promotionRepository) GetAll(ctx context.Context) ([]models.SeasonalPromotion, error) {
	var promotions []models.SeasonalPromotion
	if err := r.db.WithContext(ctx).Order("start_date DESC").Find(&promotions).Error; err != nil {
		return nil, err
	}
	return promotions, nil
}

// running scopes a query to enabled promotions whose window contains today.
// Dates are stored as YYYY-MM-DD so string comparison is chronological.
func running(today string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("is_active = ?", true).
			Where("start_date <= ?", today).
			Where("end_date >= ?", today)
	}
}

func (r *promotionRepository) GetRunningOn(ctx context.Context, today string) ([]models.SeasonalPromotion, error) {
	var promotions []models.SeasonalPromotion
	err := r.db.WithContext(ctx).
		Scopes(running(today)).
		Order("start_date DESC").
		Find(&promotions).Error
	if err != nil {
		return nil, err
	}
	return promotions, nil
}

func (r *promotionRepository) GetRunningBySlug(ctx context.Context, slug, today string) (*models.SeasonalPromotion, error) {
	var promotion models.SeasonalPromotion
	err := r.db.WithContext(ctx).
		Scopes(running(today)).
		Where("slug = ?", slug).
		First(&promotion).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &promotion, nil
}

func (r *promotionRepository) SlugTaken(ctx context.Context, slug, excludeID string) (bool, error) {
	var count int64
	q := r.db.WithContext(ctx).Model(&models.SeasonalPromotion{}).Where("slug = ?", slug)
	if excludeID != "" {
		q = q.Where("id <> ?", excludeID)
	}
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *promotionRepository) CountRunningOn(ctx context.Context, today string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.SeasonalPromotion{}).
		Scopes(running(today)).
		Count(&count).Error
	return count, err
}
