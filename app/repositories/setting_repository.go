package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"gorm.io/gorm"
)

type SettingRepositoryImpl interface {
	GetAll(ctx context.Context) ([]models.SiteSetting, error)
	UpdateValue(ctx context.Context, key, value string) error
	EnsureDefaults(ctx context.Context, defaults map[string]string) (int, error)
}

type settingRepository struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepositoryImpl {
	return &settingRepository{db: db}
}

func (r *settingRepository) GetAll(ctx context.Context) ([]models.SiteSetting, error) {
	var settings []models.SiteSetting
	if err := r.db.WithContext(ctx).Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateValue writes an existing key. Keys are created by EnsureDefaults only,
// so a missing key is reported as gorm.ErrRecordNotFound.
func (r *settingRepository) UpdateValue(ctx context.Context, key, value string) error {
	// key is reserved in MySQL; struct conditions get quoted per dialect.
	result := r.db.WithContext(ctx).
		Model(&models.SiteSetting{}).
		Where(&models.SiteSetting{Key: key}).
		Update("value", value)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.SiteSetting{}).Where(&models.SiteSetting{Key: key}).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// EnsureDefaults inserts every missing key with its default value and
// reports how many rows were created. Existing values are never overwritten.
func (r *settingRepository) EnsureDefaults(ctx context.Context, defaults map[string]string) (int, error) {
	created := 0
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for key, value := range defaults {
			var existing models.SiteSetting
			err := tx.Where(&models.SiteSetting{Key: key}).First(&existing).Error
			if err == nil {
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			v := value
			if err := tx.Create(&models.SiteSetting{ID: uuid.New().String(), Key: key, Value: &v}).Error; err != nil {
				return err
			}
			created++
		}
		return nil
	})
	return created, err
}
