package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"gorm.io/gorm"
)

type AuthUserRepositoryImpl interface {
	Create(ctx context.Context, user *models.AuthUser) error
	FindByID(ctx context.Context, id string) (*models.AuthUser, error)
	FindByEmail(ctx context.Context, email string) (*models.AuthUser, error)
	List(ctx context.Context) ([]models.AuthUser, error)
	UpdateMetadata(ctx context.Context, id string, metadata models.UserMetadata) error
	TouchLastSignIn(ctx context.Context, id string, at time.Time) error
}

type authUserRepository struct {
	db *gorm.DB
}

func NewAuthUserRepository(db *gorm.DB) AuthUserRepositoryImpl {
	return &authUserRepository{db}
}

func (r *authUserRepository) Create(ctx context.Context, user *models.AuthUser) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *authUserRepository) FindByID(ctx context.Context, id string) (*models.AuthUser, error) {
	var user models.AuthUser
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *authUserRepository) FindByEmail(ctx context.Context, email string) (*models.AuthUser, error) {
	var user models.AuthUser
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *authUserRepository) List(ctx context.Context) ([]models.AuthUser, error) {
	var users []models.AuthUser
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *authUserRepository) UpdateMetadata(ctx context.Context, id string, metadata models.UserMetadata) error {
	result := r.db.WithContext(ctx).
		Model(&models.AuthUser{ID: id}).
		Select("metadata", "updated_at").
		Updates(&models.AuthUser{Metadata: metadata})
	if result.Error != nil {
		return fmt.Errorf("failed to update metadata for user %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return requireRow(ctx, r.db, &models.AuthUser{}, id)
	}
	return nil
}

func (r *authUserRepository) TouchLastSignIn(ctx context.Context, id string, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.AuthUser{}).
		Where("id = ?", id).
		Update("last_sign_in_at", at).Error
}
