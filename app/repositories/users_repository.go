package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepositoryImpl reads and writes the users profile table, the fallback
// source of a principal's role.
type UserRepositoryImpl interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	RoleByUserID(ctx context.Context, id string) (string, error)
	RolesByUserIDs(ctx context.Context, ids []string) (map[string]string, error)
	Upsert(ctx context.Context, user *models.User) error
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepositoryImpl {
	return &userRepository{db}
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// RoleByUserID returns "" without error when the principal has no profile row.
func (r *userRepository) RoleByUserID(ctx context.Context, id string) (string, error) {
	user, err := r.FindByID(ctx, id)
	if err != nil {
		return "", fmt.Errorf("failed to look up role for user %s: %w", id, err)
	}
	if user == nil {
		return "", nil
	}
	return user.Role, nil
}

// RolesByUserIDs maps user id to its role column. Ids without a row are absent.
func (r *userRepository) RolesByUserIDs(ctx context.Context, ids []string) (map[string]string, error) {
	roles := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return roles, nil
	}

	var users []models.User
	if err := r.db.WithContext(ctx).Select("id", "role").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to look up roles: %w", err)
	}
	for _, u := range users {
		roles[u.ID] = u.Role
	}
	return roles, nil
}

// Upsert keeps the profile row in step with the identity metadata.
func (r *userRepository) Upsert(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"email", "role", "updated_at"}),
	}).Create(user).Error
}
