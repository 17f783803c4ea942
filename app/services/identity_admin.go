package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/repositories"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// UserAdmin is the elevated identity surface used by user management.
type UserAdmin interface {
	CreateUser(ctx context.Context, email, password string, metadata models.UserMetadata) (*models.AuthUser, error)
	ListUsers(ctx context.Context) ([]models.AuthUser, error)
	GetUser(ctx context.Context, id string) (*models.AuthUser, error)
	UpdateUserMetadata(ctx context.Context, id string, metadata models.UserMetadata) error
}

// IdentityAdmin performs principal administration. It exists only when the
// service role key is configured and is never wired to public routes.
type IdentityAdmin struct {
	users    repositories.AuthUserRepositoryImpl
	profiles repositories.UserRepositoryImpl
}

func NewIdentityAdmin(serviceRoleKey string, users repositories.AuthUserRepositoryImpl, profiles repositories.UserRepositoryImpl) (*IdentityAdmin, error) {
	if strings.TrimSpace(serviceRoleKey) == "" {
		return nil, ErrServiceKeyMissing
	}
	return &IdentityAdmin{users: users, profiles: profiles}, nil
}

func (a *IdentityAdmin) CreateUser(ctx context.Context, email, password string, metadata models.UserMetadata) (*models.AuthUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.AuthUser{
		Email:        strings.ToLower(strings.TrimSpace(email)),
		PasswordHash: string(hash),
		Metadata:     metadata,
	}
	if err := a.users.Create(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return nil, NewValidationError("email", "Ya existe un usuario con ese correo.")
		}
		return nil, storeError(err)
	}

	a.syncProfile(ctx, user)
	return user, nil
}

// ListUsers returns every principal with its stored role attached, so role
// checks over the listing see the same role the principal signs in with.
func (a *IdentityAdmin) ListUsers(ctx context.Context) ([]models.AuthUser, error) {
	users, err := a.users.List(ctx)
	if err != nil {
		return nil, storeError(err)
	}
	if err := a.attachStoredRoles(ctx, users); err != nil {
		return nil, err
	}
	return users, nil
}

func (a *IdentityAdmin) GetUser(ctx context.Context, id string) (*models.AuthUser, error) {
	user, err := a.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if user == nil {
		return nil, fmt.Errorf("user %s: %w", id, ErrNotFound)
	}
	one := []models.AuthUser{*user}
	if err := a.attachStoredRoles(ctx, one); err != nil {
		return nil, err
	}
	return &one[0], nil
}

// attachStoredRoles fails closed: without the users table roles a
// superadmin could be listed to an admin.
func (a *IdentityAdmin) attachStoredRoles(ctx context.Context, users []models.AuthUser) error {
	ids := make([]string, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	roles, err := a.profiles.RolesByUserIDs(ctx, ids)
	if err != nil {
		return storeError(err)
	}
	for i := range users {
		users[i].StoredRole = roles[users[i].ID]
	}
	return nil
}

func (a *IdentityAdmin) UpdateUserMetadata(ctx context.Context, id string, metadata models.UserMetadata) error {
	if err := a.users.UpdateMetadata(ctx, id, metadata); err != nil {
		return storeError(err)
	}
	user, err := a.users.FindByID(ctx, id)
	if err == nil && user != nil {
		a.syncProfile(ctx, user)
	}
	return nil
}

// syncProfile mirrors the metadata role into the users table. The metadata
// is authoritative, so a failed mirror write is only logged.
func (a *IdentityAdmin) syncProfile(ctx context.Context, user *models.AuthUser) {
	if user.Metadata.Role == "" {
		return
	}
	profile := &models.User{ID: user.ID, Email: user.Email, Role: user.Metadata.Role}
	if err := a.profiles.Upsert(ctx, profile); err != nil {
		zap.S().Warnw("IdentityAdmin: failed to mirror role into users table", "user_id", user.ID, "error", err)
	}
}
