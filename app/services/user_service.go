package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/josebdo/Cristal-Event-Planner/app/authz"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/metrics"
	"go.uber.org/zap"
)

type UserInput struct {
	Email    string `validate:"required,email,max=100"`
	Password string `validate:"required,min=6,max=72"`
	Role     string `validate:"required"`
}

// UserService applies the role gates around user administration. Every
// gate runs before the identity admin is called.
type UserService struct {
	admin    UserAdmin
	validate *validator.Validate
}

// NewUserService accepts a nil admin when no service role key is
// configured; operations then fail with ErrServiceKeyMissing after gating.
func NewUserService(admin UserAdmin, validate *validator.Validate) *UserService {
	return &UserService{admin: admin, validate: validate}
}

func (s *UserService) deny(operation string, ac authz.AuthContext, detail string) error {
	metrics.AccessDeniedTotal.WithLabelValues(operation).Inc()
	zap.S().Warnw("UserService: access denied", "operation", operation, "user_id", ac.UserID(), "role", ac.Role, "detail", detail)
	return fmt.Errorf("%s: %w", operation, ErrUnauthorized)
}

// List returns the principals the acting role may see.
func (s *UserService) List(ctx context.Context, ac authz.AuthContext) ([]models.AuthUser, error) {
	if !authz.CanAccessUserManagement(ac.Role) {
		return nil, s.deny("list_users", ac, "user management requires admin")
	}
	if s.admin == nil {
		return nil, ErrServiceKeyMissing
	}
	users, err := s.admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	return authz.ListVisibleUsers(ac.Role, users), nil
}

func (s *UserService) Create(ctx context.Context, ac authz.AuthContext, input UserInput) (*models.AuthUser, error) {
	if !authz.CanAccessUserManagement(ac.Role) {
		return nil, s.deny("create_user", ac, "user management requires admin")
	}

	role, ok := authz.ParseRole(input.Role)
	if !ok {
		return nil, NewValidationError("role", "Rol desconocido.")
	}
	if !authz.CanAssignRole(ac.Role, role) {
		return nil, s.deny("create_user", ac, "cannot assign role "+role.String())
	}

	input.Email = strings.TrimSpace(input.Email)
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}

	if s.admin == nil {
		return nil, ErrServiceKeyMissing
	}
	user, err := s.admin.CreateUser(ctx, input.Email, input.Password, models.UserMetadata{Role: role.String()})
	if err != nil {
		return nil, err
	}
	zap.S().Infow("UserService.Create: user created", "user_id", user.ID, "role", role, "by", ac.UserID())
	return user, nil
}

// UpdateRole changes a principal's role. Besides the assignment gate, an
// admin may not touch a superadmin account.
func (s *UserService) UpdateRole(ctx context.Context, ac authz.AuthContext, userID, newRole string) error {
	if !authz.CanAccessUserManagement(ac.Role) {
		return s.deny("update_role", ac, "user management requires admin")
	}
	role, ok := authz.ParseRole(newRole)
	if !ok {
		return NewValidationError("role", "Rol desconocido.")
	}
	if !authz.CanAssignRole(ac.Role, role) {
		return s.deny("update_role", ac, "cannot assign role "+role.String())
	}

	if s.admin == nil {
		return ErrServiceKeyMissing
	}
	target, err := s.admin.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if !authz.CanManageUser(ac.Role, authz.RoleOf(*target)) {
		return s.deny("update_role", ac, "target outranks actor")
	}

	metadata := target.Metadata
	metadata.Role = role.String()
	if err := s.admin.UpdateUserMetadata(ctx, userID, metadata); err != nil {
		return err
	}
	zap.S().Infow("UserService.UpdateRole: role updated", "user_id", userID, "role", role, "by", ac.UserID())
	return nil
}
