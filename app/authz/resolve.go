package authz

import (
	"context"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"go.uber.org/zap"
)

// RoleLookup reads the fallback role column of the users table.
// An empty string with a nil error means the principal has no row.
type RoleLookup interface {
	RoleByUserID(ctx context.Context, userID string) (string, error)
}

// ResolveRole derives the effective role of principal: the metadata claim
// first, then the users table, then DefaultRole. A failing lookup degrades
// to DefaultRole instead of blocking the request.
func ResolveRole(ctx context.Context, principal *models.AuthUser, lookup RoleLookup) Role {
	if principal == nil {
		return DefaultRole
	}

	if role, ok := ParseRole(principal.Metadata.Role); ok {
		return role
	}

	if lookup == nil {
		return DefaultRole
	}

	stored, err := lookup.RoleByUserID(ctx, principal.ID)
	if err != nil {
		zap.S().Warnw("ResolveRole: role lookup failed, using default role",
			"user_id", principal.ID,
			"default_role", DefaultRole,
			"error", err,
		)
		return DefaultRole
	}

	if role, ok := ParseRole(stored); ok {
		return role
	}
	return DefaultRole
}

// RoleOf is the effective role of a listed identity, resolved in the same
// order as ResolveRole from the metadata claim and the StoredRole the
// listing attached.
func RoleOf(user models.AuthUser) Role {
	if role, ok := ParseRole(user.Metadata.Role); ok {
		return role
	}
	if role, ok := ParseRole(user.StoredRole); ok {
		return role
	}
	return DefaultRole
}
