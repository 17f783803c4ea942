package authz

import "github.com/josebdo/Cristal-Event-Planner/app/models"

// CanAccessUserManagement gates the whole user-management page.
func CanAccessUserManagement(role Role) bool {
	return role == RoleAdmin || role == RoleSuperadmin
}

// ListVisibleUsers filters users down to what role may enumerate:
// superadmins see everyone, admins everyone but superadmins, editors nobody.
func ListVisibleUsers(role Role, users []models.AuthUser) []models.AuthUser {
	switch role {
	case RoleSuperadmin:
		return users
	case RoleAdmin:
		visible := make([]models.AuthUser, 0, len(users))
		for _, u := range users {
			if RoleOf(u) == RoleSuperadmin {
				continue
			}
			visible = append(visible, u)
		}
		return visible
	default:
		return []models.AuthUser{}
	}
}

// CanAssignRole applies to both user creation and role updates. Only a
// superadmin may hand out the superadmin role.
func CanAssignRole(acting, target Role) bool {
	if target == RoleSuperadmin {
		return acting == RoleSuperadmin
	}
	return true
}

// CanManageUser reports whether acting may edit an account that currently
// holds target. It mirrors ListVisibleUsers: you can only edit who you see.
func CanManageUser(acting, target Role) bool {
	switch acting {
	case RoleSuperadmin:
		return true
	case RoleAdmin:
		return target != RoleSuperadmin
	default:
		return false
	}
}

// AssignableRoles returns the roles acting may pick in a role selector.
func AssignableRoles(acting Role) []Role {
	out := make([]Role, 0, len(Roles))
	for _, r := range Roles {
		if CanAssignRole(acting, r) {
			out = append(out, r)
		}
	}
	return out
}
