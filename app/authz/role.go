// Package authz holds the back-office permission lattice: how the effective
// role of a signed-in principal is derived and what each role may see or do.
package authz

import "strings"

type Role string

const (
	RoleEditor     Role = "editor"
	RoleAdmin      Role = "admin"
	RoleSuperadmin Role = "superadmin"
)

// DefaultRole is assumed whenever no role can be determined.
const DefaultRole = RoleEditor

// Roles lists every role from least to most privileged.
var Roles = []Role{RoleEditor, RoleAdmin, RoleSuperadmin}

func (r Role) level() int {
	switch r {
	case RoleSuperadmin:
		return 3
	case RoleAdmin:
		return 2
	case RoleEditor:
		return 1
	default:
		return 0
	}
}

// AtLeast reports whether r is as privileged as min or more.
func (r Role) AtLeast(min Role) bool {
	return r.level() >= min.level() && r.level() > 0
}

func (r Role) Valid() bool {
	return r.level() > 0
}

func (r Role) String() string {
	return string(r)
}

// ParseRole accepts the canonical role names, case-insensitively.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", false
	}
	return r, true
}
