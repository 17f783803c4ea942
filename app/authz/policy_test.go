package authz

import (
	"testing"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/stretchr/testify/assert"
)

func userWithRole(id, role string) models.AuthUser {
	return models.AuthUser{ID: id, Email: id + "@example.com", Metadata: models.UserMetadata{Role: role}}
}

func sampleUsers() []models.AuthUser {
	return []models.AuthUser{
		userWithRole("ed", "editor"),
		userWithRole("ad", "admin"),
		userWithRole("su", "superadmin"),
		userWithRole("none", ""),
		userWithRole("su2", "superadmin"),
	}
}

func ids(users []models.AuthUser) []string {
	out := make([]string, 0, len(users))
	for _, u := range users {
		out = append(out, u.ID)
	}
	return out
}

func TestListVisibleUsers(t *testing.T) {
	users := sampleUsers()

	t.Run("superadmin sees everyone", func(t *testing.T) {
		assert.Equal(t, users, ListVisibleUsers(RoleSuperadmin, users))
	})

	t.Run("admin never sees superadmins", func(t *testing.T) {
		got := ListVisibleUsers(RoleAdmin, users)
		assert.Equal(t, []string{"ed", "ad", "none"}, ids(got))
		for _, u := range got {
			assert.NotEqual(t, RoleSuperadmin, RoleOf(u))
		}
	})

	t.Run("editor sees nobody", func(t *testing.T) {
		got := ListVisibleUsers(RoleEditor, users)
		assert.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("unknown role sees nobody", func(t *testing.T) {
		assert.Empty(t, ListVisibleUsers(Role("guest"), users))
	})

	t.Run("admin filter does not touch input", func(t *testing.T) {
		before := ids(users)
		_ = ListVisibleUsers(RoleAdmin, users)
		assert.Equal(t, before, ids(users))
	})
}

func TestRoleOfFallsBackToStoredRole(t *testing.T) {
	tests := []struct {
		name     string
		metadata string
		stored   string
		want     Role
	}{
		{"metadata wins", "editor", "superadmin", RoleEditor},
		{"stored role when metadata empty", "", "superadmin", RoleSuperadmin},
		{"stored role when metadata unknown", "owner", "admin", RoleAdmin},
		{"default when both empty", "", "", RoleEditor},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := userWithRole("u", tt.metadata)
			u.StoredRole = tt.stored
			assert.Equal(t, tt.want, RoleOf(u))
		})
	}
}

func TestStoredSuperadminHiddenFromAdmin(t *testing.T) {
	boss := userWithRole("boss", "")
	boss.StoredRole = "superadmin"
	users := []models.AuthUser{userWithRole("ed", "editor"), boss}

	assert.Equal(t, []string{"ed"}, ids(ListVisibleUsers(RoleAdmin, users)))
	assert.False(t, CanManageUser(RoleAdmin, RoleOf(boss)))
	assert.True(t, CanManageUser(RoleSuperadmin, RoleOf(boss)))
}

func TestCanAssignRole(t *testing.T) {
	for _, acting := range Roles {
		for _, target := range Roles {
			want := !(target == RoleSuperadmin && acting != RoleSuperadmin)
			assert.Equalf(t, want, CanAssignRole(acting, target), "acting=%s target=%s", acting, target)
		}
	}
}

func TestCanAccessUserManagement(t *testing.T) {
	tests := []struct {
		role Role
		want bool
	}{
		{RoleEditor, false},
		{RoleAdmin, true},
		{RoleSuperadmin, true},
		{Role(""), false},
		{Role("customer"), false},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccessUserManagement(tt.role))
		})
	}
}

func TestCanManageUser(t *testing.T) {
	assert.True(t, CanManageUser(RoleSuperadmin, RoleSuperadmin))
	assert.True(t, CanManageUser(RoleAdmin, RoleAdmin))
	assert.True(t, CanManageUser(RoleAdmin, RoleEditor))
	assert.False(t, CanManageUser(RoleAdmin, RoleSuperadmin))
	assert.False(t, CanManageUser(RoleEditor, RoleEditor))
}

func TestAssignableRoles(t *testing.T) {
	assert.Equal(t, []Role{RoleEditor, RoleAdmin}, AssignableRoles(RoleAdmin))
	assert.Equal(t, Roles, AssignableRoles(RoleSuperadmin))
}
