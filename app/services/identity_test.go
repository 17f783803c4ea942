package services

import (
	"context"
	"testing"
	"time"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func seededAuthUsers(t *testing.T) *fakeAuthUsers {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("secreto"), bcrypt.MinCost)
	require.NoError(t, err)
	return &fakeAuthUsers{byID: map[string]*models.AuthUser{
		"u1": {ID: "u1", Email: "ana@example.com", PasswordHash: string(hash), Metadata: models.UserMetadata{Role: "admin"}},
	}}
}

func TestIdentityService_SignInAndCurrentPrincipal(t *testing.T) {
	users := seededAuthUsers(t)
	svc := NewIdentityService(users, testSecret, time.Hour)
	ctx := context.Background()

	session, err := svc.SignIn(ctx, "  ANA@example.com ", "secreto")
	require.NoError(t, err)
	assert.NotEmpty(t, session.AccessToken)
	assert.Equal(t, "u1", session.User.ID)
	assert.Equal(t, 1, users.touched)

	// metadata changes after sign-in are visible on the next request
	users.byID["u1"].Metadata.Role = "superadmin"
	principal, err := svc.CurrentPrincipal(ctx, session.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "superadmin", principal.Metadata.Role)
}

func TestIdentityService_RejectsBadCredentials(t *testing.T) {
	svc := NewIdentityService(seededAuthUsers(t), testSecret, time.Hour)
	ctx := context.Background()

	_, err := svc.SignIn(ctx, "ana@example.com", "incorrecta")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nadie@example.com", "secreto")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentityService_RejectsBadTokens(t *testing.T) {
	users := seededAuthUsers(t)
	svc := NewIdentityService(users, testSecret, time.Hour)
	ctx := context.Background()

	session, err := svc.SignIn(ctx, "ana@example.com", "secreto")
	require.NoError(t, err)

	_, err = svc.CurrentPrincipal(ctx, "")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.CurrentPrincipal(ctx, session.AccessToken+"x")
	assert.ErrorIs(t, err, ErrUnauthorized)

	other := NewIdentityService(users, "another-secret-another-secret-xx", time.Hour)
	_, err = other.CurrentPrincipal(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	later := NewIdentityService(users, testSecret, time.Hour)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = later.CurrentPrincipal(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	delete(users.byID, "u1")
	_, err = svc.CurrentPrincipal(ctx, session.AccessToken)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestIdentityAdmin(t *testing.T) {
	_, err := NewIdentityAdmin("  ", nil, nil)
	assert.ErrorIs(t, err, ErrServiceKeyMissing)

	users := &fakeAuthUsers{byID: map[string]*models.AuthUser{}}
	profiles := &fakeProfiles{rows: map[string]models.User{}}
	admin, err := NewIdentityAdmin("service-key", users, profiles)
	require.NoError(t, err)
	ctx := context.Background()

	user, err := admin.CreateUser(ctx, " Nuevo@Example.com", "secreto", models.UserMetadata{Role: "editor"})
	require.NoError(t, err)
	assert.Equal(t, "nuevo@example.com", user.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("secreto")))
	assert.Equal(t, "editor", profiles.rows[user.ID].Role)

	_, err = admin.CreateUser(ctx, "nuevo@example.com", "otro123", models.UserMetadata{})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, admin.UpdateUserMetadata(ctx, user.ID, models.UserMetadata{Role: "admin"}))
	assert.Equal(t, "admin", users.byID[user.ID].Metadata.Role)
	assert.Equal(t, "admin", profiles.rows[user.ID].Role)

	err = admin.UpdateUserMetadata(ctx, "missing", models.UserMetadata{Role: "admin"})
	assert.ErrorIs(t, err, ErrNotFound)

	users.byID["legacy"] = &models.AuthUser{ID: "legacy", Email: "legacy@example.com"}
	profiles.rows["legacy"] = models.User{ID: "legacy", Role: "superadmin"}

	listed, err := admin.ListUsers(ctx)
	require.NoError(t, err)
	for _, u := range listed {
		assert.Equal(t, profiles.rows[u.ID].Role, u.StoredRole, u.ID)
	}

	legacy, err := admin.GetUser(ctx, "legacy")
	require.NoError(t, err)
	assert.Equal(t, "superadmin", legacy.StoredRole)
	assert.Empty(t, legacy.Metadata.Role)
}
