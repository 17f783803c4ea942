package authz

import (
	"context"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
)

// AuthContext is resolved once per request and handed to every handler and
// service that needs to know who is acting.
type AuthContext struct {
	Principal *models.AuthUser
	Role      Role
}

func (a AuthContext) SignedIn() bool {
	return a.Principal != nil
}

func (a AuthContext) UserID() string {
	if a.Principal == nil {
		return ""
	}
	return a.Principal.ID
}

func (a AuthContext) Email() string {
	if a.Principal == nil {
		return ""
	}
	return a.Principal.Email
}

type contextKey struct{}

func WithAuthContext(ctx context.Context, ac AuthContext) context.Context {
	return context.WithValue(ctx, contextKey{}, ac)
}

// FromContext returns the request's AuthContext. The zero value (signed out,
// no role) is returned when none was attached.
func FromContext(ctx context.Context) (AuthContext, bool) {
	ac, ok := ctx.Value(contextKey{}).(AuthContext)
	return ac, ok
}
