package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/josebdo/Cristal-Event-Planner/app/authz"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/metrics"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/sessions"
	"go.uber.org/zap"
)

const LoginPath = "/auth/login"

// PrincipalResolver turns a session access token into the signed-in identity.
type PrincipalResolver interface {
	CurrentPrincipal(ctx context.Context, token string) (*models.AuthUser, error)
}

// LoadAuthContext resolves the principal and its effective role once per
// request and attaches the result to the request context. Requests without
// a valid session carry a signed-out AuthContext.
func LoadAuthContext(store sessions.SessionStore, principals PrincipalResolver, roles authz.RoleLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ac := authz.AuthContext{}

			if token := store.GetAccessToken(r); token != "" {
				principal, err := principals.CurrentPrincipal(r.Context(), token)
				switch {
				case errors.Is(err, services.ErrUnauthorized):
					zap.S().Infow("LoadAuthContext: dropping invalid session", "path", r.URL.Path, "error", err)
					if clearErr := store.ClearSession(w, r); clearErr != nil {
						zap.S().Warnw("LoadAuthContext: failed to clear session", "error", clearErr)
					}
				case err != nil:
					zap.S().Errorw("LoadAuthContext: could not resolve principal", "path", r.URL.Path, "error", err)
				default:
					ac.Principal = principal
					ac.Role = authz.ResolveRole(r.Context(), principal, roles)
				}
			}

			next.ServeHTTP(w, r.WithContext(authz.WithAuthContext(r.Context(), ac)))
		})
	}
}

// RequireSignedIn sends anonymous visitors to the login page.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, _ := authz.FromContext(r.Context())
		if !ac.SignedIn() {
			target := LoginPath + "?next=" + url.QueryEscape(r.URL.RequestURI())
			helpers.RedirectWithMessage(w, r, target, helpers.StatusError, "Inicia sesión para continuar.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireUserManagement keeps editors out of the user pages. The services
// check the same gate again; this only spares them a page they cannot use.
func RequireUserManagement(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ac, _ := authz.FromContext(r.Context())
		if !authz.CanAccessUserManagement(ac.Role) {
			metrics.AccessDeniedTotal.WithLabelValues("user_management_page").Inc()
			zap.S().Warnw("RequireUserManagement: access denied", "user_id", ac.UserID(), "role", ac.Role)
			http.Redirect(w, r, "/admin", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}
