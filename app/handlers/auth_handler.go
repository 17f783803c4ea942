package handlers

import (
	"net/http"
	"strings"

	"github.com/josebdo/Cristal-Event-Planner/app/authz"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/sessions"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type AuthHandler struct {
	render       *render.Render
	identity     *services.IdentityService
	sessionStore sessions.SessionStore
}

func NewAuthHandler(r *render.Render, identity *services.IdentityService, sessionStore sessions.SessionStore) *AuthHandler {
	return &AuthHandler{render: r, identity: identity, sessionStore: sessionStore}
}

type LoginPageData struct {
	other.BasePageData
	Email string
	Next  string
}

// safeNext only allows redirects back into the site.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return "/admin"
	}
	return next
}

func (h *AuthHandler) LoginGetHandler(w http.ResponseWriter, r *http.Request) {
	if ac, _ := authz.FromContext(r.Context()); ac.SignedIn() {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	data := &LoginPageData{
		BasePageData: helpers.GetBaseData(r, "Iniciar sesión"),
		Next:         r.URL.Query().Get("next"),
	}
	h.render.HTML(w, http.StatusOK, "auth/login", data)
}

func (h *AuthHandler) LoginPostHandler(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		zap.S().Warnw("LoginPostHandler: failed to parse form", "error", err)
		helpers.RedirectWithMessage(w, r, "/auth/login", helpers.StatusError, "No se pudo leer el formulario.")
		return
	}

	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")
	next := safeNext(r.URL.Query().Get("next"))

	session, err := h.identity.SignIn(r.Context(), email, password)
	if err != nil {
		data := &LoginPageData{
			BasePageData: helpers.GetBaseData(r, "Iniciar sesión"),
			Email:        email,
			Next:         r.URL.Query().Get("next"),
		}
		helpers.SetMessage(&data.BasePageData, helpers.StatusError, services.UserMessage(err))
		h.render.HTML(w, http.StatusOK, "auth/login", data)
		return
	}

	if err := h.sessionStore.SetAccessToken(w, r, session.AccessToken); err != nil {
		zap.S().Errorw("LoginPostHandler: failed to save session", "user_id", session.User.ID, "error", err)
		helpers.RedirectWithMessage(w, r, "/auth/login", helpers.StatusError, "No se pudo iniciar la sesión.")
		return
	}

	helpers.RedirectWithMessage(w, r, next, helpers.StatusSuccess, "Bienvenido de nuevo.")
}

func (h *AuthHandler) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	if token := h.sessionStore.GetAccessToken(r); token != "" {
		h.identity.SignOut(r.Context(), token)
	}
	if err := h.sessionStore.ClearSession(w, r); err != nil {
		zap.S().Warnw("LogoutHandler: failed to clear session", "error", err)
	}
	helpers.RedirectWithMessage(w, r, "/auth/login", helpers.StatusSuccess, "Sesión cerrada.")
}
