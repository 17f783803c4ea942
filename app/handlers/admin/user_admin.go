package admin

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/josebdo/Cristal-Event-Planner/app/authz"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"go.uber.org/zap"
)

type UsersPageData struct {
	other.BasePageData
	Users             []models.AuthUser
	AssignableRoles   []authz.Role
	ServiceKeyMissing bool
	Form              services.UserInput
	Errors            map[string]string
}

// renderUsersPage lists the users visible to the acting role around the
// creation form. data may already carry a failure to show.
func (h *AdminHandler) renderUsersPage(w http.ResponseWriter, r *http.Request, data *UsersPageData) {
	ac, _ := authz.FromContext(r.Context())

	users, err := h.users.List(r.Context(), ac)
	switch {
	case errors.Is(err, services.ErrUnauthorized):
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	case errors.Is(err, services.ErrServiceKeyMissing):
		data.ServiceKeyMissing = true
	case err != nil:
		zap.S().Errorw("renderUsersPage: failed to list users", "error", err)
		if data.Message == "" {
			helpers.SetMessage(&data.BasePageData, helpers.StatusError, services.UserMessage(err))
		}
	}

	data.Users = users
	data.AssignableRoles = authz.AssignableRoles(ac.Role)
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	if data.Form.Role == "" {
		data.Form.Role = authz.DefaultRole.String()
	}
	h.render.HTML(w, http.StatusOK, "admin/users/index", data)
}

func (h *AdminHandler) GetUsersPage(w http.ResponseWriter, r *http.Request) {
	h.renderUsersPage(w, r, &UsersPageData{BasePageData: h.baseData(r, "Usuarios")})
}

func (h *AdminHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		zap.S().Warnw("CreateUser: failed to parse form", "error", err)
		helpers.RedirectWithMessage(w, r, "/admin/users", helpers.StatusError, "No se pudo leer el formulario.")
		return
	}

	ac, _ := authz.FromContext(r.Context())
	input := services.UserInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Role:     r.PostFormValue("role"),
	}

	user, err := h.users.Create(r.Context(), ac, input)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			helpers.RedirectWithMessage(w, r, "/admin/users", helpers.StatusError, services.UserMessage(err))
			return
		}
		data := &UsersPageData{BasePageData: h.baseData(r, "Usuarios")}
		data.Form = services.UserInput{Email: input.Email, Role: input.Role}
		data.Errors = formFailure(&data.BasePageData, err)
		h.renderUsersPage(w, r, data)
		return
	}

	helpers.RedirectWithMessage(w, r, "/admin/users", helpers.StatusSuccess, "Usuario "+user.Email+" creado.")
}

func (h *AdminHandler) UpdateUserRole(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		zap.S().Warnw("UpdateUserRole: failed to parse form", "error", err)
		helpers.RedirectWithMessage(w, r, "/admin/users", helpers.StatusError, "No se pudo leer el formulario.")
		return
	}

	ac, _ := authz.FromContext(r.Context())
	id := mux.Vars(r)["id"]

	if err := h.users.UpdateRole(r.Context(), ac, id, r.PostFormValue("role")); err != nil {
		helpers.RedirectWithMessage(w, r, "/admin/users", helpers.StatusError, services.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, "/admin/users", helpers.StatusSuccess, "Rol actualizado.")
}
