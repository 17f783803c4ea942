package helpers

import (
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/josebdo/Cristal-Event-Planner/app/authz"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// GetBaseData fills what the layout needs from the request: the signed-in
// principal, the sidebar for its role, the CSRF field and any notification
// passed in the status/message query parameters.
func GetBaseData(r *http.Request, title string) other.BasePageData {
	data := other.BasePageData{
		Title:         title,
		CSRFField:     csrf.TemplateField(r),
		Message:       r.URL.Query().Get("message"),
		MessageStatus: r.URL.Query().Get("status"),
		CurrentPath:   r.URL.Path,
	}

	if ac, ok := authz.FromContext(r.Context()); ok && ac.SignedIn() {
		data.IsLoggedIn = true
		data.UserEmail = ac.Email()
		data.Role = ac.Role
		data.Nav = authz.FilterNavigation(ac.Role, authz.AdminNavigation)
	}
	return data
}

// SetMessage overrides the notification, e.g. when re-rendering a form.
func SetMessage(data *other.BasePageData, status, message string) {
	data.MessageStatus = status
	data.Message = message
}
