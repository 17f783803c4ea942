package other

import (
	"html/template"

	"github.com/josebdo/Cristal-Event-Planner/app/authz"
)

// BasePageData is embedded by every page's template data.
type BasePageData struct {
	Title         string
	IsLoggedIn    bool
	UserEmail     string
	Role          authz.Role
	Nav           []authz.NavItem
	CSRFField     template.HTML
	Message       string
	MessageStatus string
	CurrentPath   string
	IsAdminPage   bool
	OrderLink     string
}

func (b BasePageData) ActiveNav(href string) bool {
	if href == "/admin" {
		return b.CurrentPath == "/admin"
	}
	return len(b.CurrentPath) >= len(href) && b.CurrentPath[:len(href)] == href
}
