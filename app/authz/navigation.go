package authz

type NavItem struct {
	Href  string
	Label string
	Roles []Role
}

func (n NavItem) VisibleTo(role Role) bool {
	for _, r := range n.Roles {
		if r == role {
			return true
		}
	}
	return false
}

var allRoles = []Role{RoleEditor, RoleAdmin, RoleSuperadmin}

// AdminNavigation is the back-office sidebar.
var AdminNavigation = []NavItem{
	{Href: "/admin", Label: "Dashboard", Roles: allRoles},
	{Href: "/admin/products", Label: "Productos", Roles: allRoles},
	{Href: "/admin/categories", Label: "Categorías", Roles: allRoles},
	{Href: "/admin/promotions", Label: "Promociones", Roles: allRoles},
	{Href: "/admin/users", Label: "Usuarios", Roles: []Role{RoleAdmin, RoleSuperadmin}},
	{Href: "/admin/settings", Label: "Configuración", Roles: allRoles},
}

func FilterNavigation(role Role, items []NavItem) []NavItem {
	out := make([]NavItem, 0, len(items))
	for _, item := range items {
		if item.VisibleTo(role) {
			out = append(out, item)
		}
	}
	return out
}
