package renderer

import (
	"html/template"

	"github.com/josebdo/Cristal-Event-Planner/app/authz"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/format"
	"github.com/josebdo/Cristal-Event-Planner/web"
	"github.com/shopspring/decimal"
	"github.com/unrolled/render"
)

var statusLabels = map[string]string{
	services.PromotionStatusActive:    "Activa",
	services.PromotionStatusDisabled:  "Inactiva",
	services.PromotionStatusScheduled: "Programada",
}

var roleLabels = map[authz.Role]string{
	authz.RoleEditor:     "Editor",
	authz.RoleAdmin:      "Administrador",
	authz.RoleSuperadmin: "Superadministrador",
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"add":        func(a, b int) int { return a + b },
		"sub":        func(a, b int) int { return a - b },
		"deref":      helpers.StringValue,
		"price":      format.NullablePrice,
		"priceInput": format.PriceInput,
		"has": func(m map[string]string, key string) bool {
			_, ok := m[key]
			return ok
		},
		"whatsapp": helpers.WhatsAppLink,
		"productInquiry": func(number, name string, price decimal.NullDecimal) string {
			return helpers.WhatsAppLink(number, helpers.ProductInquiryMessage(name, format.NullablePrice(price)))
		},
		"promotionInquiry": func(number, name string) string {
			return helpers.WhatsAppLink(number, helpers.PromotionInquiryMessage(name))
		},
		"roleOf":    func(u models.AuthUser) authz.Role { return authz.RoleOf(u) },
		"canManage": authz.CanManageUser,
		"roleLabel": func(r authz.Role) string {
			if label, ok := roleLabels[r]; ok {
				return label
			}
			return string(r)
		},
		"statusLabel": func(status string) string { return statusLabels[status] },
	}
}

// New parses the embedded templates. In development they are re-read on
// every render.
func New(isDevelopment bool) *render.Render {
	return render.New(render.Options{
		Directory:     "templates",
		FileSystem:    &render.EmbedFileSystem{FS: web.Templates},
		Layout:        "layout",
		Extensions:    []string{".html"},
		Funcs:         []template.FuncMap{Funcs()},
		IsDevelopment: isDevelopment,
	})
}
