package admin

import (
	"net/http"

	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"go.uber.org/zap"
)

type SettingField struct {
	Key       string
	Label     string
	Hint      string
	Multiline bool
}

var settingFields = []SettingField{
	{Key: models.SettingWhatsAppNumber, Label: "Número de WhatsApp", Hint: "Con código de país, p. ej. 18095551234. Vacío oculta los botones de contacto."},
	{Key: models.SettingHeroTitle, Label: "Título principal"},
	{Key: models.SettingHeroSubtitle, Label: "Subtítulo principal"},
	{Key: models.SettingAboutTitle, Label: "Título de \"Sobre nosotros\""},
	{Key: models.SettingAboutText, Label: "Texto de \"Sobre nosotros\"", Hint: "Admite Markdown.", Multiline: true},
}

type SettingsPageData struct {
	other.BasePageData
	Fields []SettingField
	Values map[string]string
}

func (h *AdminHandler) GetSettingsPage(w http.ResponseWriter, r *http.Request) {
	settings := h.settings.Load(r.Context())

	values := make(map[string]string, len(models.SettingKeys))
	for _, key := range models.SettingKeys {
		values[key] = settings.Get(key)
	}

	h.render.HTML(w, http.StatusOK, "admin/settings/index", &SettingsPageData{
		BasePageData: h.baseData(r, "Configuración"),
		Fields:       settingFields,
		Values:       values,
	})
}

func (h *AdminHandler) SaveSettings(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		zap.S().Warnw("SaveSettings: failed to parse form", "error", err)
		helpers.RedirectWithMessage(w, r, "/admin/settings", helpers.StatusError, "No se pudo leer el formulario.")
		return
	}

	values := make(map[string]string, len(models.SettingKeys))
	for _, key := range models.SettingKeys {
		if _, ok := r.PostForm[key]; ok {
			values[key] = r.PostFormValue(key)
		}
	}

	if err := h.settings.Save(r.Context(), values); err != nil {
		zap.S().Errorw("SaveSettings: failed", "error", err)
		data := &SettingsPageData{
			BasePageData: h.baseData(r, "Configuración"),
			Fields:       settingFields,
			Values:       values,
		}
		helpers.SetMessage(&data.BasePageData, helpers.StatusError, services.UserMessage(err))
		h.render.HTML(w, http.StatusOK, "admin/settings/index", data)
		return
	}

	helpers.RedirectWithMessage(w, r, "/admin/settings", helpers.StatusSuccess, "Configuración guardada.")
}
