package admin

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"go.uber.org/zap"
)

type CategoryListPageData struct {
	other.BasePageData
	Categories []models.Category
}

type CategoryFormPageData struct {
	other.BasePageData
	Form       services.CategoryInput
	IsEdit     bool
	FormAction string
	Errors     map[string]string
}

func (h *AdminHandler) GetCategoriesPage(w http.ResponseWriter, r *http.Request) {
	data := &CategoryListPageData{BasePageData: h.baseData(r, "Categorías")}

	categories, err := h.catalog.ListCategories(r.Context())
	if err != nil {
		zap.S().Errorw("GetCategoriesPage: failed to list categories", "error", err)
		helpers.SetMessage(&data.BasePageData, helpers.StatusError, services.UserMessage(err))
	}
	data.Categories = categories

	h.render.HTML(w, http.StatusOK, "admin/categories/index", data)
}

func (h *AdminHandler) NewCategoryPage(w http.ResponseWriter, r *http.Request) {
	h.render.HTML(w, http.StatusOK, "admin/categories/form", &CategoryFormPageData{
		BasePageData: h.baseData(r, "Nueva categoría"),
		FormAction:   "/admin/categories",
		Errors:       map[string]string{},
	})
}

func (h *AdminHandler) EditCategoryPage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	category, err := h.catalog.GetCategory(r.Context(), id)
	if err != nil {
		zap.S().Warnw("EditCategoryPage: category unavailable", "category_id", id, "error", err)
		h.notFound(w, r, "/admin/categories", services.UserMessage(err))
		return
	}

	h.render.HTML(w, http.StatusOK, "admin/categories/form", &CategoryFormPageData{
		BasePageData: h.baseData(r, "Editar categoría"),
		Form: services.CategoryInput{
			ID:          category.ID,
			Name:        category.Name,
			Slug:        category.Slug,
			Description: helpers.StringValue(category.Description),
		},
		IsEdit:     true,
		FormAction: "/admin/categories/" + id,
		Errors:     map[string]string{},
	})
}

func (h *AdminHandler) SaveCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	title, action := "Nueva categoría", "/admin/categories"
	if id != "" {
		title, action = "Editar categoría", "/admin/categories/"+id
	}

	if err := r.ParseForm(); err != nil {
		zap.S().Warnw("SaveCategory: failed to parse form", "error", err)
		helpers.RedirectWithMessage(w, r, action, helpers.StatusError, "No se pudo leer el formulario.")
		return
	}

	input := services.CategoryInput{
		ID:          id,
		Name:        r.PostFormValue("name"),
		Slug:        r.PostFormValue("slug"),
		Description: r.PostFormValue("description"),
	}

	if _, err := h.catalog.SaveCategory(r.Context(), input); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.notFound(w, r, "/admin/categories", services.UserMessage(err))
			return
		}
		data := &CategoryFormPageData{
			BasePageData: h.baseData(r, title),
			Form:         input,
			IsEdit:       id != "",
			FormAction:   action,
		}
		data.Errors = formFailure(&data.BasePageData, err)
		if errors.Is(err, services.ErrDuplicateSlug) {
			data.Errors["slug"] = "Ya existe una categoría con ese slug."
		}
		h.render.HTML(w, http.StatusOK, "admin/categories/form", data)
		return
	}

	helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusSuccess, "Categoría guardada.")
}

func (h *AdminHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.DeleteCategory(r.Context(), id); err != nil {
		helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusError, services.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, "/admin/categories", helpers.StatusSuccess, "Categoría eliminada. Sus productos quedaron sin categoría.")
}
