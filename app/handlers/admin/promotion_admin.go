package admin

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"github.com/josebdo/Cristal-Event-Planner/app/storage"
	"go.uber.org/zap"
)

type PromotionRow struct {
	Promotion models.SeasonalPromotion
	Status    string
}

type PromotionListPageData struct {
	other.BasePageData
	Rows []PromotionRow
}

type PromotionFormPageData struct {
	other.BasePageData
	Form       services.PromotionInput
	IsEdit     bool
	FormAction string
	Errors     map[string]string
	Products   []models.Product
}

// promotionInputFromRequest reads the form. Every checked "product" box
// selects that product; its label comes from discount_<id>.
func promotionInputFromRequest(r *http.Request) services.PromotionInput {
	selected := make(map[string]string)
	for _, id := range r.PostForm["product"] {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		selected[id] = r.PostFormValue("discount_" + id)
	}
	return services.PromotionInput{
		Name:           r.PostFormValue("name"),
		Slug:           r.PostFormValue("slug"),
		Description:    r.PostFormValue("description"),
		BannerImageURL: r.PostFormValue("banner_image_url"),
		StartDate:      r.PostFormValue("start_date"),
		EndDate:        r.PostFormValue("end_date"),
		IsActive:       r.PostFormValue("is_active") == "on",
		Products:       selected,
	}
}

func (h *AdminHandler) GetPromotionsPage(w http.ResponseWriter, r *http.Request) {
	data := &PromotionListPageData{BasePageData: h.baseData(r, "Promociones")}

	promotions, err := h.promotions.List(r.Context())
	if err != nil {
		zap.S().Errorw("GetPromotionsPage: failed to list promotions", "error", err)
		helpers.SetMessage(&data.BasePageData, helpers.StatusError, services.UserMessage(err))
	}
	for _, p := range promotions {
		data.Rows = append(data.Rows, PromotionRow{Promotion: p, Status: h.promotions.Status(p)})
	}

	h.render.HTML(w, http.StatusOK, "admin/promotions/index", data)
}

func (h *AdminHandler) renderPromotionForm(w http.ResponseWriter, r *http.Request, data *PromotionFormPageData) {
	products, err := h.catalog.ProductsByName(r.Context())
	if err != nil {
		zap.S().Errorw("renderPromotionForm: failed to load products", "error", err)
	}
	data.Products = products
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}
	if data.Form.Products == nil {
		data.Form.Products = map[string]string{}
	}
	h.render.HTML(w, http.StatusOK, "admin/promotions/form", data)
}

func (h *AdminHandler) NewPromotionPage(w http.ResponseWriter, r *http.Request) {
	h.renderPromotionForm(w, r, &PromotionFormPageData{
		BasePageData: h.baseData(r, "Nueva promoción"),
		Form:         services.PromotionInput{IsActive: true},
		FormAction:   "/admin/promotions",
	})
}

func (h *AdminHandler) EditPromotionPage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	promotion, err := h.promotions.Get(r.Context(), id)
	if err != nil {
		zap.S().Warnw("EditPromotionPage: promotion unavailable", "promotion_id", id, "error", err)
		h.notFound(w, r, "/admin/promotions", services.UserMessage(err))
		return
	}

	data := &PromotionFormPageData{
		BasePageData: h.baseData(r, "Editar promoción"),
		Form: services.PromotionInput{
			ID:             promotion.ID,
			Name:           promotion.Name,
			Slug:           promotion.Slug,
			Description:    helpers.StringValue(promotion.Description),
			BannerImageURL: helpers.StringValue(promotion.BannerImageURL),
			StartDate:      promotion.StartDate,
			EndDate:        promotion.EndDate,
			IsActive:       promotion.IsActive,
		},
		IsEdit:     true,
		FormAction: "/admin/promotions/" + id,
	}

	products, err := h.catalog.ProductsByName(r.Context())
	if err != nil {
		zap.S().Errorw("EditPromotionPage: failed to load products", "error", err)
		helpers.SetMessage(&data.BasePageData, helpers.StatusError, services.UserMessage(err))
	}
	data.Form.Products = services.Selection(products, id)
	data.Products = products
	data.Errors = map[string]string{}

	h.render.HTML(w, http.StatusOK, "admin/promotions/form", data)
}

// SavePromotion writes the promotion and reconciles its products. When the
// row was stored but some product writes failed, the form comes back in
// edit mode with the same selection so saving again retries them.
func (h *AdminHandler) SavePromotion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	title, action := "Nueva promoción", "/admin/promotions"
	if id != "" {
		title, action = "Editar promoción", "/admin/promotions/"+id
	}

	if err := h.parseForm(r); err != nil {
		zap.S().Warnw("SavePromotion: failed to parse form", "error", err)
		helpers.RedirectWithMessage(w, r, action, helpers.StatusError, "No se pudo leer el formulario.")
		return
	}

	input := promotionInputFromRequest(r)
	input.ID = id
	data := &PromotionFormPageData{
		BasePageData: h.baseData(r, title),
		Form:         input,
		IsEdit:       id != "",
		FormAction:   action,
	}

	bannerURL, err := h.uploadImage(r, "banner", storage.PrefixPromotion)
	if err != nil {
		data.Errors = formFailure(&data.BasePageData, err)
		h.renderPromotionForm(w, r, data)
		return
	}
	if bannerURL != "" {
		input.BannerImageURL = bannerURL
		data.Form.BannerImageURL = bannerURL
	}

	result, err := h.promotions.Save(r.Context(), input)
	if err != nil {
		if result != nil && result.Promotion != nil {
			zap.S().Warnw("SavePromotion: promotion stored, products not fully reconciled",
				"promotion_id", result.Promotion.ID, "error", err)
			data.Form.ID = result.Promotion.ID
			data.Form.Slug = result.Promotion.Slug
			data.IsEdit = true
			data.FormAction = "/admin/promotions/" + result.Promotion.ID
			data.Errors = formFailure(&data.BasePageData, err)
			h.renderPromotionForm(w, r, data)
			return
		}
		if errors.Is(err, services.ErrNotFound) {
			h.notFound(w, r, "/admin/promotions", services.UserMessage(err))
			return
		}
		zap.S().Infow("SavePromotion: promotion not saved", "promotion_id", id, "kind", services.KindOf(err), "error", err)
		data.Errors = formFailure(&data.BasePageData, err)
		if errors.Is(err, services.ErrDuplicateSlug) {
			data.Errors["slug"] = "Ya existe una promoción con ese slug."
		}
		h.renderPromotionForm(w, r, data)
		return
	}

	message := "Promoción guardada."
	if rec := result.Reconcile; rec != nil {
		message = fmt.Sprintf("Promoción guardada: %d producto(s) vinculados, %d desvinculados.", len(rec.Linked), len(rec.Unlinked))
	}
	helpers.RedirectWithMessage(w, r, "/admin/promotions", helpers.StatusSuccess, message)
}

func (h *AdminHandler) DeletePromotion(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.promotions.Delete(r.Context(), id); err != nil {
		zap.S().Errorw("DeletePromotion: failed", "promotion_id", id, "error", err)
		helpers.RedirectWithMessage(w, r, "/admin/promotions", helpers.StatusError, services.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, "/admin/promotions", helpers.StatusSuccess, "Promoción eliminada.")
}
