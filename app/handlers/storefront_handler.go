package handlers

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"github.com/unrolled/render"
	"go.uber.org/zap"
)

type StorefrontHandler struct {
	render     *render.Render
	storefront *services.StorefrontService
}

func NewStorefrontHandler(r *render.Render, storefront *services.StorefrontService) *StorefrontHandler {
	return &StorefrontHandler{render: r, storefront: storefront}
}

type HomePageData struct {
	other.BasePageData
	Settings   services.Settings
	Categories []models.Category
	Products   []models.ProductWithCategory
	Promotions []models.SeasonalPromotion
}

type PromotionsPageData struct {
	other.BasePageData
	Settings   services.Settings
	Promotions []models.SeasonalPromotion
}

type PromotionDetailPageData struct {
	other.BasePageData
	Settings  services.Settings
	Promotion *models.SeasonalPromotion
	Products  []models.ProductWithCategory
}

func (h *StorefrontHandler) Home(w http.ResponseWriter, r *http.Request) {
	page, err := h.storefront.Home(r.Context())
	if err != nil {
		zap.S().Errorw("Home: failed to load storefront", "error", err)
		RenderError(h.render, w, r, http.StatusInternalServerError, services.UserMessage(err))
		return
	}

	data := &HomePageData{
		BasePageData: helpers.GetBaseData(r, page.Settings.HeroTitle()),
		Settings:     page.Settings,
		Categories:   page.Categories,
		Products:     page.Products,
		Promotions:   page.Promotions,
	}
	data.OrderLink = page.Settings.OrderLink()
	h.render.HTML(w, http.StatusOK, "home", data)
}

func (h *StorefrontHandler) Promotions(w http.ResponseWriter, r *http.Request) {
	page, err := h.storefront.Promotions(r.Context())
	if err != nil {
		zap.S().Errorw("Promotions: failed to load promotions", "error", err)
		RenderError(h.render, w, r, http.StatusInternalServerError, services.UserMessage(err))
		return
	}

	data := &PromotionsPageData{
		BasePageData: helpers.GetBaseData(r, "Promociones"),
		Settings:     page.Settings,
		Promotions:   page.Promotions,
	}
	data.OrderLink = page.Settings.OrderLink()
	h.render.HTML(w, http.StatusOK, "promotions", data)
}

func (h *StorefrontHandler) PromotionDetail(w http.ResponseWriter, r *http.Request) {
	slug := mux.Vars(r)["slug"]

	page, err := h.storefront.Promotion(r.Context(), slug)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			RenderError(h.render, w, r, http.StatusNotFound, "Promoción no encontrada")
			return
		}
		zap.S().Errorw("PromotionDetail: failed to load promotion", "slug", slug, "error", err)
		RenderError(h.render, w, r, http.StatusInternalServerError, services.UserMessage(err))
		return
	}

	data := &PromotionDetailPageData{
		BasePageData: helpers.GetBaseData(r, page.Promotion.Name),
		Settings:     page.Settings,
		Promotion:    page.Promotion,
		Products:     page.Products,
	}
	data.OrderLink = page.Settings.OrderLink()
	h.render.HTML(w, http.StatusOK, "promotion", data)
}

// RenderError shows title on the standalone error page.
func RenderError(rnd *render.Render, w http.ResponseWriter, r *http.Request, status int, title string) {
	data := helpers.GetBaseData(r, title)
	data.Message = ""
	rnd.HTML(w, status, "error", data)
}

func NotFound(rnd *render.Render) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RenderError(rnd, w, r, http.StatusNotFound, "Página no encontrada")
	})
}
