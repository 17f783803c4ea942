package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/models/other"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"github.com/josebdo/Cristal-Event-Planner/app/storage"
	"github.com/josebdo/Cristal-Event-Planner/app/utils/format"
	"go.uber.org/zap"
)

type ProductListPageData struct {
	other.BasePageData
	Products []models.ProductWithCategory
}

type ProductFormPageData struct {
	other.BasePageData
	Form       services.ProductInput
	IsEdit     bool
	FormAction string
	Errors     map[string]string
	Categories []models.Category
	Promotions []models.SeasonalPromotion
}

func productInputFromRequest(r *http.Request) services.ProductInput {
	order, _ := strconv.Atoi(strings.TrimSpace(r.PostFormValue("display_order")))
	return services.ProductInput{
		Name:                r.PostFormValue("name"),
		Description:         r.PostFormValue("description"),
		ImageURL:            r.PostFormValue("image_url"),
		CategoryID:          r.PostFormValue("category_id"),
		Price:               r.PostFormValue("price"),
		IsActive:            r.PostFormValue("is_active") == "on",
		DisplayOrder:        order,
		IsPromotion:         r.PostFormValue("is_promotion") == "on",
		SeasonalPromotionID: r.PostFormValue("seasonal_promotion_id"),
		PromotionText:       r.PostFormValue("promotion_text"),
		PromotionStart:      r.PostFormValue("promotion_start"),
		PromotionEnd:        r.PostFormValue("promotion_end"),
	}
}

func productInputFromModel(p *models.Product) services.ProductInput {
	return services.ProductInput{
		ID:                  p.ID,
		Name:                p.Name,
		Description:         helpers.StringValue(p.Description),
		ImageURL:            helpers.StringValue(p.ImageURL),
		CategoryID:          helpers.StringValue(p.CategoryID),
		Price:               format.PriceInput(p.Price),
		IsActive:            p.IsActive,
		DisplayOrder:        p.DisplayOrder,
		IsPromotion:         p.IsPromotion,
		SeasonalPromotionID: helpers.StringValue(p.SeasonalPromotionID),
		PromotionText:       helpers.StringValue(p.PromotionText),
		PromotionStart:      helpers.StringValue(p.PromotionStart),
		PromotionEnd:        helpers.StringValue(p.PromotionEnd),
	}
}

func (h *AdminHandler) GetProductsPage(w http.ResponseWriter, r *http.Request) {
	data := &ProductListPageData{BasePageData: h.baseData(r, "Productos")}

	products, err := h.catalog.ListProducts(r.Context())
	if err != nil {
		zap.S().Errorw("GetProductsPage: failed to list products", "error", err)
		helpers.SetMessage(&data.BasePageData, helpers.StatusError, services.UserMessage(err))
	}
	data.Products = products

	h.render.HTML(w, http.StatusOK, "admin/products/index", data)
}

func (h *AdminHandler) renderProductForm(w http.ResponseWriter, r *http.Request, data *ProductFormPageData) {
	categories, err := h.catalog.CategoriesByName(r.Context())
	if err != nil {
		zap.S().Errorw("renderProductForm: failed to load categories", "error", err)
	}
	promotions, err := h.promotions.List(r.Context())
	if err != nil {
		zap.S().Errorw("renderProductForm: failed to load promotions", "error", err)
	}
	data.Categories = categories
	data.Promotions = promotions
	if data.Errors == nil {
		data.Errors = map[string]string{}
	}

	h.render.HTML(w, http.StatusOK, "admin/products/form", data)
}

func (h *AdminHandler) NewProductPage(w http.ResponseWriter, r *http.Request) {
	h.renderProductForm(w, r, &ProductFormPageData{
		BasePageData: h.baseData(r, "Nuevo producto"),
		Form:         services.ProductInput{IsActive: true},
		FormAction:   "/admin/products",
	})
}

func (h *AdminHandler) EditProductPage(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	product, err := h.catalog.GetProduct(r.Context(), id)
	if err != nil {
		zap.S().Warnw("EditProductPage: product unavailable", "product_id", id, "error", err)
		h.notFound(w, r, "/admin/products", services.UserMessage(err))
		return
	}

	h.renderProductForm(w, r, &ProductFormPageData{
		BasePageData: h.baseData(r, "Editar producto"),
		Form:         productInputFromModel(product),
		IsEdit:       true,
		FormAction:   "/admin/products/" + id,
	})
}

// SaveProduct handles both create (POST /admin/products) and update
// (POST /admin/products/{id}). The image is uploaded first; the product is
// only written once the upload went through.
func (h *AdminHandler) SaveProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	title, action := "Nuevo producto", "/admin/products"
	if id != "" {
		title, action = "Editar producto", "/admin/products/"+id
	}

	if err := h.parseForm(r); err != nil {
		zap.S().Warnw("SaveProduct: failed to parse form", "error", err)
		helpers.RedirectWithMessage(w, r, action, helpers.StatusError, "No se pudo leer el formulario.")
		return
	}

	input := productInputFromRequest(r)
	input.ID = id
	data := &ProductFormPageData{
		BasePageData: h.baseData(r, title),
		Form:         input,
		IsEdit:       id != "",
		FormAction:   action,
	}

	imageURL, err := h.uploadImage(r, "image", storage.PrefixProduct)
	if err != nil {
		data.Errors = formFailure(&data.BasePageData, err)
		h.renderProductForm(w, r, data)
		return
	}
	if imageURL != "" {
		input.ImageURL = imageURL
		data.Form.ImageURL = imageURL
	}

	product, err := h.catalog.SaveProduct(r.Context(), input)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			h.notFound(w, r, "/admin/products", services.UserMessage(err))
			return
		}
		zap.S().Infow("SaveProduct: product not saved", "product_id", id, "kind", services.KindOf(err), "error", err)
		data.Errors = formFailure(&data.BasePageData, err)
		h.renderProductForm(w, r, data)
		return
	}

	zap.S().Infow("SaveProduct: product saved", "product_id", product.ID, "created", id == "")
	helpers.RedirectWithMessage(w, r, "/admin/products", helpers.StatusSuccess, "Producto guardado.")
}

func (h *AdminHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	if err := h.catalog.DeleteProduct(r.Context(), id); err != nil {
		zap.S().Errorw("DeleteProduct: failed", "product_id", id, "error", err)
		helpers.RedirectWithMessage(w, r, "/admin/products", helpers.StatusError, services.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, "/admin/products", helpers.StatusSuccess, "Producto eliminado.")
}
