package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/repositories"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// noPromotion is what the seasonal promotion select posts for "none".
const noPromotion = "none"

type ProductInput struct {
	ID                  string
	Name                string `validate:"required,max=255"`
	Description         string
	ImageURL            string
	CategoryID          string
	Price               string
	IsActive            bool
	DisplayOrder        int
	IsPromotion         bool
	SeasonalPromotionID string
	PromotionText       string `validate:"max=255"`
	PromotionStart      string `validate:"omitempty,datetime=2006-01-02"`
	PromotionEnd        string `validate:"omitempty,datetime=2006-01-02"`
}

type CategoryInput struct {
	ID          string
	Name        string `validate:"required,max=100"`
	Slug        string `validate:"max=100"`
	Description string
}

type CatalogService struct {
	products   repositories.ProductRepositoryImpl
	categories repositories.CategoryRepositoryImpl
	promotions repositories.PromotionRepositoryImpl
	validate   *validator.Validate
}

func NewCatalogService(products repositories.ProductRepositoryImpl, categories repositories.CategoryRepositoryImpl, promotions repositories.PromotionRepositoryImpl, validate *validator.Validate) *CatalogService {
	return &CatalogService{
		products:   products,
		categories: categories,
		promotions: promotions,
		validate:   validate,
	}
}

// NormalizeProduct maps the form onto the row: blanks become NULL, the
// promotion columns are only kept while IsPromotion is set, and choosing a
// seasonal promotion implies IsPromotion.
func NormalizeProduct(input ProductInput, p *models.Product) error {
	price := strings.TrimSpace(input.Price)
	p.Price = decimal.NullDecimal{}
	if price != "" {
		d, err := decimal.NewFromString(price)
		if err != nil {
			return NewValidationError("price", "El precio debe ser un número.")
		}
		if d.IsNegative() {
			return NewValidationError("price", "El precio no puede ser negativo.")
		}
		p.Price = decimal.NewNullDecimal(d.Round(2))
	}

	p.Name = strings.TrimSpace(input.Name)
	p.Description = helpers.NullableString(input.Description)
	p.ImageURL = helpers.NullableString(input.ImageURL)
	p.CategoryID = helpers.NullableString(input.CategoryID)
	p.IsActive = input.IsActive
	p.DisplayOrder = input.DisplayOrder

	seasonal := helpers.NullableString(input.SeasonalPromotionID)
	if seasonal != nil && *seasonal == noPromotion {
		seasonal = nil
	}
	p.IsPromotion = input.IsPromotion || seasonal != nil

	if !p.IsPromotion {
		p.PromotionText = nil
		p.PromotionStart = nil
		p.PromotionEnd = nil
		p.SeasonalPromotionID = nil
		return nil
	}

	p.PromotionText = helpers.NullableString(input.PromotionText)
	p.PromotionStart = helpers.NullableString(input.PromotionStart)
	p.PromotionEnd = helpers.NullableString(input.PromotionEnd)
	p.SeasonalPromotionID = seasonal
	if p.PromotionStart != nil && p.PromotionEnd != nil && *p.PromotionStart > *p.PromotionEnd {
		return NewValidationError("promotionend", "La fecha de fin no puede ser anterior a la de inicio.")
	}
	return nil
}

func (s *CatalogService) SaveProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}

	product := &models.Product{ID: uuid.New().String()}
	created := input.ID == ""
	if !created {
		existing, err := s.products.GetByID(ctx, input.ID)
		if err != nil {
			return nil, storeError(err)
		}
		if existing == nil {
			return nil, fmt.Errorf("product %s: %w", input.ID, ErrNotFound)
		}
		product = existing
	}

	if err := NormalizeProduct(input, product); err != nil {
		return nil, err
	}

	if product.CategoryID != nil {
		category, err := s.categories.GetByID(ctx, *product.CategoryID)
		if err != nil {
			return nil, storeError(err)
		}
		if category == nil {
			return nil, NewValidationError("categoryid", "La categoría seleccionada no existe.")
		}
	}
	if product.SeasonalPromotionID != nil {
		promotion, err := s.promotions.GetByID(ctx, *product.SeasonalPromotionID)
		if err != nil {
			return nil, storeError(err)
		}
		if promotion == nil {
			return nil, NewValidationError("seasonalpromotionid", "La promoción seleccionada no existe.")
		}
		if product.PromotionText == nil {
			label := promotion.Name
			product.PromotionText = &label
		}
	}

	var err error
	if created {
		err = s.products.Create(ctx, product)
	} else {
		err = s.products.Update(ctx, product)
	}
	if err != nil {
		zap.S().Errorw("CatalogService.SaveProduct: failed to write product", "product_id", product.ID, "error", err)
		return nil, storeError(err)
	}
	return product, nil
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id string) error {
	return storeError(s.products.Delete(ctx, id))
}

func (s *CatalogService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if product == nil {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	return product, nil
}

func (s *CatalogService) ListProducts(ctx context.Context) ([]models.ProductWithCategory, error) {
	products, err := s.products.GetAllWithCategory(ctx)
	return products, storeError(err)
}

func (s *CatalogService) ListActiveProducts(ctx context.Context) ([]models.ProductWithCategory, error) {
	products, err := s.products.GetActiveWithCategory(ctx)
	return products, storeError(err)
}

func (s *CatalogService) ProductsByName(ctx context.Context) ([]models.Product, error) {
	products, err := s.products.GetAllByName(ctx)
	return products, storeError(err)
}

func (s *CatalogService) CountProducts(ctx context.Context) (int64, error) {
	count, err := s.products.Count(ctx)
	return count, storeError(err)
}

func (s *CatalogService) SaveCategory(ctx context.Context, input CategoryInput) (*models.Category, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}

	slug := input.Slug
	if slug == "" {
		slug = helpers.GenerateSlug(input.Name)
	}
	if !helpers.IsValidSlug(slug) {
		return nil, NewValidationError("slug", "El slug solo admite letras minúsculas, números y guiones.")
	}

	category := &models.Category{ID: uuid.New().String()}
	created := input.ID == ""
	if !created {
		existing, err := s.categories.GetByID(ctx, input.ID)
		if err != nil {
			return nil, storeError(err)
		}
		if existing == nil {
			return nil, fmt.Errorf("category %s: %w", input.ID, ErrNotFound)
		}
		category = existing
	}

	taken, err := s.categories.SlugTaken(ctx, slug, input.ID)
	if err != nil {
		return nil, storeError(err)
	}
	if taken {
		return nil, fmt.Errorf("category slug %q: %w", slug, ErrDuplicateSlug)
	}

	category.Name = input.Name
	category.Slug = slug
	category.Description = helpers.NullableString(input.Description)

	if created {
		err = s.categories.Create(ctx, category)
	} else {
		err = s.categories.Update(ctx, category)
	}
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("category slug %q: %w", slug, ErrDuplicateSlug)
		}
		return nil, storeError(err)
	}
	return category, nil
}

// DeleteCategory removes the category; its products become uncategorized.
func (s *CatalogService) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		zap.S().Errorw("CatalogService.DeleteCategory: failed", "category_id", id, "error", err)
		return storeError(err)
	}
	return nil
}

func (s *CatalogService) GetCategory(ctx context.Context, id string) (*models.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if category == nil {
		return nil, fmt.Errorf("category %s: %w", id, ErrNotFound)
	}
	return category, nil
}

func (s *CatalogService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.GetAll(ctx)
	return categories, storeError(err)
}

func (s *CatalogService) CategoriesByName(ctx context.Context) ([]models.Category, error) {
	categories, err := s.categories.GetAllByName(ctx)
	return categories, storeError(err)
}

func (s *CatalogService) CountCategories(ctx context.Context) (int64, error) {
	count, err := s.categories.Count(ctx)
	return count, storeError(err)
}
