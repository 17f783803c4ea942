package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/josebdo/Cristal-Event-Planner/app/helpers"
	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"github.com/josebdo/Cristal-Event-Planner/app/repositories"
	"go.uber.org/zap"
)

const (
	PromotionStatusActive    = "active"
	PromotionStatusDisabled  = "disabled"
	PromotionStatusScheduled = "scheduled"
)

// PromotionInput is the admin promotion form. Products maps each selected
// product id to its discount label; a blank label falls back to Name.
type PromotionInput struct {
	ID             string
	Name           string `validate:"required,max=255"`
	Slug           string `validate:"max=255"`
	Description    string
	BannerImageURL string
	StartDate      string `validate:"required,datetime=2006-01-02"`
	EndDate        string `validate:"required,datetime=2006-01-02"`
	IsActive       bool
	Products       map[string]string
}

type PromotionSaveResult struct {
	Promotion *models.SeasonalPromotion
	Created   bool
	Reconcile *ReconcileResult
}

type PromotionService struct {
	promotions repositories.PromotionRepositoryImpl
	products   repositories.ProductRepositoryImpl
	sync       *PromotionSynchronizer
	validate   *validator.Validate
	now        func() time.Time
}

func NewPromotionService(promotions repositories.PromotionRepositoryImpl, products repositories.ProductRepositoryImpl, validate *validator.Validate) *PromotionService {
	return &PromotionService{
		promotions: promotions,
		products:   products,
		sync:       NewPromotionSynchronizer(products),
		validate:   validate,
		now:        time.Now,
	}
}

func (s *PromotionService) today() string {
	return helpers.Today(s.now())
}

// Save creates or updates the promotion row and then reconciles product
// linkage against input.Products. Nothing touches products unless the
// promotion write succeeded. A *PartialReconciliationError comes back
// together with a non-nil result because the promotion itself is stored.
func (s *PromotionService) Save(ctx context.Context, input PromotionInput) (*PromotionSaveResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Slug = strings.TrimSpace(input.Slug)
	input.StartDate = strings.TrimSpace(input.StartDate)
	input.EndDate = strings.TrimSpace(input.EndDate)

	if err := validateInput(s.validate, input); err != nil {
		return nil, err
	}
	if input.StartDate > input.EndDate {
		return nil, NewValidationError("enddate", "La fecha de fin no puede ser anterior a la de inicio.")
	}

	slug := input.Slug
	if slug == "" {
		slug = helpers.GenerateSlug(input.Name)
	}
	if !helpers.IsValidSlug(slug) {
		return nil, NewValidationError("slug", "El slug solo admite letras minúsculas, números y guiones.")
	}

	var promotion *models.SeasonalPromotion
	created := input.ID == ""
	if created {
		promotion = &models.SeasonalPromotion{ID: uuid.New().String()}
	} else {
		existing, err := s.promotions.GetByID(ctx, input.ID)
		if err != nil {
			return nil, storeError(err)
		}
		if existing == nil {
			return nil, fmt.Errorf("promotion %s: %w", input.ID, ErrNotFound)
		}
		promotion = existing
	}

	taken, err := s.promotions.SlugTaken(ctx, slug, input.ID)
	if err != nil {
		return nil, storeError(err)
	}
	if taken {
		return nil, fmt.Errorf("promotion slug %q: %w", slug, ErrDuplicateSlug)
	}

	promotion.Name = input.Name
	promotion.Slug = slug
	promotion.Description = helpers.NullableString(input.Description)
	promotion.BannerImageURL = helpers.NullableString(input.BannerImageURL)
	promotion.StartDate = input.StartDate
	promotion.EndDate = input.EndDate
	promotion.IsActive = input.IsActive

	if created {
		err = s.promotions.Create(ctx, promotion)
	} else {
		err = s.promotions.Update(ctx, promotion)
	}
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("promotion slug %q: %w", slug, ErrDuplicateSlug)
		}
		zap.S().Errorw("PromotionService.Save: failed to write promotion", "slug", slug, "error", err)
		return nil, storeError(err)
	}

	result := &PromotionSaveResult{Promotion: promotion, Created: created}

	var previous []string
	if !created {
		previous, err = s.products.LinkedProductIDs(ctx, promotion.ID)
		if err != nil {
			return result, fmt.Errorf("promotion saved but linked products could not be read: %w", storeError(err))
		}
	}

	result.Reconcile, err = s.sync.Reconcile(ctx, promotion, previous, input.Products)
	return result, err
}

// Delete detaches every linked product and then removes the promotion.
// The row is kept when detaching fails so the links can be retried.
func (s *PromotionService) Delete(ctx context.Context, id string) error {
	promotion, err := s.promotions.GetByID(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if promotion == nil {
		return fmt.Errorf("promotion %s: %w", id, ErrNotFound)
	}

	linked, err := s.products.LinkedProductIDs(ctx, id)
	if err != nil {
		return storeError(err)
	}
	if _, err := s.sync.Reconcile(ctx, promotion, linked, nil); err != nil {
		return err
	}

	if err := s.promotions.Delete(ctx, id); err != nil {
		return storeError(err)
	}
	zap.S().Infow("PromotionService.Delete: promotion deleted", "promotion_id", id, "detached", len(linked))
	return nil
}

func (s *PromotionService) Get(ctx context.Context, id string) (*models.SeasonalPromotion, error) {
	promotion, err := s.promotions.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err)
	}
	if promotion == nil {
		return nil, fmt.Errorf("promotion %s: %w", id, ErrNotFound)
	}
	return promotion, nil
}

func (s *PromotionService) List(ctx context.Context) ([]models.SeasonalPromotion, error) {
	promotions, err := s.promotions.GetAll(ctx)
	return promotions, storeError(err)
}

// ListRunning returns enabled promotions whose window contains today.
func (s *PromotionService) ListRunning(ctx context.Context) ([]models.SeasonalPromotion, error) {
	promotions, err := s.promotions.GetRunningOn(ctx, s.today())
	return promotions, storeError(err)
}

func (s *PromotionService) CountRunning(ctx context.Context) (int64, error) {
	count, err := s.promotions.CountRunningOn(ctx, s.today())
	return count, storeError(err)
}

// RunningBySlug loads a running promotion and its active products for the
// public detail page. Anything else is ErrNotFound.
func (s *PromotionService) RunningBySlug(ctx context.Context, slug string) (*models.SeasonalPromotion, []models.ProductWithCategory, error) {
	promotion, err := s.promotions.GetRunningBySlug(ctx, slug, s.today())
	if err != nil {
		return nil, nil, storeError(err)
	}
	if promotion == nil {
		return nil, nil, fmt.Errorf("promotion %q: %w", slug, ErrNotFound)
	}
	products, err := s.products.GetActiveByPromotion(ctx, promotion.ID)
	if err != nil {
		return nil, nil, storeError(err)
	}
	return promotion, products, nil
}

// Status is the admin badge for a promotion. Enabled promotions outside
// their window show as scheduled.
func (s *PromotionService) Status(p models.SeasonalPromotion) string {
	return PromotionStatus(p, s.today())
}

func PromotionStatus(p models.SeasonalPromotion, today string) string {
	switch {
	case p.RunningOn(today):
		return PromotionStatusActive
	case !p.IsActive:
		return PromotionStatusDisabled
	default:
		return PromotionStatusScheduled
	}
}

// Selection is the product id -> label map currently stored for promotionID,
// used to prefill the edit form.
func Selection(products []models.Product, promotionID string) map[string]string {
	selected := make(map[string]string)
	for _, p := range products {
		if p.LinkedTo(promotionID) {
			selected[p.ID] = helpers.StringValue(p.PromotionText)
		}
	}
	return selected
}
