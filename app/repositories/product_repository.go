package repositories

import (
	"context"
	"errors"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"gorm.io/gorm"
)

type ProductRepositoryImpl interface {
	Create(ctx context.Context, product *models.Product) error
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetAllWithCategory(ctx context.Context) ([]models.ProductWithCategory, error)
	GetActiveWithCategory(ctx context.Context) ([]models.ProductWithCategory, error)
	GetActiveByPromotion(ctx context.Context, promotionID string) ([]models.ProductWithCategory, error)
	GetAllByName(ctx context.Context) ([]models.Product, error)
	LinkedProductIDs(ctx context.Context, promotionID string) ([]string, error)
	Count(ctx context.Context) (int64, error)
	PromotionLinker
}

// PromotionLinker performs the single-row writes that attach a product to a
// seasonal promotion or detach it. Both return gorm.ErrRecordNotFound when the
// product does not exist.
type PromotionLinker interface {
	LinkPromotion(ctx context.Context, productID, promotionID, label string) error
	UnlinkPromotion(ctx context.Context, productID string) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) Create(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, product *models.Product) error {
	return p.db.WithContext(ctx).Save(product).Error
}

func (p *productRepository) Delete(ctx context.Context, id string) error {
	return p.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	if err := p.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) withCategory(ctx context.Context) *gorm.DB {
	return p.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*, categories.name AS category_name, categories.slug AS category_slug").
		Joins("LEFT JOIN categories ON categories.id = products.category_id")
}

func (p *productRepository) GetAllWithCategory(ctx context.Context) ([]models.ProductWithCategory, error) {
	var rows []models.ProductWithCategory
	err := p.withCategory(ctx).
		Order("products.display_order ASC").
		Order("products.created_at ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *productRepository) GetActiveWithCategory(ctx context.Context) ([]models.ProductWithCategory, error) {
	var rows []models.ProductWithCategory
	err := p.withCategory(ctx).
		Where("products.is_active = ?", true).
		Order("products.display_order ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *productRepository) GetActiveByPromotion(ctx context.Context, promotionID string) ([]models.ProductWithCategory, error) {
	var rows []models.ProductWithCategory
	err := p.withCategory(ctx).
		Where("products.seasonal_promotion_id = ?", promotionID).
		Where("products.is_active = ?", true).
		Order("products.display_order ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (p *productRepository) GetAllByName(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := p.db.WithContext(ctx).Order("name ASC").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

func (p *productRepository) LinkedProductIDs(ctx context.Context, promotionID string) ([]string, error) {
	var ids []string
	err := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("seasonal_promotion_id = ?", promotionID).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (p *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := p.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error
	return count, err
}

func (p *productRepository) LinkPromotion(ctx context.Context, productID, promotionID, label string) error {
	return p.updateLinkage(ctx, productID, map[string]interface{}{
		"seasonal_promotion_id": promotionID,
		"is_promotion":          true,
		"promotion_text":        label,
	})
}

// UnlinkPromotion clears the linkage columns. promotion_start and
// promotion_end are product-specific and stay as they are.
func (p *productRepository) UnlinkPromotion(ctx context.Context, productID string) error {
	return p.updateLinkage(ctx, productID, map[string]interface{}{
		"seasonal_promotion_id": nil,
		"is_promotion":          false,
		"promotion_text":        nil,
	})
}

func (p *productRepository) updateLinkage(ctx context.Context, productID string, updates map[string]interface{}) error {
	result := p.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected > 0 {
		return nil
	}

	return requireRow(ctx, p.db, &models.Product{}, productID)
}
