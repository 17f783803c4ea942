package services

import (
	"context"

	"github.com/josebdo/Cristal-Event-Planner/app/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type HomePage struct {
	Settings   Settings
	Categories []models.Category
	Products   []models.ProductWithCategory
	Promotions []models.SeasonalPromotion
}

type StorefrontService struct {
	catalog    *CatalogService
	promotions *PromotionService
	settings   *SettingsService
}

func NewStorefrontService(catalog *CatalogService, promotions *PromotionService, settings *SettingsService) *StorefrontService {
	return &StorefrontService{catalog: catalog, promotions: promotions, settings: settings}
}

// section runs one storefront read. A failed section is logged and left
// empty so the rest of the page still renders.
func section(g *errgroup.Group, name string, read func() error) {
	g.Go(func() error {
		if err := read(); err != nil {
			zap.S().Warnw("StorefrontService: section unavailable", "section", name, "error", err)
		}
		return nil
	})
}

// Home fetches the four independent reads of the landing page concurrently.
func (s *StorefrontService) Home(ctx context.Context) (*HomePage, error) {
	page := &HomePage{}
	var g errgroup.Group

	section(&g, "settings", func() error {
		page.Settings = s.settings.Load(ctx)
		return nil
	})
	section(&g, "categories", func() error {
		categories, err := s.catalog.ListCategories(ctx)
		if err == nil {
			page.Categories = categories
		}
		return err
	})
	section(&g, "products", func() error {
		products, err := s.catalog.ListActiveProducts(ctx)
		if err == nil {
			page.Products = products
		}
		return err
	})
	section(&g, "promotions", func() error {
		promotions, err := s.promotions.ListRunning(ctx)
		if err == nil {
			page.Promotions = promotions
		}
		return err
	})

	_ = g.Wait()
	return page, nil
}

type PromotionsPage struct {
	Settings   Settings
	Promotions []models.SeasonalPromotion
}

func (s *StorefrontService) Promotions(ctx context.Context) (*PromotionsPage, error) {
	page := &PromotionsPage{}
	var g errgroup.Group
	section(&g, "settings", func() error {
		page.Settings = s.settings.Load(ctx)
		return nil
	})
	section(&g, "promotions", func() error {
		promotions, err := s.promotions.ListRunning(ctx)
		if err == nil {
			page.Promotions = promotions
		}
		return err
	})
	_ = g.Wait()
	return page, nil
}

type PromotionPage struct {
	Settings  Settings
	Promotion *models.SeasonalPromotion
	Products  []models.ProductWithCategory
}

func (s *StorefrontService) Promotion(ctx context.Context, slug string) (*PromotionPage, error) {
	page := &PromotionPage{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		page.Settings = s.settings.Load(gctx)
		return nil
	})
	g.Go(func() error {
		promotion, products, err := s.promotions.RunningBySlug(gctx, slug)
		page.Promotion = promotion
		page.Products = products
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return page, nil
}

type Overview struct {
	Products         int64
	Categories       int64
	ActivePromotions int64
}

// Overview gathers the dashboard counters.
func (s *StorefrontService) Overview(ctx context.Context) (*Overview, error) {
	out := &Overview{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Products, err = s.catalog.CountProducts(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.Categories, err = s.catalog.CountCategories(gctx)
		return err
	})
	g.Go(func() (err error) {
		out.ActivePromotions, err = s.promotions.CountRunning(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
