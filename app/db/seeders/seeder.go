package seeders

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/josebdo/Cristal-Event-Planner/app/repositories"
	"github.com/josebdo/Cristal-Event-Planner/app/services"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Seeder struct {
	Name string
	Run  func(ctx context.Context) (int, error)
}

// SeedersRegister lists what DBSeed runs, in order. Demo data is opt-in.
func SeedersRegister(db *gorm.DB, demo bool) []Seeder {
	settings := services.NewSettingsService(repositories.NewSettingRepository(db))
	seeders := []Seeder{
		{Name: "site settings", Run: settings.Seed},
	}
	if demo {
		catalog := services.NewCatalogService(
			repositories.NewProductRepository(db),
			repositories.NewCategoryRepository(db),
			repositories.NewPromotionRepository(db),
			validator.New(),
		)
		seeders = append(seeders, Seeder{Name: "demo catalog", Run: DemoCatalog(catalog)})
	}
	return seeders
}

func DBSeed(ctx context.Context, db *gorm.DB, demo bool) error {
	for _, seeder := range SeedersRegister(db, demo) {
		created, err := seeder.Run(ctx)
		if err != nil {
			return fmt.Errorf("seeding %s: %w", seeder.Name, err)
		}
		zap.S().Infow("DBSeed: seeder finished", "seeder", seeder.Name, "created", created)
	}
	return nil
}
