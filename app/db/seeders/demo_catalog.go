package seeders

import (
	"context"

	"github.com/josebdo/Cristal-Event-Planner/app/services"
)

type demoProduct struct {
	category string
	input    services.ProductInput
}

var demoCategories = []services.CategoryInput{
	{Name: "Arreglos florales", Description: "Flores frescas para cada ocasión."},
	{Name: "Decoración de eventos", Description: "Centros de mesa, globos y más."},
}

var demoProducts = []demoProduct{
	{category: "Arreglos florales", input: services.ProductInput{Name: "Ramo de rosas rojas", Price: "1850", IsActive: true, DisplayOrder: 1}},
	{category: "Arreglos florales", input: services.ProductInput{Name: "Caja de girasoles", Price: "1250", IsActive: true, DisplayOrder: 2}},
	{category: "Decoración de eventos", input: services.ProductInput{Name: "Centro de mesa cristal", Price: "950", IsActive: true, DisplayOrder: 3}},
}

// DemoCatalog fills an empty catalog with a few categories and products so
// a fresh install has something to show. It does nothing once products exist.
func DemoCatalog(catalog *services.CatalogService) func(ctx context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		count, err := catalog.CountProducts(ctx)
		if err != nil {
			return 0, err
		}
		if count > 0 {
			return 0, nil
		}

		created := 0
		categoryIDs := make(map[string]string, len(demoCategories))
		for _, input := range demoCategories {
			category, err := catalog.SaveCategory(ctx, input)
			if err != nil {
				return created, err
			}
			categoryIDs[category.Name] = category.ID
			created++
		}
		for _, p := range demoProducts {
			input := p.input
			input.CategoryID = categoryIDs[p.category]
			if _, err := catalog.SaveProduct(ctx, input); err != nil {
				return created, err
			}
			created++
		}
		return created, nil
	}
}
