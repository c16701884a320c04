package repositories

import (
	"context"

	"github.com/ghuser/stockledger/services/catalog/domain/models"
)

// ProductRepository is the persistence interface for the product collection.
// The domain layer owns this interface; infrastructure implements it.
type ProductRepository interface {
	// List returns every product in stored order.
	List(ctx context.Context) ([]models.Product, error)

	// Mutate loads the collection, passes it to fn and stores what fn returns,
	// all in one store update. When fn returns an error nothing is written.
	Mutate(ctx context.Context, fn func(products []models.Product) ([]models.Product, error)) error

	// SeedIfAbsent stores products only when no product document exists yet.
	// Reports whether it wrote.
	SeedIfAbsent(ctx context.Context, products []models.Product) (bool, error)
}
