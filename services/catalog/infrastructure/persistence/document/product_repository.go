// Package document implements the catalog repositories on the key/value
// document store. The whole product collection is one document.
package document

import (
	"context"
	"fmt"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	"github.com/ghuser/stockledger/services/catalog/domain/models"
)

// ProductRepository implements repositories.ProductRepository against a store.Store.
type ProductRepository struct {
	store store.Store
	log   logger.Logger
}

// NewProductRepository returns a ProductRepository backed by s. Corrupt
// product documents are reported on log and read as empty.
func NewProductRepository(s store.Store, log logger.Logger) *ProductRepository {
	return &ProductRepository{store: s, log: log}
}

// LoadProducts decodes the product collection from r.
func LoadProducts(ctx context.Context, r store.Reader, log logger.Logger) ([]models.Product, error) {
	products, err := store.Load[[]models.Product](ctx, r, store.Products, log)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	return products, nil
}

// StageProducts encodes products into tx. A nil slice is stored as [].
func StageProducts(tx store.Tx, products []models.Product) error {
	if products == nil {
		products = []models.Product{}
	}
	return store.Stage(tx, store.Products, products)
}

// List returns every product in stored order.
func (r *ProductRepository) List(ctx context.Context) ([]models.Product, error) {
	return LoadProducts(ctx, r.store, r.log)
}

// Mutate applies fn to the stored collection in one store update.
func (r *ProductRepository) Mutate(ctx context.Context, fn func([]models.Product) ([]models.Product, error)) error {
	return r.store.Update(ctx, func(ctx context.Context, tx store.Tx) error {
		products, err := LoadProducts(ctx, tx, r.log)
		if err != nil {
			return err
		}
		next, err := fn(products)
		if err != nil {
			return err
		}
		return StageProducts(tx, next)
	})
}

// SeedIfAbsent writes products only when the product document is missing.
func (r *ProductRepository) SeedIfAbsent(ctx context.Context, products []models.Product) (bool, error) {
	var wrote bool
	err := r.store.Update(ctx, func(ctx context.Context, tx store.Tx) error {
		wrote = false
		ok, err := store.Exists(ctx, tx, store.Products)
		if err != nil || ok {
			return err
		}
		wrote = true
		return StageProducts(tx, products)
	})
	if err != nil {
		return false, fmt.Errorf("seed products: %w", err)
	}
	return wrote, nil
}
