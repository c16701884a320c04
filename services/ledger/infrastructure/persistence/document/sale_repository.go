// Package document implements the ledger repositories on the key/value
// document store. Sales are one document; a commit rewrites it together with
// the product document.
package document

import (
	"context"
	"fmt"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	catalogdoc "github.com/ghuser/stockledger/services/catalog/infrastructure/persistence/document"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

// SaleRepository implements repositories.SaleRepository against a store.Store.
type SaleRepository struct {
	store store.Store
	log   logger.Logger
}

// NewSaleRepository returns a SaleRepository backed by s.
func NewSaleRepository(s store.Store, log logger.Logger) *SaleRepository {
	return &SaleRepository{store: s, log: log}
}

// LoadSales decodes the sale collection from r.
func LoadSales(ctx context.Context, r store.Reader, log logger.Logger) ([]models.Sale, error) {
	sales, err := store.Load[[]models.Sale](ctx, r, store.Sales, log)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}
	return sales, nil
}

// StageSales encodes sales into tx. A nil slice is stored as [].
func StageSales(tx store.Tx, sales []models.Sale) error {
	if sales == nil {
		sales = []models.Sale{}
	}
	return store.Stage(tx, store.Sales, sales)
}

// List returns every sale in stored order.
func (r *SaleRepository) List(ctx context.Context) ([]models.Sale, error) {
	return LoadSales(ctx, r.store, r.log)
}

// Commit writes the products and sales returned by fn in one store update.
func (r *SaleRepository) Commit(ctx context.Context, fn func([]catalog.Product, []models.Sale) ([]catalog.Product, []models.Sale, error)) error {
	return r.store.Update(ctx, func(ctx context.Context, tx store.Tx) error {
		products, err := catalogdoc.LoadProducts(ctx, tx, r.log)
		if err != nil {
			return err
		}
		sales, err := LoadSales(ctx, tx, r.log)
		if err != nil {
			return err
		}
		nextProducts, nextSales, err := fn(products, sales)
		if err != nil {
			return err
		}
		if err := catalogdoc.StageProducts(tx, nextProducts); err != nil {
			return err
		}
		return StageSales(tx, nextSales)
	})
}
