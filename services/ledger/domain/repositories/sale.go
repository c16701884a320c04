package repositories

import (
	"context"

	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

// SaleRepository defines the persistence contract for the ledger.
type SaleRepository interface {
	List(ctx context.Context) ([]models.Sale, error)
	// Commit loads products and sales, calls fn and stores both returned
	// collections in one atomic write. An error from fn writes nothing.
	// fn may be called more than once.
	Commit(ctx context.Context, fn func(products []catalog.Product, sales []models.Sale) ([]catalog.Product, []models.Sale, error)) error
}

// SaleReadModel caches committed sales for id lookups. Implementations may
// be backed by a remote cache, so every method can fail.
type SaleReadModel interface {
	Get(ctx context.Context, id int64) (models.Sale, bool, error)
	Put(ctx context.Context, sale models.Sale) error
	Delete(ctx context.Context, id int64) error
}
