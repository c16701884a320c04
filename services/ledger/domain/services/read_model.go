package services

import (
	"context"
	"fmt"

	"github.com/ghuser/stockledger/services/ledger/domain/models"
	"github.com/ghuser/stockledger/services/ledger/domain/repositories"
)

// SaleLister lists the committed sales.
type SaleLister interface {
	List(ctx context.Context) ([]models.Sale, error)
}

// WarmReadModel caches sale, then reads the ledger and drops the entry again
// unless the ledger still holds that exact sale. Resets and imports write the
// ledger before they flush the cache, so an entry written after such a flush
// is always caught by the confirming read. Reports whether the entry was kept.
func WarmReadModel(ctx context.Context, rm repositories.SaleReadModel, ledger SaleLister, sale models.Sale) (bool, error) {
	if err := rm.Put(ctx, sale); err != nil {
		return false, fmt.Errorf("cache sale %d: %w", sale.ID, err)
	}
	sales, err := ledger.List(ctx)
	if err == nil {
		if i := models.Find(sales, sale.ID); i >= 0 && sales[i].Equal(sale) {
			return true, nil
		}
	}
	if derr := rm.Delete(ctx, sale.ID); derr != nil {
		return false, fmt.Errorf("drop cached sale %d: %w", sale.ID, derr)
	}
	if err != nil {
		return false, fmt.Errorf("confirm cached sale %d: %w", sale.ID, err)
	}
	return false, nil
}
