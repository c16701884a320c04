package document

import (
	"context"
	"fmt"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	catalogdoc "github.com/ghuser/stockledger/services/catalog/infrastructure/persistence/document"
	ledger "github.com/ghuser/stockledger/services/ledger/domain/models"
	ledgerdoc "github.com/ghuser/stockledger/services/ledger/infrastructure/persistence/document"
	"github.com/ghuser/stockledger/services/system/domain/models"
)

// BackupRepository reads and replaces the products, sales and settings
// documents together.
type BackupRepository struct {
	store store.Store
	log   logger.Logger
}

// NewBackupRepository returns a BackupRepository backed by s.
func NewBackupRepository(s store.Store, log logger.Logger) *BackupRepository {
	return &BackupRepository{store: s, log: log}
}

// Snapshot reads every exported document from one store state. Absent
// collections are empty and absent settings are the defaults.
func (r *BackupRepository) Snapshot(ctx context.Context) (models.Backup, error) {
	var b models.Backup
	err := store.View(ctx, r.store, func(ctx context.Context, rd store.Reader) error {
		products, err := catalogdoc.LoadProducts(ctx, rd, r.log)
		if err != nil {
			return err
		}
		sales, err := ledgerdoc.LoadSales(ctx, rd, r.log)
		if err != nil {
			return err
		}
		settings, err := LoadSettings(ctx, rd, r.log)
		if err != nil {
			return err
		}
		b = models.Backup{Products: products, Sales: sales, Settings: &settings}
		return nil
	})
	if err != nil {
		return models.Backup{}, err
	}
	if b.Products == nil {
		b.Products = []catalog.Product{}
	}
	if b.Sales == nil {
		b.Sales = []ledger.Sale{}
	}
	return b, nil
}

// Replace writes the non-nil parts of b in one store update. Nil Products or
// Sales slices leave that collection as it is; a nil Settings keeps the
// stored settings.
func (r *BackupRepository) Replace(ctx context.Context, b models.Backup) error {
	err := r.store.Update(ctx, func(_ context.Context, tx store.Tx) error {
		if b.Products != nil {
			if err := catalogdoc.StageProducts(tx, b.Products); err != nil {
				return err
			}
		}
		if b.Sales != nil {
			if err := ledgerdoc.StageSales(tx, b.Sales); err != nil {
				return err
			}
		}
		if b.Settings != nil {
			return StageSettings(tx, *b.Settings)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("replace documents: %w", err)
	}
	return nil
}

// Reset deletes products, sales and settings. Users and the current user
// handle survive.
func (r *BackupRepository) Reset(ctx context.Context) error {
	err := r.store.Update(ctx, func(_ context.Context, tx store.Tx) error {
		tx.Delete(store.Products)
		tx.Delete(store.Sales)
		tx.Delete(store.Settings)
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset documents: %w", err)
	}
	return nil
}
