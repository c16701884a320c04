package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ghuser/stockledger/pkg/ids"
	"github.com/ghuser/stockledger/pkg/logger"
	pkgvalidator "github.com/ghuser/stockledger/pkg/validator"
	catalogsvcs "github.com/ghuser/stockledger/services/catalog/application/services"
	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	catalogrules "github.com/ghuser/stockledger/services/catalog/domain/services"
	ledgersvcs "github.com/ghuser/stockledger/services/ledger/application/services"
	ledger "github.com/ghuser/stockledger/services/ledger/domain/models"
	"github.com/ghuser/stockledger/services/system/domain"
	"github.com/ghuser/stockledger/services/system/domain/models"
	"github.com/ghuser/stockledger/services/system/infrastructure/persistence/document"
)

// Flusher drops derived state that an import or reset invalidates.
type Flusher interface {
	Flush(ctx context.Context) error
}

// BackupDocument is the body of a backup import. Products are required;
// absent sales import as none and absent settings keep the stored ones.
type BackupDocument struct {
	Products []catalogsvcs.ImportedProduct `json:"products"           validate:"required"`
	Sales    []ledgersvcs.ImportedSale     `json:"sales,omitempty"`
	Settings *models.Settings              `json:"settings,omitempty"`
} // @name BackupDocument

// BackupService exports, imports and resets the whole data set.
type BackupService struct {
	repo  *document.BackupRepository
	ids   *ids.Generator
	cache Flusher
	log   logger.Logger
}

// NewBackupService returns a BackupService. cache may be nil.
func NewBackupService(repo *document.BackupRepository, gen *ids.Generator, cache Flusher, log logger.Logger) *BackupService {
	return &BackupService{repo: repo, ids: gen, cache: cache, log: log}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidImport, err)
}

// Snapshot returns the current products, sales and settings.
func (s *BackupService) Snapshot(ctx context.Context) (models.Backup, error) {
	return s.repo.Snapshot(ctx)
}

// Export renders the snapshot as pretty-printed JSON.
func (s *BackupService) Export(ctx context.Context) ([]byte, error) {
	b, err := s.repo.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(b, "", "  ")
}

// Import replaces data from a document of the given kind. Nothing is written
// unless the whole document is valid.
func (s *BackupService) Import(ctx context.Context, kind models.ImportKind, data []byte) (models.ImportResult, error) {
	b, err := s.decode(kind, data)
	if err != nil {
		s.log.WarnContext(ctx, "import rejected", "kind", string(kind), "error", err)
		return models.ImportResult{}, err
	}
	if err := s.repo.Replace(ctx, b); err != nil {
		return models.ImportResult{}, err
	}
	s.flush(ctx)

	res := models.ImportResult{
		Kind:     kind,
		Products: len(b.Products),
		Sales:    len(b.Sales),
		Settings: b.Settings != nil,
	}
	s.log.InfoContext(ctx, "data imported",
		"kind", string(kind), "products", res.Products, "sales", res.Sales, "settings", res.Settings)
	return res, nil
}

func (s *BackupService) decode(kind models.ImportKind, data []byte) (models.Backup, error) {
	switch kind {
	case models.ImportBackup:
		var doc BackupDocument
		if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
			return models.Backup{}, invalid(fmt.Errorf("backup must be a JSON object: %w", err))
		}
		if err := pkgvalidator.Validate(&doc); err != nil {
			return models.Backup{}, invalid(errors.New(pkgvalidator.Describe(err)))
		}
		products, err := s.convertProducts(doc.Products)
		if err != nil {
			return models.Backup{}, err
		}
		sales := []ledger.Sale{}
		if doc.Sales != nil {
			if sales, err = ledgersvcs.ConvertImportedSales(doc.Sales, s.ids.Next); err != nil {
				return models.Backup{}, invalid(err)
			}
		}
		b := models.Backup{Products: products, Sales: sales}
		if doc.Settings != nil {
			settings := doc.Settings.WithDefaults()
			b.Settings = &settings
		}
		return b, nil

	case models.ImportProducts:
		decoded, err := catalogsvcs.DecodeImportedProducts(data)
		if err != nil {
			return models.Backup{}, invalid(err)
		}
		products, err := s.checkProducts(decoded)
		if err != nil {
			return models.Backup{}, err
		}
		return models.Backup{Products: products}, nil

	case models.ImportSales:
		sales, err := ledgersvcs.DecodeImportedSales(data, s.ids.Next)
		if err != nil {
			return models.Backup{}, invalid(err)
		}
		return models.Backup{Sales: sales}, nil

	default:
		return models.Backup{}, fmt.Errorf("%w: %q", domain.ErrUnknownImportKind, kind)
	}
}

func (s *BackupService) convertProducts(items []catalogsvcs.ImportedProduct) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(items))
	for i := range items {
		if err := pkgvalidator.Validate(&items[i]); err != nil {
			return nil, invalid(fmt.Errorf("product %d: %s", i, pkgvalidator.Describe(err)))
		}
		out = append(out, items[i].Product())
	}
	return s.checkProducts(out)
}

func (s *BackupService) checkProducts(products []catalog.Product) ([]catalog.Product, error) {
	var errs []error
	for i, p := range products {
		if err := catalogrules.ValidateDraft(catalogrules.DraftOf(p)); err != nil {
			errs = append(errs, fmt.Errorf("product %d: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, invalid(err)
	}
	return catalogrules.AssignMissingIDs(products, s.ids.Next), nil
}

// Reset deletes products, sales and settings. Users are kept.
func (s *BackupService) Reset(ctx context.Context) error {
	if err := s.repo.Reset(ctx); err != nil {
		return err
	}
	s.flush(ctx)
	s.log.InfoContext(ctx, "data reset")
	return nil
}

func (s *BackupService) flush(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Flush(ctx); err != nil {
		s.log.WarnContext(ctx, "failed to flush sale cache", "error", err)
	}
}
