package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/ghuser/stockledger/pkg/ids"
	"github.com/ghuser/stockledger/pkg/logger"
	catalogdomain "github.com/ghuser/stockledger/services/catalog/domain"
	"github.com/ghuser/stockledger/services/catalog/domain/models"
	"github.com/ghuser/stockledger/services/catalog/domain/repositories"
	domainsvcs "github.com/ghuser/stockledger/services/catalog/domain/services"
	productcsv "github.com/ghuser/stockledger/services/catalog/infrastructure/csv"
)

// ProductService orchestrates catalog mutations and queries. Every mutation is
// one repository Mutate, so a rejected call leaves the collection untouched.
type ProductService struct {
	repo repositories.ProductRepository
	ids  *ids.Generator
	log  logger.Logger
}

// NewProductService returns a ProductService wired with the given repository
// and id generator.
func NewProductService(repo repositories.ProductRepository, gen *ids.Generator, log logger.Logger) *ProductService {
	return &ProductService{repo: repo, ids: gen, log: log}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %w", catalogdomain.ErrInvalidProduct, err)
}

// Add validates the draft, assigns a fresh id and appends the product.
func (s *ProductService) Add(ctx context.Context, d models.Draft) (*models.Product, error) {
	if err := domainsvcs.ValidateDraft(d); err != nil {
		return nil, invalid(err)
	}
	var created models.Product
	err := s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		created = models.NewProduct(s.ids.Next(ids.Max(products, models.ProductID)), d)
		return append(products, created), nil
	})
	if err != nil {
		return nil, fmt.Errorf("add product: %w", err)
	}
	s.log.InfoContext(ctx, "product added", "product_id", created.ID, "name", created.Name)
	return &created, nil
}

// Update replaces the product with p.ID. Returns ErrProductNotFound when no
// such product exists.
func (s *ProductService) Update(ctx context.Context, p models.Product) (*models.Product, error) {
	if err := domainsvcs.ValidateDraft(domainsvcs.DraftOf(p)); err != nil {
		return nil, invalid(err)
	}
	updated := models.NewProduct(p.ID, domainsvcs.DraftOf(p))
	err := s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		i := models.Find(products, p.ID)
		if i < 0 {
			return nil, catalogdomain.ErrProductNotFound
		}
		products[i] = updated
		return products, nil
	})
	if err != nil {
		return nil, fmt.Errorf("update product %d: %w", p.ID, err)
	}
	s.log.InfoContext(ctx, "product updated", "product_id", updated.ID)
	return &updated, nil
}

// Delete removes the product with id. Returns ErrProductNotFound when no such
// product exists.
func (s *ProductService) Delete(ctx context.Context, id int64) error {
	err := s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		i := models.Find(products, id)
		if i < 0 {
			return nil, catalogdomain.ErrProductNotFound
		}
		return append(products[:i:i], products[i+1:]...), nil
	})
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	s.log.InfoContext(ctx, "product deleted", "product_id", id)
	return nil
}

// Get returns the product with id.
func (s *ProductService) Get(ctx context.Context, id int64) (*models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	i := models.Find(products, id)
	if i < 0 {
		return nil, catalogdomain.ErrProductNotFound
	}
	return &products[i], nil
}

// List returns the products matching f in stored order.
func (s *ProductService) List(ctx context.Context, f models.Filter) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return f.Apply(products), nil
}

// Categories returns the distinct categories, sorted.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return Categories(products), nil
}

// Categories returns the distinct categories of products, sorted.
func Categories(products []models.Product) []string {
	seen := make(map[string]bool)
	out := []string{}
	for _, p := range products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	sort.Strings(out)
	return out
}

// Available returns the products that can be sold: stock > 0.
func (s *ProductService) Available(ctx context.Context) ([]models.Product, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.Product{}
	for _, p := range products {
		if !p.OutOfStock() {
			out = append(out, p)
		}
	}
	return out, nil
}

// SeedDefaults installs the default catalog when the store has none.
func (s *ProductService) SeedDefaults(ctx context.Context) error {
	wrote, err := s.repo.SeedIfAbsent(ctx, models.DefaultProducts())
	if err != nil {
		return err
	}
	if wrote {
		s.log.InfoContext(ctx, "default products installed", "count", len(models.DefaultProducts()))
	}
	return nil
}

// ImportCSV appends every row of a product CSV with fresh ids. Any invalid
// row rejects the whole file. Returns the number of products imported.
func (s *ProductService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := productcsv.DecodeProducts(r)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidImport, err)
	}
	for _, row := range rows {
		if err := domainsvcs.ValidateDraft(row.Draft); err != nil {
			return 0, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidImport, &productcsv.LineError{Line: row.Line, Err: err})
		}
	}

	err = s.repo.Mutate(ctx, func(products []models.Product) ([]models.Product, error) {
		floor := ids.Max(products, models.ProductID)
		for _, row := range rows {
			p := models.NewProduct(s.ids.Next(floor), row.Draft)
			floor = p.ID
			products = append(products, p)
		}
		return products, nil
	})
	if err != nil {
		return 0, fmt.Errorf("import products: %w", err)
	}
	s.log.InfoContext(ctx, "products imported", "format", "csv", "count", len(rows))
	return len(rows), nil
}

// ExportCSV renders the whole catalog.
func (s *ProductService) ExportCSV(ctx context.Context, format productcsv.PriceFormat) ([]byte, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return productcsv.EncodeProducts(products, format), nil
}

// ReplaceAll swaps the collection for products, assigning ids where missing.
// Every product must validate; otherwise nothing is written.
func (s *ProductService) ReplaceAll(ctx context.Context, products []models.Product) (int, error) {
	var errs []error
	for i, p := range products {
		if err := domainsvcs.ValidateDraft(domainsvcs.DraftOf(p)); err != nil {
			errs = append(errs, fmt.Errorf("product %d: %w", i, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return 0, fmt.Errorf("%w: %w", catalogdomain.ErrInvalidImport, err)
	}
	next := domainsvcs.AssignMissingIDs(products, s.ids.Next)
	if err := s.repo.Mutate(ctx, func([]models.Product) ([]models.Product, error) {
		return next, nil
	}); err != nil {
		return 0, fmt.Errorf("replace products: %w", err)
	}
	s.log.InfoContext(ctx, "products imported", "format", "json", "count", len(next))
	return len(next), nil
}
