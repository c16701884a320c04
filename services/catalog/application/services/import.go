package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	pkgvalidator "github.com/ghuser/stockledger/pkg/validator"
	catalogdomain "github.com/ghuser/stockledger/services/catalog/domain"
	"github.com/ghuser/stockledger/services/catalog/domain/models"
)

// ImportedProduct is one element of a JSON products import. Ids are optional;
// name, price and stock are required.
type ImportedProduct struct {
	ID       int64            `json:"id,omitempty"`
	Name     string           `json:"name"     validate:"required"`
	Category string           `json:"category"`
	Price    *decimal.Decimal `json:"price"    validate:"required"`
	Stock    *int             `json:"stock"    validate:"required"`
	Image    string           `json:"image,omitempty"`
} // @name ImportedProduct

// Product converts i; a missing category becomes models.DefaultCategory.
func (i ImportedProduct) Product() models.Product {
	category := strings.TrimSpace(i.Category)
	if category == "" {
		category = models.DefaultCategory
	}
	return models.Product{
		ID:       i.ID,
		Name:     strings.TrimSpace(i.Name),
		Category: category,
		Price:    *i.Price,
		Stock:    *i.Stock,
		Image:    i.Image,
	}
}

// DecodeImportedProducts parses and validates a JSON array of products.
func DecodeImportedProducts(data []byte) ([]models.Product, error) {
	var items []ImportedProduct
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: products must be a JSON array: %w", catalogdomain.ErrInvalidImport, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: products must be a JSON array", catalogdomain.ErrInvalidImport)
	}
	out := make([]models.Product, 0, len(items))
	for i, it := range items {
		if err := pkgvalidator.Validate(&it); err != nil {
			return nil, fmt.Errorf("%w: product %d: %s", catalogdomain.ErrInvalidImport, i, pkgvalidator.Describe(err))
		}
		out = append(out, it.Product())
	}
	return out, nil
}

// ImportJSON replaces the catalog with a JSON array of products.
func (s *ProductService) ImportJSON(ctx context.Context, data []byte) (int, error) {
	products, err := DecodeImportedProducts(data)
	if err != nil {
		return 0, err
	}
	return s.ReplaceAll(ctx, products)
}

// ExportJSON renders the whole catalog as a pretty-printed JSON array.
func (s *ProductService) ExportJSON(ctx context.Context) ([]byte, error) {
	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []models.Product{}
	}
	return json.MarshalIndent(products, "", "  ")
}
