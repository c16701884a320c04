package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/money"
	pkgvalidator "github.com/ghuser/stockledger/pkg/validator"
	ledgerdomain "github.com/ghuser/stockledger/services/ledger/domain"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
	domainsvcs "github.com/ghuser/stockledger/services/ledger/domain/services"
)

// ImportedSaleItem is one line of an imported sale. A missing total is
// computed from price and quantity; a supplied one must agree with them.
type ImportedSaleItem struct {
	ProductID   int64            `json:"productId"   validate:"required,gt=0"`
	ProductName string           `json:"productName"`
	Quantity    int              `json:"quantity"    validate:"required,gt=0"`
	Price       *decimal.Decimal `json:"price"       validate:"required"`
	Total       *decimal.Decimal `json:"total,omitempty"`
} // @name ImportedSaleItem

// ImportedSale is one element of a JSON sales import. Ids and totals are
// optional; items are required. Supplied totals are checked and then replaced
// by the recomputed values.
type ImportedSale struct {
	ID           int64              `json:"id,omitempty"`
	Date         time.Time          `json:"date"                   validate:"required"`
	Items        []ImportedSaleItem `json:"items"                  validate:"required,min=1,dive"`
	TotalPrice   *decimal.Decimal   `json:"totalPrice,omitempty"`
	CustomerName string             `json:"customerName,omitempty"`
} // @name ImportedSale

// Sale converts i.
func (i ImportedSale) Sale() models.Sale {
	s := models.Sale{
		ID:           i.ID,
		Date:         i.Date,
		Items:        make([]models.SaleItem, 0, len(i.Items)),
		CustomerName: strings.TrimSpace(i.CustomerName),
	}
	for _, it := range i.Items {
		total := money.Times(*it.Price, it.Quantity)
		if it.Total != nil {
			total = *it.Total
		}
		s.Items = append(s.Items, models.SaleItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       *it.Price,
			Total:       total,
		})
	}
	s.TotalPrice = s.ComputedTotal()
	if i.TotalPrice != nil {
		s.TotalPrice = *i.TotalPrice
	}
	return s
}

// ConvertImportedSales validates items and converts them. next assigns ids
// to sales without one.
func ConvertImportedSales(items []ImportedSale, next func(floor int64) int64) ([]models.Sale, error) {
	out := make([]models.Sale, 0, len(items))
	for i := range items {
		if err := pkgvalidator.Validate(&items[i]); err != nil {
			return nil, fmt.Errorf("%w: sale %d: %s", ledgerdomain.ErrInvalidSale, i, pkgvalidator.Describe(err))
		}
		s := items[i].Sale()
		if err := domainsvcs.ValidateSale(s); err != nil {
			return nil, fmt.Errorf("%w: sale %d: %w", ledgerdomain.ErrInvalidSale, i, err)
		}
		out = append(out, domainsvcs.ReconcileTotals(s))
	}
	return domainsvcs.AssignMissingSaleIDs(out, next), nil
}

// DecodeImportedSales parses, validates and converts a JSON array of sales.
func DecodeImportedSales(data []byte, next func(floor int64) int64) ([]models.Sale, error) {
	var items []ImportedSale
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&items); err != nil {
		return nil, fmt.Errorf("%w: sales must be a JSON array: %w", ledgerdomain.ErrInvalidSale, err)
	}
	if items == nil {
		return nil, fmt.Errorf("%w: sales must be a JSON array", ledgerdomain.ErrInvalidSale)
	}
	return ConvertImportedSales(items, next)
}

// ExportJSON renders every sale as a pretty-printed JSON array in stored order.
func (s *SaleService) ExportJSON(ctx context.Context) ([]byte, error) {
	sales, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(sales, "", "  ")
}
