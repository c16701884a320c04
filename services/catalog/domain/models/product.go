package models

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/money"
)

// LowStockThreshold is the stock level below which a product counts as low.
const LowStockThreshold = 5

// DefaultCategory is assigned to imported rows that carry no category.
const DefaultCategory = "Uncategorized"

// Product is the catalog aggregate. Its JSON form is the stored document shape.
type Product struct {
	ID       int64           `json:"id"`
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Price    decimal.Decimal `json:"price"`
	Stock    int             `json:"stock"`
	Image    string          `json:"image,omitempty"`
}

// Draft is a product that has not been assigned an id yet.
type Draft struct {
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int
	Image    string
}

// NewProduct builds a Product from a draft with the given id. Text fields are
// trimmed.
func NewProduct(id int64, d Draft) Product {
	return Product{
		ID:       id,
		Name:     strings.TrimSpace(d.Name),
		Category: strings.TrimSpace(d.Category),
		Price:    d.Price,
		Stock:    d.Stock,
		Image:    strings.TrimSpace(d.Image),
	}
}

// OutOfStock reports stock <= 0. Negative stock only arises from legacy data.
func (p Product) OutOfStock() bool {
	return p.Stock <= 0
}

// LowStock reports stock below threshold.
func (p Product) LowStock(threshold int) bool {
	return p.Stock < threshold
}

// PriceFixed renders the price with two decimals.
func (p Product) PriceFixed() string {
	return money.Fixed(p.Price)
}

// StockLevel selects products by stock.
type StockLevel string

// Stock levels accepted by Filter.
const (
	StockAll StockLevel = "all"
	StockLow StockLevel = "low"
	StockOut StockLevel = "out"
)

// ParseStockLevel maps "", "all", "low" and "out" to a StockLevel.
func ParseStockLevel(s string) (StockLevel, bool) {
	switch StockLevel(strings.ToLower(strings.TrimSpace(s))) {
	case "", StockAll:
		return StockAll, true
	case StockLow:
		return StockLow, true
	case StockOut:
		return StockOut, true
	default:
		return "", false
	}
}

// Filter narrows a product listing. Zero value matches everything. Criteria
// combine with AND.
type Filter struct {
	// Search is a case-insensitive substring of the name or the category.
	Search string
	// Category matches exactly; "" and "all" disable it.
	Category string
	Stock    StockLevel
}

// Match reports whether p satisfies every criterion of f.
func (f Filter) Match(p Product) bool {
	if q := strings.ToLower(strings.TrimSpace(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(p.Name), q) && !strings.Contains(strings.ToLower(p.Category), q) {
			return false
		}
	}
	if f.Category != "" && f.Category != "all" && p.Category != f.Category {
		return false
	}
	switch f.Stock {
	case StockLow:
		return p.LowStock(LowStockThreshold)
	case StockOut:
		return p.OutOfStock()
	}
	return true
}

// Apply returns the products matching f in their stored order.
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.Match(p) {
			out = append(out, p)
		}
	}
	return out
}

// Find returns the index of the product with id, or -1.
func Find(products []Product, id int64) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// ProductID is the id accessor used with ids.Max.
func ProductID(p Product) int64 { return p.ID }
