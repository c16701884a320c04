package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/ghuser/stockledger/pkg/money"
	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	ledgerdomain "github.com/ghuser/stockledger/services/ledger/domain"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

// Commit builds the sale for lines against products and returns it together
// with the products after their stock was decremented. products is not
// modified. Every line is checked before anything is computed, so a rejected
// sale has no effect at all.
func Commit(products []catalog.Product, lines []models.Line, customer string, id int64, now time.Time) (models.Sale, []catalog.Product, error) {
	if len(lines) == 0 {
		return models.Sale{}, nil, ledgerdomain.ErrEmptySale
	}

	requested := make(map[int64]int, len(lines))
	for i, l := range lines {
		if l.Quantity <= 0 {
			return models.Sale{}, nil, fmt.Errorf("line %d: %w", i+1, ledgerdomain.ErrInvalidQuantity)
		}
		if catalog.Find(products, l.ProductID) < 0 {
			return models.Sale{}, nil, fmt.Errorf("%w: %d", ledgerdomain.ErrUnknownProduct, l.ProductID)
		}
		requested[l.ProductID] += l.Quantity
	}

	next := make([]catalog.Product, len(products))
	copy(next, products)
	for pid, qty := range requested {
		p := &next[catalog.Find(next, pid)]
		if qty > p.Stock {
			return models.Sale{}, nil, fmt.Errorf("%w: %s has %d, requested %d",
				ledgerdomain.ErrInsufficientStock, p.Name, p.Stock, qty)
		}
		p.Stock -= qty
	}

	sale := models.Sale{
		ID:           id,
		Date:         now,
		Items:        make([]models.SaleItem, 0, len(lines)),
		CustomerName: strings.TrimSpace(customer),
	}
	for _, l := range lines {
		p := products[catalog.Find(products, l.ProductID)]
		sale.Items = append(sale.Items, models.SaleItem{
			ProductID:   p.ID,
			ProductName: p.Name,
			Quantity:    l.Quantity,
			Price:       p.Price,
			Total:       money.Times(p.Price, l.Quantity),
		})
	}
	sale.TotalPrice = sale.ComputedTotal()
	return sale, next, nil
}

// StockAfter returns the stock of productID in products, or 0 when absent.
func StockAfter(products []catalog.Product, productID int64) int {
	if i := catalog.Find(products, productID); i >= 0 {
		return products[i].Stock
	}
	return 0
}
