package services

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/money"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

// totalPlaces is the precision at which supplied totals must agree with the
// recomputed ones. Finer digits are float noise from older exports.
const totalPlaces = 2

// ValidateSale checks a sale entering the ledger from an import. Every line
// total must equal price × quantity and the sale total must equal the sum of
// the line totals, both to the cent.
func ValidateSale(s models.Sale) error {
	var errs []error
	if len(s.Items) == 0 {
		errs = append(errs, errors.New("items: at least one item is required"))
	}
	if s.Date.IsZero() {
		errs = append(errs, errors.New("date: is required"))
	}
	for i, it := range s.Items {
		if it.ProductID <= 0 {
			errs = append(errs, fmt.Errorf("items[%d].productId: must be positive", i))
		}
		if it.Quantity <= 0 {
			errs = append(errs, fmt.Errorf("items[%d].quantity: must be greater than 0", i))
		}
		if it.Price.IsNegative() {
			errs = append(errs, fmt.Errorf("items[%d].price: must not be negative", i))
		}
		if want := money.Times(it.Price, it.Quantity); !sameCents(it.Total, want) {
			errs = append(errs, fmt.Errorf("items[%d].total: %s does not match price × quantity %s", i, money.Raw(it.Total), money.Raw(want)))
		}
	}
	if want := s.ComputedTotal(); len(s.Items) > 0 && !sameCents(s.TotalPrice, want) {
		errs = append(errs, fmt.Errorf("totalPrice: %s does not match the sum of item totals %s", money.Raw(s.TotalPrice), money.Raw(want)))
	}
	return errors.Join(errs...)
}

// ReconcileTotals returns s with every line total recomputed from price and
// quantity and the sale total recomputed from the lines.
func ReconcileTotals(s models.Sale) models.Sale {
	items := make([]models.SaleItem, len(s.Items))
	for i, it := range s.Items {
		it.Total = money.Times(it.Price, it.Quantity)
		items[i] = it
	}
	s.Items = items
	s.TotalPrice = s.ComputedTotal()
	return s
}

func sameCents(a, b decimal.Decimal) bool {
	return a.Round(totalPlaces).Equal(b.Round(totalPlaces))
}

// AssignMissingSaleIDs returns a copy of sales where zero or duplicate ids
// are replaced by next, which must return ids above floor.
func AssignMissingSaleIDs(sales []models.Sale, next func(floor int64) int64) []models.Sale {
	out := make([]models.Sale, len(sales))
	copy(out, sales)

	var floor int64
	for _, s := range out {
		if s.ID > floor {
			floor = s.ID
		}
	}
	seen := make(map[int64]bool, len(out))
	for i := range out {
		if out[i].ID <= 0 || seen[out[i].ID] {
			out[i].ID = next(floor)
			floor = out[i].ID
		}
		seen[out[i].ID] = true
	}
	return out
}
