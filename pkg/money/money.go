// Package money holds the decimal helpers shared by prices, line totals and
// reports. Importing it makes decimal values marshal as JSON numbers, which is
// the shape of every stored document.
package money

import (
	"fmt"
	"strings"

	gomoney "github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used for display formatting when none is configured.
const DefaultCurrency = gomoney.USD

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// Fixed formats d with exactly two decimal places ("60.00").
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Raw formats d with no padding ("60", "19.5").
func Raw(d decimal.Decimal) string {
	return d.String()
}

// Parse reads a decimal amount, ignoring surrounding whitespace.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	return d, nil
}

// Times returns price * quantity.
func Times(price decimal.Decimal, quantity int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(quantity)))
}

// Sum adds amounts; the sum of nothing is zero.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// Display renders d as a currency amount, e.g. "$1,299.99".
// Amounts are rounded to cents first.
func Display(d decimal.Decimal, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}
	cents := d.Round(2).Shift(2).IntPart()
	return gomoney.New(cents, currency).Display()
}
