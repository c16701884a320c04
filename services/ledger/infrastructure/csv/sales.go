// Package csv renders the ledger as CSV.
package csv

import (
	"bytes"
	"fmt"
	"time"

	"github.com/ghuser/stockledger/pkg/money"
	productcsv "github.com/ghuser/stockledger/services/catalog/infrastructure/csv"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

// Flavor selects one of the two sales CSV layouts.
type Flavor int

const (
	// FlavorBackup is the data-management export:
	// ID,Date,Customer,Total Price,Items with quoted date and customer and a raw total.
	FlavorBackup Flavor = iota
	// FlavorReport is the report export:
	// ID,Date,Customer,Total Price with only the customer quoted and a two-decimal total.
	FlavorReport
)

// Headers per flavor.
const (
	BackupHeader = "ID,Date,Customer,Total Price,Items"
	ReportHeader = "ID,Date,Customer,Total Price"
)

// EncodeSales renders sales in the given flavor. Dates are calendar days in loc.
func EncodeSales(sales []models.Sale, flavor Flavor, loc *time.Location) []byte {
	var b bytes.Buffer
	if flavor == FlavorReport {
		b.WriteString(ReportHeader)
	} else {
		b.WriteString(BackupHeader)
	}
	b.WriteByte('\n')
	for _, s := range sales {
		day := s.Day(loc)
		switch flavor {
		case FlavorReport:
			fmt.Fprintf(&b, "%d,%s,%s,%s\n", s.ID, day, productcsv.Quote(s.Customer()), money.Fixed(s.TotalPrice))
		default:
			fmt.Fprintf(&b, "%d,%s,%s,%s,%d\n", s.ID, productcsv.Quote(day), productcsv.Quote(s.Customer()), money.Raw(s.TotalPrice), s.ItemCount())
		}
	}
	return b.Bytes()
}
