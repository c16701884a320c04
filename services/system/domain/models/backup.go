package models

import (
	"fmt"
	"strings"

	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	ledger "github.com/ghuser/stockledger/services/ledger/domain/models"
	"github.com/ghuser/stockledger/services/system/domain"
)

// Backup is the full data export. Users are never part of it.
type Backup struct {
	Products []catalog.Product `json:"products"`
	Sales    []ledger.Sale     `json:"sales"`
	Settings *Settings         `json:"settings,omitempty"`
}

// ImportKind names what an import document contains. Imports are never
// guessed from their content.
type ImportKind string

// Import kinds.
const (
	ImportBackup   ImportKind = "backup"
	ImportProducts ImportKind = "products"
	ImportSales    ImportKind = "sales"
)

// ImportKinds lists every ImportKind.
var ImportKinds = []ImportKind{ImportBackup, ImportProducts, ImportSales}

// ParseImportKind maps a name to an ImportKind.
func ParseImportKind(s string) (ImportKind, error) {
	k := ImportKind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range ImportKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", domain.ErrUnknownImportKind, s)
}

// ImportResult reports what an import replaced.
type ImportResult struct {
	Kind     ImportKind `json:"kind"`
	Products int        `json:"products"`
	Sales    int        `json:"sales"`
	Settings bool       `json:"settings"`
}
