package services

import (
	"github.com/invopop/jsonschema"

	catalogsvcs "github.com/ghuser/stockledger/services/catalog/application/services"
	ledgersvcs "github.com/ghuser/stockledger/services/ledger/application/services"
	"github.com/ghuser/stockledger/services/system/domain/models"
	"github.com/ghuser/stockledger/services/system/infrastructure/schema"
)

// Schema returns the JSON Schema of an import document of kind.
func Schema(kind models.ImportKind) (*jsonschema.Schema, bool) {
	switch kind {
	case models.ImportBackup:
		return schema.Reflect("stockledger/import/backup", &BackupDocument{}), true
	case models.ImportProducts:
		return schema.Reflect("stockledger/import/products", &[]catalogsvcs.ImportedProduct{}), true
	case models.ImportSales:
		return schema.Reflect("stockledger/import/sales", &[]ledgersvcs.ImportedSale{}), true
	}
	return nil, false
}
