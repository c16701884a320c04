package services

import (
	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/services/ledger/infrastructure/persistence/document"
	"github.com/ghuser/stockledger/services/ledger/infrastructure/readmodel"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Sale *SaleService
}

// New wires all ledger application services with infrastructure from the Application container.
func New(a *app.Application) (*Services, error) {
	deps := Deps{
		Repo:     document.NewSaleRepository(a.Store, a.Logger),
		IDs:      a.IDs,
		Now:      a.Now,
		Location: a.Location,
		Log:      a.Logger,
	}
	if a.SaleCache != nil {
		deps.ReadModel = readmodel.NewSaleCache(a.SaleCache)
	}
	if a.EventBus != nil {
		deps.Publisher = a.EventBus
	}
	sale, err := NewSaleService(deps)
	if err != nil {
		return nil, err
	}
	return &Services{Sale: sale}, nil
}
