package services

import (
	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/services/catalog/infrastructure/persistence/document"
)

// Services is the application-layer service container for this bounded context.
// It wires domain services with their infrastructure implementations.
type Services struct {
	Product *ProductService
}

// New wires all catalog application services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	repo := document.NewProductRepository(a.Store, a.Logger)
	return &Services{
		Product: NewProductService(repo, a.IDs, a.Logger),
	}
}
