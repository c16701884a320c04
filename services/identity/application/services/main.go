package services

import (
	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/services/identity/infrastructure/persistence/document"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	User *UserService
}

// New wires the identity services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	return &Services{
		User: NewUserService(document.NewUserRepository(a.Store, a.Logger), a.IDs, a.Logger),
	}
}
