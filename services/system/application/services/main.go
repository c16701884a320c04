package services

import (
	"github.com/ghuser/stockledger/pkg/app"
	catalogsvcs "github.com/ghuser/stockledger/services/catalog/application/services"
	identitysvcs "github.com/ghuser/stockledger/services/identity/application/services"
	"github.com/ghuser/stockledger/services/system/infrastructure/persistence/document"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Settings *SettingsService
	Backup   *BackupService
	Seed     *SeedService
}

// New wires the system services with infrastructure from the Application container.
func New(a *app.Application) *Services {
	var flusher Flusher
	if a.SaleCache != nil {
		flusher = a.SaleCache
	}
	return &Services{
		Settings: NewSettingsService(document.NewSettingsRepository(a.Store, a.Logger), a.Logger),
		Backup:   NewBackupService(document.NewBackupRepository(a.Store, a.Logger), a.IDs, flusher, a.Logger),
		Seed: NewSeedService(
			identitysvcs.New(a).User,
			catalogsvcs.New(a).Product,
		),
	}
}
