package services

import (
	"github.com/ghuser/stockledger/pkg/app"
	systemdoc "github.com/ghuser/stockledger/services/system/infrastructure/persistence/document"
)

// Services is the application-layer service container for this bounded context.
type Services struct {
	Report *ReportService
}

// New wires the report services with the stores of the other contexts.
func New(a *app.Application) *Services {
	return &Services{
		Report: NewReportService(Deps{
			Snapshots: systemdoc.NewBackupRepository(a.Store, a.Logger),
			Now:       a.Now,
			Location:  a.Location,
			Log:       a.Logger,
		}),
	}
}
