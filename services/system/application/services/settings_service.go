package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/services/system/domain/models"
	"github.com/ghuser/stockledger/services/system/infrastructure/persistence/document"
)

// SettingsService reads and saves the settings document.
type SettingsService struct {
	repo *document.SettingsRepository
	log  logger.Logger
}

// NewSettingsService returns a SettingsService over repo.
func NewSettingsService(repo *document.SettingsRepository, log logger.Logger) *SettingsService {
	return &SettingsService{repo: repo, log: log}
}

// Get returns the stored settings, or the defaults.
func (s *SettingsService) Get(ctx context.Context) (models.Settings, error) {
	return s.repo.Get(ctx)
}

// Save validates and stores settings.
func (s *SettingsService) Save(ctx context.Context, settings models.Settings) (models.Settings, error) {
	settings.CompanyName = strings.TrimSpace(settings.CompanyName)
	if err := settings.Validate(); err != nil {
		return models.Settings{}, err
	}
	if err := s.repo.Save(ctx, settings); err != nil {
		return models.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	s.log.InfoContext(ctx, "settings saved",
		"company_name", settings.CompanyName, "low_stock_threshold", settings.Threshold())
	return settings, nil
}

// LowStockThreshold returns the configured threshold.
func (s *SettingsService) LowStockThreshold(ctx context.Context) (int, error) {
	return s.repo.LowStockThreshold(ctx)
}
