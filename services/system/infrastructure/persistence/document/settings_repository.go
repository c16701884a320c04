// Package document implements the system repositories on the key/value
// document store.
package document

import (
	"context"
	"fmt"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	"github.com/ghuser/stockledger/services/system/domain/models"
)

// LoadSettings decodes the settings document from r with defaults applied.
// An absent or corrupt document yields the defaults.
func LoadSettings(ctx context.Context, r store.Reader, log logger.Logger) (models.Settings, error) {
	ok, err := store.Exists(ctx, r, store.Settings)
	if err != nil {
		return models.Settings{}, err
	}
	if !ok {
		return models.DefaultSettings(), nil
	}
	s, err := store.Load[models.Settings](ctx, r, store.Settings, log)
	if err != nil {
		return models.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return s.WithDefaults(), nil
}

// StageSettings encodes s into tx.
func StageSettings(tx store.Tx, s models.Settings) error {
	return store.Stage(tx, store.Settings, s)
}

// SettingsRepository reads and writes the settings document.
type SettingsRepository struct {
	store store.Store
	log   logger.Logger
}

// NewSettingsRepository returns a SettingsRepository backed by s.
func NewSettingsRepository(s store.Store, log logger.Logger) *SettingsRepository {
	return &SettingsRepository{store: s, log: log}
}

// Get returns the stored settings with defaults applied.
func (r *SettingsRepository) Get(ctx context.Context) (models.Settings, error) {
	return LoadSettings(ctx, r.store, r.log)
}

// Save replaces the settings document.
func (r *SettingsRepository) Save(ctx context.Context, s models.Settings) error {
	return r.store.Update(ctx, func(_ context.Context, tx store.Tx) error {
		return StageSettings(tx, s)
	})
}

// LowStockThreshold returns the configured threshold.
func (r *SettingsRepository) LowStockThreshold(ctx context.Context) (int, error) {
	s, err := r.Get(ctx)
	if err != nil {
		return 0, err
	}
	return s.Threshold(), nil
}
