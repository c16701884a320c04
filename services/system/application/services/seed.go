package services

import (
	"context"
	"fmt"
)

// Seeder installs a bounded context's default documents when they are absent.
type Seeder interface {
	SeedDefaults(ctx context.Context) error
}

// SeedService runs every registered Seeder.
type SeedService struct {
	seeders []Seeder
}

// NewSeedService returns a SeedService over seeders, run in order.
func NewSeedService(seeders ...Seeder) *SeedService {
	return &SeedService{seeders: seeders}
}

// Seed installs the defaults. Existing documents are never overwritten.
func (s *SeedService) Seed(ctx context.Context) error {
	for _, sd := range s.seeders {
		if err := sd.SeedDefaults(ctx); err != nil {
			return fmt.Errorf("seed defaults: %w", err)
		}
	}
	return nil
}
