package services

import (
	"context"
	"errors"
	"testing"

	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	"github.com/ghuser/stockledger/services/system/domain"
	"github.com/ghuser/stockledger/services/system/domain/models"
	"github.com/ghuser/stockledger/services/system/infrastructure/persistence/document"
)

func TestSettingsService(t *testing.T) {
	ctx := context.Background()
	svc := NewSettingsService(document.NewSettingsRepository(store.NewMemory(), logger.Discard()), logger.Discard())

	got, err := svc.Get(ctx)
	if err != nil || got != models.DefaultSettings() {
		t.Fatalf("expected defaults, got %+v, %v", got, err)
	}

	if _, err := svc.Save(ctx, models.Settings{CompanyName: "Acme", LowStockThreshold: 0}); !errors.Is(err, domain.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}

	saved, err := svc.Save(ctx, models.Settings{CompanyName: "  Acme ", LowStockThreshold: 8, DarkMode: true})
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.CompanyName != "Acme" {
		t.Fatalf("company name not trimmed: %q", saved.CompanyName)
	}
	if n, _ := svc.LowStockThreshold(ctx); n != 8 {
		t.Fatalf("expected threshold 8, got %d", n)
	}
}

type seedRecorder struct {
	name  string
	calls *[]string
	err   error
}

func (r seedRecorder) SeedDefaults(context.Context) error {
	*r.calls = append(*r.calls, r.name)
	return r.err
}

func TestSeedService(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	svc := NewSeedService(
		seedRecorder{name: "users", calls: &calls},
		seedRecorder{name: "products", calls: &calls, err: boom},
		seedRecorder{name: "never", calls: &calls},
	)
	if err := svc.Seed(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("expected seeder error, got %v", err)
	}
	if len(calls) != 2 || calls[0] != "users" || calls[1] != "products" {
		t.Fatalf("unexpected seed order %v", calls)
	}
}

func TestSchema(t *testing.T) {
	for _, k := range models.ImportKinds {
		s, ok := Schema(k)
		if !ok || s == nil {
			t.Fatalf("no schema for %s", k)
		}
	}
	if _, ok := Schema(models.ImportKind("users")); ok {
		t.Fatal("unexpected schema for users")
	}
	products, _ := Schema(models.ImportProducts)
	if products.Type != "array" || products.Items == nil {
		t.Fatalf("products schema must be an array, got %q", products.Type)
	}
	backup, _ := Schema(models.ImportBackup)
	if len(backup.Required) != 1 || backup.Required[0] != "products" {
		t.Fatalf("backup must require products only, got %v", backup.Required)
	}
}
