package models

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/ghuser/stockledger/services/system/domain"
)

func TestThreshold_Unmarshal(t *testing.T) {
	tests := []struct {
		in      string
		want    Threshold
		wantErr bool
	}{
		{`{"lowStockThreshold":5}`, 5, false},
		{`{"lowStockThreshold":"12"}`, 12, false},
		{`{"lowStockThreshold":" 3 "}`, 3, false},
		{`{"lowStockThreshold":""}`, 0, false},
		{`{"lowStockThreshold":null}`, 0, false},
		{`{"lowStockThreshold":"many"}`, 0, true},
		{`{"lowStockThreshold":true}`, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var s Settings
			err := json.Unmarshal([]byte(tt.in), &s)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && s.LowStockThreshold != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, s.LowStockThreshold)
			}
		})
	}
}

func TestSettings_MarshalsThresholdAsNumber(t *testing.T) {
	data, err := json.Marshal(DefaultSettings())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"companyName":"Inventory System","lowStockThreshold":5,"darkMode":false}`
	if string(data) != want {
		t.Fatalf("got %s, want %s", data, want)
	}
}

func TestSettings_WithDefaults(t *testing.T) {
	got := Settings{DarkMode: true}.WithDefaults()
	if got.CompanyName != DefaultCompanyName || got.Threshold() != DefaultLowStockThreshold || !got.DarkMode {
		t.Fatalf("unexpected %+v", got)
	}
}

func TestSettings_Validate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
	if err := (Settings{CompanyName: " ", LowStockThreshold: 5}).Validate(); !errors.Is(err, domain.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
	if err := (Settings{CompanyName: "X", LowStockThreshold: 0}).Validate(); !errors.Is(err, domain.ErrInvalidSettings) {
		t.Fatalf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestParseImportKind(t *testing.T) {
	for _, k := range []string{"backup", "Products", " sales "} {
		if _, err := ParseImportKind(k); err != nil {
			t.Errorf("ParseImportKind(%q): %v", k, err)
		}
	}
	if _, err := ParseImportKind("users"); !errors.Is(err, domain.ErrUnknownImportKind) {
		t.Fatalf("expected ErrUnknownImportKind, got %v", err)
	}
}
