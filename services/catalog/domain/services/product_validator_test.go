package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/services/catalog/domain/models"
)

func TestValidateText(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Laptop Pro", false},
		{"surrounding whitespace is trimmed", "  Laptop ", false},
		{"empty", "", true},
		{"only whitespace", "   ", true},
		{"tab character (control)", "Lap\ttop", true},
		{"null byte (control)", "Laptop\x00", true},
		{"too long", string(make([]rune, 256)), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateText("name", tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateText(%q) error = %v, wantErr = %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidateDraft(t *testing.T) {
	valid := models.Draft{Name: "Mug", Category: "Kitchen", Price: decimal.RequireFromString("4.50"), Stock: 3}

	t.Run("valid draft", func(t *testing.T) {
		if err := ValidateDraft(valid); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("zero price and zero stock are allowed", func(t *testing.T) {
		d := valid
		d.Price = decimal.Zero
		d.Stock = 0
		if err := ValidateDraft(d); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	tests := []struct {
		name   string
		mutate func(*models.Draft)
	}{
		{"missing name", func(d *models.Draft) { d.Name = "" }},
		{"missing category", func(d *models.Draft) { d.Category = " " }},
		{"negative price", func(d *models.Draft) { d.Price = decimal.RequireFromString("-0.01") }},
		{"negative stock", func(d *models.Draft) { d.Stock = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := valid
			tt.mutate(&d)
			if err := ValidateDraft(d); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidateProduct(t *testing.T) {
	p := models.Product{ID: 0, Name: "Mug", Category: "Kitchen", Price: decimal.NewFromInt(4), Stock: 1}
	if err := ValidateProduct(p); err == nil {
		t.Fatal("expected error for zero id")
	}
	p.ID = 12
	if err := ValidateProduct(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAssignMissingIDs(t *testing.T) {
	counter := int64(0)
	next := func(floor int64) int64 {
		counter++
		return floor + counter
	}
	in := []models.Product{{ID: 0, Name: "a"}, {ID: 10, Name: "b"}, {ID: 10, Name: "c"}, {ID: -3, Name: "d"}}
	out := AssignMissingIDs(in, next)

	seen := map[int64]bool{}
	for _, p := range out {
		if p.ID <= 0 {
			t.Fatalf("expected positive id, got %d", p.ID)
		}
		if seen[p.ID] {
			t.Fatalf("duplicate id %d", p.ID)
		}
		seen[p.ID] = true
	}
	if out[1].ID != 10 {
		t.Fatalf("existing id must be kept, got %d", out[1].ID)
	}
	if in[0].ID != 0 {
		t.Fatal("input must not be modified")
	}
}
