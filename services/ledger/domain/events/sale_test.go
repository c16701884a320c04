package events_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/services/ledger/domain/events"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

func committedSale() models.Sale {
	return models.Sale{
		ID:   1700000000000,
		Date: time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC),
		Items: []models.SaleItem{{
			ProductID:   7,
			ProductName: "Desk",
			Quantity:    3,
			Price:       decimal.RequireFromString("20"),
			Total:       decimal.RequireFromString("60"),
		}},
		TotalPrice:   decimal.RequireFromString("60"),
		CustomerName: "Ada",
	}
}

func TestNewSaleCommitted(t *testing.T) {
	at := time.Date(2025, 1, 15, 12, 0, 1, 0, time.UTC)
	evt := events.NewSaleCommitted(committedSale(), func(int64) int { return 7 }, at)

	if evt.EventID == uuid.Nil {
		t.Fatal("EventID must be set")
	}
	if evt.Version != events.SaleCommittedVersion {
		t.Errorf("Version: got %d", evt.Version)
	}
	if len(evt.Lines) != 1 || evt.Lines[0].StockAfter != 7 {
		t.Fatalf("unexpected lines: %+v", evt.Lines)
	}
	if !evt.OccurredAt.Equal(at) {
		t.Errorf("OccurredAt: got %v", evt.OccurredAt)
	}
}

func TestSaleCommittedEvent_JSONRoundTrip(t *testing.T) {
	original := events.NewSaleCommitted(committedSale(), func(int64) int { return 7 }, time.Now().UTC())

	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var decoded events.SaleCommittedEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal failed: %v", err)
	}

	got := decoded.Sale()
	want := committedSale()
	if got.ID != want.ID || got.CustomerName != want.CustomerName || !got.TotalPrice.Equal(want.TotalPrice) {
		t.Fatalf("sale header mismatch: %+v", got)
	}
	if !got.Date.Equal(want.Date) || len(got.Items) != 1 || !got.Items[0].Total.Equal(want.Items[0].Total) {
		t.Fatalf("sale body mismatch: %+v", got)
	}
}

func TestSaleCommittedEvent_JSONFieldNames(t *testing.T) {
	data, err := json.Marshal(events.NewSaleCommitted(committedSale(), func(int64) int { return 0 }, time.Now()))
	if err != nil {
		t.Fatalf("json.Marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal to map failed: %v", err)
	}
	for _, field := range []string{"event_id", "version", "sale_id", "date", "customer_name", "total_price", "lines", "occurred_at"} {
		if _, ok := raw[field]; !ok {
			t.Errorf("expected JSON field %q not found in: %s", field, data)
		}
	}
}

func TestTopicSaleCommitted_Value(t *testing.T) {
	if events.TopicSaleCommitted != "sale.committed" {
		t.Errorf("expected %q, got %q", "sale.committed", events.TopicSaleCommitted)
	}
}
