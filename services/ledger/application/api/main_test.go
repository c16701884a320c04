package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/app"
	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/pkg/logger"
	"github.com/ghuser/stockledger/pkg/store"
	catalog "github.com/ghuser/stockledger/services/catalog/domain/models"
	catalogdoc "github.com/ghuser/stockledger/services/catalog/infrastructure/persistence/document"
	"github.com/ghuser/stockledger/services/ledger/application/api"
)

func newRouter(t *testing.T, p auth.Principal) (http.Handler, *app.Application) {
	t.Helper()
	now := time.Date(2024, 3, 9, 12, 0, 0, 0, time.UTC)
	a := app.NewForTest(logger.Discard(), func() time.Time { return now })
	t.Cleanup(func() { _ = a.Close() })

	err := a.Store.Update(context.Background(), func(_ context.Context, tx store.Tx) error {
		return catalogdoc.StageProducts(tx, []catalog.Product{
			{ID: 1, Name: "Desk", Category: "Furniture", Price: decimal.RequireFromString("20.00"), Stock: 10},
		})
	})
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), p)))
		})
	})
	if err := api.SaleRoutes(r, a); err != nil {
		t.Fatalf("SaleRoutes: %v", err)
	}
	return r, a
}

func post(h http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func get(h http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

var sales = auth.Principal{UserID: 2, Username: "sales", Role: auth.RoleSales}

func TestSaleRoutes_CommitAndRead(t *testing.T) {
	h, a := newRouter(t, sales)

	w := post(h, "/sales", `{"items":[{"productId":1,"quantity":3}],"customerName":"Ada"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	var sale struct {
		ID         int64   `json:"id"`
		TotalPrice float64 `json:"totalPrice"`
		Items      []struct {
			Total float64 `json:"total"`
		} `json:"items"`
	}
	if err := json.NewDecoder(w.Body).Decode(&sale); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if sale.TotalPrice != 60 || len(sale.Items) != 1 || sale.Items[0].Total != 60 {
		t.Fatalf("unexpected sale: %+v", sale)
	}

	products, _ := catalogdoc.LoadProducts(context.Background(), a.Store, logger.Discard())
	if products[0].Stock != 7 {
		t.Fatalf("expected stock 7, got %d", products[0].Stock)
	}

	if w = get(h, fmt.Sprintf("/sales/%d", sale.ID)); w.Code != http.StatusOK {
		t.Fatalf("get: expected 200, got %d", w.Code)
	}
	if w = get(h, "/sales/1"); w.Code != http.StatusNotFound {
		t.Fatalf("get missing: expected 404, got %d", w.Code)
	}
	if w = get(h, "/sales?search=ada"); !strings.Contains(w.Body.String(), `"customerName":"Ada"`) {
		t.Fatalf("search: unexpected body %s", w.Body.String())
	}
	if w = get(h, "/sales/recent?limit=0"); strings.TrimSpace(w.Body.String()) != "[]" {
		t.Fatalf("recent limit 0: unexpected body %s", w.Body.String())
	}
	if w = get(h, "/sales/recent?limit=x"); w.Code != http.StatusBadRequest {
		t.Fatalf("recent bad limit: expected 400, got %d", w.Code)
	}
}

func TestSaleRoutes_Rejections(t *testing.T) {
	h, _ := newRouter(t, sales)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"no items", `{"items":[]}`, http.StatusUnprocessableEntity},
		{"zero quantity", `{"items":[{"productId":1,"quantity":0}]}`, http.StatusUnprocessableEntity},
		{"unknown product", `{"items":[{"productId":404,"quantity":1}]}`, http.StatusUnprocessableEntity},
		{"insufficient stock", `{"items":[{"productId":1,"quantity":11}]}`, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := post(h, "/sales", tt.body); w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestSaleRoutes_ExportRequiresAdmin(t *testing.T) {
	h, _ := newRouter(t, sales)
	if w := get(h, "/sales/export"); w.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", w.Code)
	}

	h, _ = newRouter(t, auth.Principal{UserID: 1, Username: "admin", Role: auth.RoleAdmin})
	_ = post(h, "/sales", `{"items":[{"productId":1,"quantity":1}]}`)
	w := get(h, "/sales/export")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd != `attachment; filename="sales-2024-03-09.csv"` {
		t.Fatalf("unexpected Content-Disposition %q", cd)
	}
	if !strings.Contains(w.Body.String(), `,"2024-03-09","Walk-in Customer",20,1`) {
		t.Fatalf("unexpected csv %q", w.Body.String())
	}
}
