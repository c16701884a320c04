package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/stockledger/pkg/auth"
	"github.com/ghuser/stockledger/pkg/store"
	catalogdomain "github.com/ghuser/stockledger/services/catalog/domain"
	identitydomain "github.com/ghuser/stockledger/services/identity/domain"
	ledgerdomain "github.com/ghuser/stockledger/services/ledger/domain"
	reportdomain "github.com/ghuser/stockledger/services/report/domain"
	systemdomain "github.com/ghuser/stockledger/services/system/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrProductNotFound", catalogdomain.ErrProductNotFound, http.StatusNotFound},
		{"ErrSaleNotFound", ledgerdomain.ErrSaleNotFound, http.StatusNotFound},
		{"ErrUserNotFound", identitydomain.ErrUserNotFound, http.StatusNotFound},
		{"ErrInsufficientStock", ledgerdomain.ErrInsufficientStock, http.StatusConflict},
		{"ErrDuplicateUsername", identitydomain.ErrDuplicateUsername, http.StatusConflict},
		{"store conflict", store.ErrConflict, http.StatusConflict},
		{"ErrInvalidProduct", catalogdomain.ErrInvalidProduct, http.StatusUnprocessableEntity},
		{"ErrEmptySale", ledgerdomain.ErrEmptySale, http.StatusUnprocessableEntity},
		{"ErrUnknownProduct", ledgerdomain.ErrUnknownProduct, http.StatusUnprocessableEntity},
		{"ErrInvalidWindow", reportdomain.ErrInvalidWindow, http.StatusUnprocessableEntity},
		{"ErrUnknownImportKind", systemdomain.ErrUnknownImportKind, http.StatusUnprocessableEntity},
		{"ErrInvalidCredentials", identitydomain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"ErrNotAuthenticated", auth.ErrNotAuthenticated, http.StatusUnauthorized},
		{"ErrLastAdmin", identitydomain.ErrLastAdmin, http.StatusForbidden},
		{"ErrForbidden", auth.ErrForbidden, http.StatusForbidden},
		{"wrapped ErrProductNotFound", fmt.Errorf("update product 7: %w", catalogdomain.ErrProductNotFound), http.StatusNotFound},
		{"wrapped ErrInsufficientStock", fmt.Errorf("commit sale: %w: Mug", ledgerdomain.ErrInsufficientStock), http.StatusConflict},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, catalogdomain.ErrProductNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body["error"] != catalogdomain.ErrProductNotFound.Error() {
		t.Fatalf("unexpected body %v", body)
	}
}

func TestWriteError_HidesInternalErrors(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, errors.New("pq: password authentication failed"))

	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["error"] != http.StatusText(http.StatusInternalServerError) {
		t.Fatalf("internal error leaked: %v", body)
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, catalogdomain.ErrProductNotFound)

	ct := w.Header().Get("Content-Type")
	if ct == "" {
		t.Fatal("Content-Type header not set")
	}
}
