package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/stockledger/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(_ context.Context) error { return s.err }

var (
	up   = &stubChecker{}
	down = &stubChecker{err: errors.New("conn refused")}
)

func serveHealth(t *testing.T, checks httpx.HealthChecks) (int, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.HealthHandler(checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("Content-Type: got %q", ct)
	}
	var resp map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return rr.Code, resp
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     httpx.HealthChecks
		wantCode   int
		wantFields map[string]string
	}{
		{
			name:       "all healthy",
			checks:     httpx.HealthChecks{Store: up, Redis: up, EventBus: up},
			wantCode:   http.StatusOK,
			wantFields: map[string]string{"status": "ok", "store": "ok", "redis": "ok", "event_bus": "ok"},
		},
		{
			name:       "store down",
			checks:     httpx.HealthChecks{Store: down, Redis: up, EventBus: up},
			wantCode:   http.StatusServiceUnavailable,
			wantFields: map[string]string{"status": "degraded", "store": "unreachable", "redis": "ok"},
		},
		{
			name:       "redis down",
			checks:     httpx.HealthChecks{Store: up, Redis: down, EventBus: up},
			wantCode:   http.StatusServiceUnavailable,
			wantFields: map[string]string{"status": "degraded", "redis": "unreachable"},
		},
		{
			name:       "event bus down",
			checks:     httpx.HealthChecks{Store: up, Redis: up, EventBus: down},
			wantCode:   http.StatusServiceUnavailable,
			wantFields: map[string]string{"status": "degraded", "event_bus": "unreachable"},
		},
		{
			name:       "file backend without redis",
			checks:     httpx.HealthChecks{Backend: "file", Version: "1.2.0", Store: up, EventBus: up},
			wantCode:   http.StatusOK,
			wantFields: map[string]string{"status": "ok", "redis": "disabled", "store_backend": "file", "version": "1.2.0"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, resp := serveHealth(t, tt.checks)
			if code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, code)
			}
			for k, want := range tt.wantFields {
				if resp[k] != want {
					t.Errorf("%s: got %q, want %q", k, resp[k], want)
				}
			}
		})
	}
}
