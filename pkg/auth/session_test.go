package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/stockledger/pkg/logger"
)

func TestNewCookieSessionStore_Options(t *testing.T) {
	cs := NewCookieSessionStore([]byte("test-auth-key-must-be-32-bytes!!"), nil, true)
	if cs.Options.MaxAge != sessionMaxAge || !cs.Options.HttpOnly || !cs.Options.Secure {
		t.Fatalf("unexpected options: %+v", cs.Options)
	}
	if cs.Options.SameSite != http.SameSiteLaxMode {
		t.Fatalf("expected SameSite Lax, got %v", cs.Options.SameSite)
	}
}

// Integration test, skipped unless REDIS_URL is set.
func TestRedisStore_Integration(t *testing.T) {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	client := redis.NewClient(opts)
	defer client.Close() //nolint:errcheck

	store := NewSessionStore(client, "stockledger-test:",
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
		false,
	)

	var captured Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = PrincipalFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := requestWithSession(t, store, 1)
	w := httptest.NewRecorder()
	RequireAuth(store, users, logger.Discard())(next).ServeHTTP(w, r)
	if w.Code != http.StatusOK || captured.UserID != 1 {
		t.Fatalf("expected authenticated request, got %d %+v", w.Code, captured)
	}

	keys, err := client.Keys(context.Background(), "stockledger-test:session:*").Result()
	if err != nil || len(keys) == 0 {
		t.Fatalf("expected prefixed session keys, got %v, %v", keys, err)
	}

	n, err := store.RevokeUser(context.Background(), 1)
	if err != nil || n < 1 {
		t.Fatalf("RevokeUser: %d, %v", n, err)
	}
	again := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	for _, c := range r.Cookies() {
		again.AddCookie(c)
	}
	w = httptest.NewRecorder()
	RequireAuth(store, users, logger.Discard())(next).ServeHTTP(w, again)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("revoked session: expected 401, got %d", w.Code)
	}
}
