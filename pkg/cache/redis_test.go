package cache

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ghuser/stockledger/pkg/config"
)

// newTestConfig returns a config pointing to REDIS_URL env var, falling back to localhost.
func newTestConfig(url string) *config.Config {
	return &config.Config{
		RedisURL:       url,
		RedisKeyPrefix: "stockledger-test:",
	}
}

func TestNewRedisClient_InvalidURL(t *testing.T) {
	_, err := NewRedisClient(context.Background(), newTestConfig("not-a-valid-url"))
	if err == nil {
		t.Fatal("expected error for invalid URL, got nil")
	}
}

func TestNewRedisClient_UnreachableHost(t *testing.T) {
	_, err := NewRedisClient(context.Background(), newTestConfig("redis://localhost:19999"))
	if err == nil {
		t.Fatal("expected error when Redis is unreachable, got nil")
	}
}

func TestClientOptions(t *testing.T) {
	opts, err := clientOptions("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opts.Addr != "localhost:6379" || opts.DB != 0 {
		t.Fatalf("empty URL must fall back to the default, got %s db %d", opts.Addr, opts.DB)
	}
	if opts.PoolSize != 10 || opts.MaxRetries != 3 {
		t.Fatalf("pool settings not applied: %+v", opts)
	}

	opts, err = clientOptions("redis://cache.internal:6380/2")
	if err != nil || opts.Addr != "cache.internal:6380" || opts.DB != 2 {
		t.Fatalf("unexpected options %+v, %v", opts, err)
	}
}

func TestRedisClient_Key(t *testing.T) {
	rc := &RedisClient{prefix: "stockledger:"}
	if got := rc.Key("sale", "42"); got != "stockledger:sale:42" {
		t.Fatalf("got %q", got)
	}
	if got := (&RedisClient{}).Key("products"); got != "products" {
		t.Fatalf("got %q", got)
	}
}

// Integration tests, skipped unless REDIS_URL is set.
func TestRedisIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	t.Run("NewRedisClient_Success", func(t *testing.T) {
		rc, err := NewRedisClient(context.Background(), newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck
	})

	t.Run("Ping_Success", func(t *testing.T) {
		rc, err := NewRedisClient(context.Background(), newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if err := rc.Ping(context.Background()); err != nil {
			t.Fatalf("Ping failed: %v", err)
		}
	})

	t.Run("Close_Idempotent", func(t *testing.T) {
		rc, err := NewRedisClient(context.Background(), newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := rc.Close(); err != nil {
			t.Fatalf("first Close failed: %v", err)
		}
	})

	t.Run("Client_NotNil", func(t *testing.T) {
		rc, err := NewRedisClient(context.Background(), newTestConfig(redisURL))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer rc.Close() //nolint:errcheck

		if rc.Client() == nil {
			t.Fatal("expected non-nil underlying client")
		}
	})
}

func TestDecodeSale(t *testing.T) {
	t.Run("valid hash", func(t *testing.T) {
		got, err := decodeSale(map[string]string{
			"id":            "1700000000000",
			"date":          "2024-03-01T10:30:00Z",
			"customer_name": "Walk-in Customer",
			"total_price":   "59.98",
			"items":         `[{"productId":9,"productName":"Wireless Mouse","quantity":2,"price":"39.99","subtotal":"79.98"}]`,
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != 1700000000000 || got.CustomerName != "Walk-in Customer" || len(got.Items) != 1 {
			t.Fatalf("unexpected sale: %+v", got)
		}
		if got.Items[0].ProductID != 9 || got.Items[0].Quantity != 2 {
			t.Fatalf("unexpected item: %+v", got.Items[0])
		}
	})

	tests := []struct {
		name string
		vals map[string]string
	}{
		{"bad id", map[string]string{"id": "x", "date": "2024-03-01T10:30:00Z", "items": "[]"}},
		{"bad date", map[string]string{"id": "1", "date": "yesterday", "items": "[]"}},
		{"bad items", map[string]string{"id": "1", "date": "2024-03-01T10:30:00Z", "items": "{"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := decodeSale(tt.vals); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSaleCacheIntegration(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set; skipping integration tests")
	}

	rc, err := NewRedisClient(context.Background(), newTestConfig(redisURL))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close() //nolint:errcheck

	ctx := context.Background()
	c := NewSaleCache(rc)
	if err := c.Flush(ctx); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	sale := &CachedSale{
		ID:           42,
		Date:         time.Date(2024, 3, 1, 10, 30, 0, 0, time.UTC),
		CustomerName: "Ada",
		TotalPrice:   "149.99",
		Items:        []CachedSaleItem{{ProductID: 2, ProductName: "Wireless Headphones", Quantity: 1, Price: "149.99", Subtotal: "149.99"}},
	}

	t.Run("Get_Miss", func(t *testing.T) {
		if _, err := c.Get(ctx, 41); !errors.Is(err, redis.Nil) {
			t.Fatalf("expected redis.Nil, got %v", err)
		}
	})

	t.Run("Set_Get", func(t *testing.T) {
		if err := c.Set(ctx, sale); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		got, err := c.Get(ctx, 42)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !got.Date.Equal(sale.Date) || got.TotalPrice != "149.99" || len(got.Items) != 1 {
			t.Fatalf("unexpected sale: %+v", got)
		}
	})

	t.Run("Flush", func(t *testing.T) {
		if err := c.Flush(ctx); err != nil {
			t.Fatalf("Flush failed: %v", err)
		}
		if _, err := c.Get(ctx, 42); !errors.Is(err, redis.Nil) {
			t.Fatalf("expected redis.Nil after flush, got %v", err)
		}
	})
}
