package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// SaleCacheTTL is the time-to-live for cached sales.
	SaleCacheTTL = 24 * time.Hour

	saleCacheKeyPrefix = "sale"
)

// CachedSaleItem is one line of a cached sale.
type CachedSaleItem struct {
	ProductID   int64  `json:"productId"`
	ProductName string `json:"productName"`
	Quantity    int    `json:"quantity"`
	Price       string `json:"price"`
	Subtotal    string `json:"subtotal"`
}

// CachedSale is the read model stored in Redis. Sales never change after they
// are committed, so entries are only ever written, expired or flushed.
type CachedSale struct {
	ID           int64            `json:"id"`
	Date         time.Time        `json:"date"`
	CustomerName string           `json:"customerName"`
	TotalPrice   string           `json:"totalPrice"`
	Items        []CachedSaleItem `json:"items"`
}

// SaleCache provides structured read/write operations for sale cache entries.
// Key format: "{prefix}sale:{saleID}"
type SaleCache struct {
	client *RedisClient
}

// NewSaleCache creates a new SaleCache backed by the given RedisClient.
func NewSaleCache(r *RedisClient) *SaleCache {
	return &SaleCache{client: r}
}

// Get retrieves a cached sale by ID.
// Returns redis.Nil error when the key does not exist or has expired.
func (c *SaleCache) Get(ctx context.Context, id int64) (*CachedSale, error) {
	vals, err := c.client.Client().HGetAll(ctx, c.key(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("cache get: %w", err)
	}
	if len(vals) == 0 {
		return nil, redis.Nil
	}
	return decodeSale(vals)
}

// Set writes a cached sale as a Redis hash with a 24-hour TTL.
func (c *SaleCache) Set(ctx context.Context, sale *CachedSale) error {
	items, err := json.Marshal(sale.Items)
	if err != nil {
		return fmt.Errorf("cache encode items: %w", err)
	}
	key := c.key(sale.ID)
	pipe := c.client.Client().TxPipeline()
	pipe.Del(ctx, key)
	pipe.HSet(ctx, key,
		"id", strconv.FormatInt(sale.ID, 10),
		"date", sale.Date.UTC().Format(time.RFC3339Nano),
		"customer_name", sale.CustomerName,
		"total_price", sale.TotalPrice,
		"items", string(items),
	)
	pipe.Expire(ctx, key, SaleCacheTTL)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache set: %w", err)
	}
	return nil
}

// Delete removes a cached sale.
func (c *SaleCache) Delete(ctx context.Context, id int64) error {
	if err := c.client.Client().Del(ctx, c.key(id)).Err(); err != nil {
		return fmt.Errorf("cache delete: %w", err)
	}
	return nil
}

// Flush removes every cached sale. Used after a data reset or import.
func (c *SaleCache) Flush(ctx context.Context) error {
	rdb := c.client.Client()
	iter := rdb.Scan(ctx, 0, c.client.Key(saleCacheKeyPrefix, "*"), 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("cache scan: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("cache flush: %w", err)
	}
	return nil
}

// key builds the Redis key: "{prefix}sale:{saleID}"
func (c *SaleCache) key(id int64) string {
	return c.client.Key(saleCacheKeyPrefix, strconv.FormatInt(id, 10))
}

func decodeSale(vals map[string]string) (*CachedSale, error) {
	id, err := strconv.ParseInt(vals["id"], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("cache parse id: %w", err)
	}
	date, err := time.Parse(time.RFC3339Nano, vals["date"])
	if err != nil {
		return nil, fmt.Errorf("cache parse date: %w", err)
	}
	var items []CachedSaleItem
	if err := json.Unmarshal([]byte(vals["items"]), &items); err != nil {
		return nil, fmt.Errorf("cache parse items: %w", err)
	}
	return &CachedSale{
		ID:           id,
		Date:         date,
		CustomerName: vals["customer_name"],
		TotalPrice:   vals["total_price"],
		Items:        items,
	}, nil
}
