// Package readmodel adapts the Redis sale cache to the ledger's read model.
package readmodel

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/ghuser/stockledger/pkg/cache"
	"github.com/ghuser/stockledger/services/ledger/domain/models"
)

// Backend is the subset of *cache.SaleCache used here.
type Backend interface {
	Get(ctx context.Context, id int64) (*cache.CachedSale, error)
	Set(ctx context.Context, sale *cache.CachedSale) error
	Delete(ctx context.Context, id int64) error
}

// SaleCache implements repositories.SaleReadModel over a Backend.
type SaleCache struct {
	backend Backend
}

// NewSaleCache wraps backend.
func NewSaleCache(backend Backend) *SaleCache {
	return &SaleCache{backend: backend}
}

// Get returns the cached sale. A miss is (zero, false, nil).
func (c *SaleCache) Get(ctx context.Context, id int64) (models.Sale, bool, error) {
	cached, err := c.backend.Get(ctx, id)
	if errors.Is(err, redis.Nil) {
		return models.Sale{}, false, nil
	}
	if err != nil {
		return models.Sale{}, false, err
	}
	sale, err := FromCached(cached)
	if err != nil {
		return models.Sale{}, false, err
	}
	return sale, true, nil
}

// Put stores sale.
func (c *SaleCache) Put(ctx context.Context, sale models.Sale) error {
	return c.backend.Set(ctx, ToCached(sale))
}

// Delete drops the cached sale with id. Dropping a missing entry succeeds.
func (c *SaleCache) Delete(ctx context.Context, id int64) error {
	return c.backend.Delete(ctx, id)
}

// ToCached converts a sale to its cache representation.
func ToCached(s models.Sale) *cache.CachedSale {
	items := make([]cache.CachedSaleItem, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, cache.CachedSaleItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       it.Price.String(),
			Subtotal:    it.Total.String(),
		})
	}
	return &cache.CachedSale{
		ID:           s.ID,
		Date:         s.Date,
		CustomerName: s.CustomerName,
		TotalPrice:   s.TotalPrice.String(),
		Items:        items,
	}
}

// FromCached converts a cache entry back to a sale.
func FromCached(c *cache.CachedSale) (models.Sale, error) {
	total, err := decimal.NewFromString(c.TotalPrice)
	if err != nil {
		return models.Sale{}, fmt.Errorf("cached sale %d total: %w", c.ID, err)
	}
	items := make([]models.SaleItem, 0, len(c.Items))
	for _, it := range c.Items {
		price, err := decimal.NewFromString(it.Price)
		if err != nil {
			return models.Sale{}, fmt.Errorf("cached sale %d price: %w", c.ID, err)
		}
		sub, err := decimal.NewFromString(it.Subtotal)
		if err != nil {
			return models.Sale{}, fmt.Errorf("cached sale %d subtotal: %w", c.ID, err)
		}
		items = append(items, models.SaleItem{
			ProductID:   it.ProductID,
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			Price:       price,
			Total:       sub,
		})
	}
	return models.Sale{
		ID:           c.ID,
		Date:         c.Date,
		Items:        items,
		TotalPrice:   total,
		CustomerName: c.CustomerName,
	}, nil
}
