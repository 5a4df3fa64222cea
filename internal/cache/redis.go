package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/actuallystonmai/watchlist-service/internal/domain"
)

const defaultTTL = 10 * time.Minute

// Cache stores catalog responses keyed by lookup. Only hits are stored.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	return &Cache{client: client, ttl: ttl}
}

func searchKey(kind domain.Kind, language, title string) string {
	return fmt.Sprintf("catalog:search:%s:%s:%s", kind, language, strings.ToLower(strings.TrimSpace(title)))
}

func providersKey(kind domain.Kind, catalogID int64, region string) string {
	return fmt.Sprintf("catalog:providers:%s:%d:%s", kind, catalogID, region)
}

// GetRecord returns a cached search match, or nil when absent.
func (c *Cache) GetRecord(ctx context.Context, kind domain.Kind, language, title string) (*domain.CatalogRecord, error) {
	var rec domain.CatalogRecord
	found, err := c.get(ctx, searchKey(kind, language, title), &rec)
	if err != nil || !found {
		return nil, err
	}
	return &rec, nil
}

func (c *Cache) SetRecord(ctx context.Context, kind domain.Kind, language, title string, rec *domain.CatalogRecord) error {
	return c.set(ctx, searchKey(kind, language, title), rec)
}

// GetProviders returns cached providers; found is false on a miss.
func (c *Cache) GetProviders(ctx context.Context, kind domain.Kind, catalogID int64, region string) ([]domain.Provider, bool, error) {
	var providers []domain.Provider
	found, err := c.get(ctx, providersKey(kind, catalogID, region), &providers)
	if err != nil || !found {
		return nil, false, err
	}
	return providers, true, nil
}

func (c *Cache) SetProviders(ctx context.Context, kind domain.Kind, catalogID int64, region string, providers []domain.Provider) error {
	return c.set(ctx, providersKey(kind, catalogID, region), providers)
}

// Clear drops every cached catalog response.
func (c *Cache) Clear(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, "catalog:*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return fmt.Errorf("cache delete %s: %w", iter.Val(), err)
		}
	}
	return iter.Err()
}

// Ping connectivity
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *Cache) get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("cache get %s: %w", key, err)
	}

	if err := json.Unmarshal(val, dst); err != nil {
		return false, fmt.Errorf("unmarshal cached %s: %w", key, err)
	}
	return true, nil
}

func (c *Cache) set(ctx context.Context, key string, v any) error {
	val, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, val, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
