// Package cache содержит кэш каталога товаров в Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/mmeshcher/gymstore/internal/model"
)

// ErrMiss возвращается, если значения нет в кэше.
var ErrMiss = errors.New("cache miss")

const (
	productsKey      = "catalog:products"
	productKeyPrefix = "catalog:product:"
)

// CatalogCache хранит список товаров и отдельные товары в Redis.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache подключается к Redis по адресу addr и проверяет соединение.
func NewCatalogCache(addr string, ttl time.Duration) (*CatalogCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewCatalogCacheFromClient(client, ttl), nil
}

// NewCatalogCacheFromClient создаёт кэш поверх готового клиента Redis.
func NewCatalogCacheFromClient(client *redis.Client, ttl time.Duration) *CatalogCache {
	return &CatalogCache{client: client, ttl: ttl}
}

// Close закрывает соединение с Redis.
func (c *CatalogCache) Close() error {
	return c.client.Close()
}

// Products возвращает закэшированный список товаров.
func (c *CatalogCache) Products(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.get(ctx, productsKey, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// SetProducts кэширует список товаров.
func (c *CatalogCache) SetProducts(ctx context.Context, products []model.Product) error {
	return c.set(ctx, productsKey, products)
}

// Product возвращает закэшированный товар.
func (c *CatalogCache) Product(ctx context.Context, id string) (*model.Product, error) {
	var p model.Product
	if err := c.get(ctx, productKey(id), &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// SetProduct кэширует товар.
func (c *CatalogCache) SetProduct(ctx context.Context, p model.Product) error {
	return c.set(ctx, productKey(p.ID), p)
}

// Invalidate удаляет список товаров и перечисленные товары из кэша.
func (c *CatalogCache) Invalidate(ctx context.Context, ids ...string) error {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, productsKey)
	for _, id := range ids {
		keys = append(keys, productKey(id))
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (c *CatalogCache) get(ctx context.Context, key string, dst any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return fmt.Errorf("redis get %s: %w", key, err)
	}

	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (c *CatalogCache) set(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func productKey(id string) string {
	return productKeyPrefix + id
}
