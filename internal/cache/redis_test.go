package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/gymstore/internal/model"
)

func unreachableCache(t *testing.T) *CatalogCache {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { client.Close() })

	return NewCatalogCacheFromClient(client, time.Minute)
}

func TestProductKey(t *testing.T) {
	assert.Equal(t, "catalog:product:42", productKey("42"))
}

func TestCatalogCache_UnreachableIsNotMiss(t *testing.T) {
	c := unreachableCache(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	_, err := c.Products(ctx)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMiss), "connection failures must not look like a miss")

	err = c.SetProduct(ctx, model.Product{ID: "p1", Name: "Dumbbell", Price: decimal.NewFromInt(500)})
	assert.Error(t, err)

	assert.Error(t, c.Invalidate(ctx, "p1"))
}

func TestNewCatalogCache_PingFailure(t *testing.T) {
	_, err := NewCatalogCache("127.0.0.1:1", time.Minute)
	assert.Error(t, err)
}
