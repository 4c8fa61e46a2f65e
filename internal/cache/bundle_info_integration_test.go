//go:build integration

package cache

import (
	"context"
	"testing"
	"time"

	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/testinfra"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisBundleInfoCacheIntegration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	endpoint := testinfra.StartRedis(t, ctx)
	rdb := redis.NewClient(&redis.Options{Addr: endpoint.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	c := NewRedisBundleInfoCache(rdb, time.Hour)

	miss, err := c.Get(ctx, "arc-1")
	require.NoError(t, err)
	assert.Nil(t, miss)

	info := &domain.BundleInfo{
		IndividualPrice: decimal.RequireFromString("14.97"),
		BundlePrice:     decimal.RequireFromString("13.47"),
		DiscountPercent: 10,
	}
	require.NoError(t, c.Set(ctx, "arc-1", info))
	require.NoError(t, rdb.Set(ctx, "storefront:bundleinfo:saga-1", "not json", time.Hour).Err())

	got, err := c.Get(ctx, "arc-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.True(t, got.BundlePrice.Equal(info.BundlePrice))
	assert.Equal(t, int64(10), got.DiscountPercent)

	ttl, err := rdb.TTL(ctx, "storefront:bundleinfo:arc-1").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	many, err := c.GetMany(ctx, []string{"arc-1", "saga-1", "arc-2"})
	require.NoError(t, err)
	assert.Len(t, many, 1)
	assert.Contains(t, many, "arc-1")

	empty, err := c.GetMany(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
