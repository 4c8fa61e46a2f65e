package cache

import (
	"context"
	"fmt"
	"time"

	"comicvault/storefront/internal/domain"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// BundleInfoCache keeps the list-view pricing hints of bundle nodes. Values
// are hints only and may be stale.
type BundleInfoCache interface {
	Get(ctx context.Context, nodeID string) (*domain.BundleInfo, error)
	GetMany(ctx context.Context, nodeIDs []string) (map[string]*domain.BundleInfo, error)
	Set(ctx context.Context, nodeID string, info *domain.BundleInfo) error
}

type redisBundleInfoCache struct {
	redisClient *redis.Client
	keyPrefix   string
	ttl         time.Duration
}

func NewRedisBundleInfoCache(redisClient *redis.Client, ttl time.Duration) BundleInfoCache {
	return &redisBundleInfoCache{
		redisClient: redisClient,
		keyPrefix:   "storefront:bundleinfo:",
		ttl:         ttl,
	}
}

func (c *redisBundleInfoCache) key(nodeID string) string {
	return c.keyPrefix + nodeID
}

// Get returns nil without error on a cache miss.
func (c *redisBundleInfoCache) Get(ctx context.Context, nodeID string) (*domain.BundleInfo, error) {
	val, err := c.redisClient.Get(ctx, c.key(nodeID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get bundle info for %s: %w", nodeID, err)
	}

	return decodeBundleInfo(val)
}

// GetMany returns only the hits; unreadable entries are logged and treated as misses.
func (c *redisBundleInfoCache) GetMany(ctx context.Context, nodeIDs []string) (map[string]*domain.BundleInfo, error) {
	out := make(map[string]*domain.BundleInfo, len(nodeIDs))
	if len(nodeIDs) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(nodeIDs))
	for _, id := range nodeIDs {
		keys = append(keys, c.key(id))
	}

	values, err := c.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get bundle info for %d nodes: %w", len(nodeIDs), err)
	}

	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			continue
		}
		info, err := decodeBundleInfo([]byte(s))
		if err != nil {
			log.Warnf("⚠️ Ignoring unreadable bundle info for %s: %v", nodeIDs[i], err)
			continue
		}
		out[nodeIDs[i]] = info
	}

	return out, nil
}

func (c *redisBundleInfoCache) Set(ctx context.Context, nodeID string, info *domain.BundleInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("failed to encode bundle info for %s: %w", nodeID, err)
	}

	if err := c.redisClient.Set(ctx, c.key(nodeID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set bundle info for %s: %w", nodeID, err)
	}
	return nil
}

func decodeBundleInfo(data []byte) (*domain.BundleInfo, error) {
	var info domain.BundleInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("failed to decode bundle info: %w", err)
	}
	return &info, nil
}
