package state

import (
	"context"
	"fmt"
	"strconv"

	"comicvault/storefront/internal/domain"

	"github.com/redis/go-redis/v9"
)

// StateManager remembers how far the import of each node type got, so a
// restarted import resumes instead of refetching every page.
type StateManager interface {
	GetLastProcessedPage(ctx context.Context, nodeType domain.NodeType) (int, error)
	SetLastProcessedPage(ctx context.Context, nodeType domain.NodeType, pageNumber int) error
	Reset(ctx context.Context) error
}

type redisStateManager struct {
	redisClient *redis.Client
	keyPrefix   string
}

func NewRedisStateManager(redisClient *redis.Client) StateManager {
	return &redisStateManager{
		redisClient: redisClient,
		keyPrefix:   "storefront:import:page:",
	}
}

func (s *redisStateManager) key(nodeType domain.NodeType) string {
	return s.keyPrefix + nodeType.String()
}

func (s *redisStateManager) GetLastProcessedPage(ctx context.Context, nodeType domain.NodeType) (int, error) {
	val, err := s.redisClient.Get(ctx, s.key(nodeType)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, nil // No progress saved yet
		}
		return 0, fmt.Errorf("failed to get last processed page for %s: %w", nodeType, err)
	}

	page, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("failed to parse page number for %s: %w", nodeType, err)
	}

	return page, nil
}

func (s *redisStateManager) SetLastProcessedPage(ctx context.Context, nodeType domain.NodeType, pageNumber int) error {
	err := s.redisClient.Set(ctx, s.key(nodeType), pageNumber, 0).Err() // No expiration
	if err != nil {
		return fmt.Errorf("failed to set last processed page for %s: %w", nodeType, err)
	}
	return nil
}

// Reset forgets the progress of every node type.
func (s *redisStateManager) Reset(ctx context.Context) error {
	keys := make([]string, 0, len(domain.NodeTypes))
	for _, t := range domain.NodeTypes {
		keys = append(keys, s.key(t))
	}
	if err := s.redisClient.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to reset import progress: %w", err)
	}
	return nil
}
