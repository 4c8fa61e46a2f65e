package mocks

import (
	"context"
	"time"

	"comicvault/storefront/internal/domain/task"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/mock"
)

// MockQueue is a mock of queue.Queue.
type MockQueue struct {
	mock.Mock
}

func (m *MockQueue) AddTask(ctx context.Context, t task.Task) (string, error) {
	args := m.Called(ctx, t)
	return args.String(0), args.Error(1)
}

func (m *MockQueue) GetTask(ctx context.Context, group, consumer, stream string) (*redis.XMessage, error) {
	args := m.Called(ctx, group, consumer, stream)
	msg, _ := args.Get(0).(*redis.XMessage)
	return msg, args.Error(1)
}

func (m *MockQueue) AckTask(ctx context.Context, stream, group, msgID string) error {
	args := m.Called(ctx, stream, group, msgID)
	return args.Error(0)
}

func (m *MockQueue) CreateGroup(ctx context.Context, stream, group string) error {
	args := m.Called(ctx, stream, group)
	return args.Error(0)
}

func (m *MockQueue) AutoClaim(ctx context.Context, group, consumer, stream string, minIdleTime time.Duration) ([]redis.XMessage, error) {
	args := m.Called(ctx, group, consumer, stream, minIdleTime)
	msgs, _ := args.Get(0).([]redis.XMessage)
	return msgs, args.Error(1)
}

func (m *MockQueue) EnsureStreamsExist(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
