package mocks

import (
	"context"

	"comicvault/storefront/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockBundleInfoCache is a mock of cache.BundleInfoCache.
type MockBundleInfoCache struct {
	mock.Mock
}

func (m *MockBundleInfoCache) Get(ctx context.Context, nodeID string) (*domain.BundleInfo, error) {
	args := m.Called(ctx, nodeID)
	info, _ := args.Get(0).(*domain.BundleInfo)
	return info, args.Error(1)
}

func (m *MockBundleInfoCache) GetMany(ctx context.Context, nodeIDs []string) (map[string]*domain.BundleInfo, error) {
	args := m.Called(ctx, nodeIDs)
	infos, _ := args.Get(0).(map[string]*domain.BundleInfo)
	return infos, args.Error(1)
}

func (m *MockBundleInfoCache) Set(ctx context.Context, nodeID string, info *domain.BundleInfo) error {
	args := m.Called(ctx, nodeID, info)
	return args.Error(0)
}
