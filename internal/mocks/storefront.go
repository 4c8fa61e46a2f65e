package mocks

import (
	"context"

	"comicvault/storefront/internal/catalog"
	"comicvault/storefront/internal/domain"
	"comicvault/storefront/internal/pricing"

	"github.com/stretchr/testify/mock"
)

// MockStorefront is a mock of api.Storefront.
type MockStorefront struct {
	mock.Mock
}

func (m *MockStorefront) PurchaseOptions(ctx context.Context, id string) ([]pricing.PurchaseOption, error) {
	args := m.Called(ctx, id)
	options, _ := args.Get(0).([]pricing.PurchaseOption)
	return options, args.Error(1)
}

func (m *MockStorefront) Recommendations(ctx context.Context, id string) ([]pricing.BundleRecommendation, error) {
	args := m.Called(ctx, id)
	recs, _ := args.Get(0).([]pricing.BundleRecommendation)
	return recs, args.Error(1)
}

func (m *MockStorefront) Browse(ctx context.Context, filter catalog.LevelFilter, key catalog.SortKey) ([]*domain.CatalogNode, error) {
	args := m.Called(ctx, filter, key)
	nodes, _ := args.Get(0).([]*domain.CatalogNode)
	return nodes, args.Error(1)
}
