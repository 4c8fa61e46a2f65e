package mocks

import (
	"context"

	"comicvault/storefront/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockCatalogRepository is a mock of repository.CatalogRepository.
type MockCatalogRepository struct {
	mock.Mock
}

func (m *MockCatalogRepository) GetNode(ctx context.Context, id string) (*domain.CatalogNode, error) {
	args := m.Called(ctx, id)
	node, _ := args.Get(0).(*domain.CatalogNode)
	return node, args.Error(1)
}

func (m *MockCatalogRepository) GetNodeWithChildren(ctx context.Context, id string) (*domain.CatalogNode, error) {
	args := m.Called(ctx, id)
	node, _ := args.Get(0).(*domain.CatalogNode)
	return node, args.Error(1)
}

func (m *MockCatalogRepository) GetAncestorChain(ctx context.Context, id string) ([]*domain.CatalogNode, error) {
	args := m.Called(ctx, id)
	nodes, _ := args.Get(0).([]*domain.CatalogNode)
	return nodes, args.Error(1)
}

func (m *MockCatalogRepository) GetForest(ctx context.Context) ([]*domain.CatalogNode, error) {
	args := m.Called(ctx)
	nodes, _ := args.Get(0).([]*domain.CatalogNode)
	return nodes, args.Error(1)
}

func (m *MockCatalogRepository) UpsertNodes(ctx context.Context, nodes []domain.CatalogNode) error {
	args := m.Called(ctx, nodes)
	return args.Error(0)
}

func (m *MockCatalogRepository) SaveBundleInfo(ctx context.Context, id string, info *domain.BundleInfo) error {
	args := m.Called(ctx, id, info)
	return args.Error(0)
}
