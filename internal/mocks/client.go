package mocks

import (
	"context"

	"comicvault/storefront/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockUpstreamClient is a mock of client.UpstreamClient.
type MockUpstreamClient struct {
	mock.Mock
}

func (m *MockUpstreamClient) GetCatalogPage(ctx context.Context, nodeType domain.NodeType, pageNumber int) (*domain.CatalogPage, error) {
	args := m.Called(ctx, nodeType, pageNumber)
	page, _ := args.Get(0).(*domain.CatalogPage)
	return page, args.Error(1)
}

func (m *MockUpstreamClient) GetAllCatalogPagesCh(ctx context.Context, nodeType domain.NodeType, startPage int) (*domain.CatalogResults, chan *domain.CatalogPage, error) {
	args := m.Called(ctx, nodeType, startPage)
	results, _ := args.Get(0).(*domain.CatalogResults)
	pages, _ := args.Get(1).(chan *domain.CatalogPage)
	return results, pages, args.Error(2)
}
