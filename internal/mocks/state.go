package mocks

import (
	"context"

	"comicvault/storefront/internal/domain"

	"github.com/stretchr/testify/mock"
)

// MockStateManager is a mock of state.StateManager.
type MockStateManager struct {
	mock.Mock
}

func (m *MockStateManager) GetLastProcessedPage(ctx context.Context, nodeType domain.NodeType) (int, error) {
	args := m.Called(ctx, nodeType)
	return args.Int(0), args.Error(1)
}

func (m *MockStateManager) SetLastProcessedPage(ctx context.Context, nodeType domain.NodeType, pageNumber int) error {
	args := m.Called(ctx, nodeType, pageNumber)
	return args.Error(0)
}

func (m *MockStateManager) Reset(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
