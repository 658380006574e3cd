package backend

import (
	"context"
	"net/url"

	"github.com/stretchr/testify/mock"
)

// MockBackendClient implements the clients.BackendClient interface for testing
type MockBackendClient struct {
	mock.Mock
}

// Get mocks an authenticated GET
func (m *MockBackendClient) Get(ctx context.Context, path string) ([]byte, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// Post mocks an authenticated POST
func (m *MockBackendClient) Post(ctx context.Context, path string, query url.Values) error {
	args := m.Called(ctx, path, query)
	return args.Error(0)
}
