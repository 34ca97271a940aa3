package mocks

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockStagingStore struct {
	mock.Mock
}

func (m *MockStagingStore) Put(ctx context.Context, sessionID string, staging *domain.Staging) error {
	args := m.Called(ctx, sessionID, staging)
	return args.Error(0)
}

func (m *MockStagingStore) Get(ctx context.Context, sessionID string) (*domain.Staging, error) {
	args := m.Called(ctx, sessionID)

	if staging, ok := args.Get(0).(*domain.Staging); ok {
		return staging, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockStagingStore) Delete(ctx context.Context, sessionID string) error {
	args := m.Called(ctx, sessionID)
	return args.Error(0)
}
