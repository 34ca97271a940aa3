package mocks

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockFoodRepo struct {
	mock.Mock
	domain.FoodItemRepository
}

func (m *MockFoodRepo) GetActive(ctx context.Context) ([]domain.FoodItem, error) {
	args := m.Called(ctx)

	if items, ok := args.Get(0).([]domain.FoodItem); ok {
		return items, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockFoodRepo) GetByIds(ctx context.Context, ids []int) ([]domain.FoodItem, error) {
	args := m.Called(ctx, ids)

	if items, ok := args.Get(0).([]domain.FoodItem); ok {
		return items, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockFoodRepo) Create(ctx context.Context, item *domain.FoodItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}
