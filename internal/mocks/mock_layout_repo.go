package mocks

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockLayoutRepo struct {
	mock.Mock
}

func (m *MockLayoutRepo) View(ctx context.Context, showtimeID int, fn func(*domain.SeatGrid) error) error {
	args := m.Called(ctx, showtimeID, fn)

	if grid, ok := args.Get(1).(*domain.SeatGrid); ok && args.Error(0) == nil {
		return fn(grid)
	}

	return args.Error(0)
}

func (m *MockLayoutRepo) Update(ctx context.Context, showtimeID int, fn func(*domain.SeatGrid) error) error {
	args := m.Called(ctx, showtimeID, fn)

	if grid, ok := args.Get(1).(*domain.SeatGrid); ok && args.Error(0) == nil {
		return fn(grid)
	}

	return args.Error(0)
}
