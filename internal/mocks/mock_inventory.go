package mocks

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockSeatInventory struct {
	mock.Mock
}

func (m *MockSeatInventory) ReserveAll(ctx context.Context, showtimeID int, coords []domain.Coord) error {
	args := m.Called(ctx, showtimeID, coords)
	return args.Error(0)
}

func (m *MockSeatInventory) ReleaseAll(ctx context.Context, showtimeID int, coords []domain.Coord) error {
	args := m.Called(ctx, showtimeID, coords)
	return args.Error(0)
}

func (m *MockSeatInventory) IsFreeAll(ctx context.Context, showtimeID int, coords []domain.Coord) (bool, error) {
	args := m.Called(ctx, showtimeID, coords)
	return args.Bool(0), args.Error(1)
}
