package mocks

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockShowtimeRepo struct {
	mock.Mock
	domain.ShowtimeRepository
}

func (m *MockShowtimeRepo) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	args := m.Called(ctx, id)

	if showtime, ok := args.Get(0).(*domain.Showtime); ok {
		return showtime, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockShowtimeRepo) Create(ctx context.Context, showtime *domain.Showtime, layout [][]int) error {
	args := m.Called(ctx, showtime, layout)
	return args.Error(0)
}

func (m *MockShowtimeRepo) GetByTheater(
	ctx context.Context,
	theaterID int,
	pagination domain.Pagination) ([]domain.Showtime, *domain.Metadata, error) {

	args := m.Called(ctx, theaterID, pagination)

	var showtimes []domain.Showtime
	if v, ok := args.Get(0).([]domain.Showtime); ok {
		showtimes = v
	}

	var metadata *domain.Metadata
	if v, ok := args.Get(1).(*domain.Metadata); ok {
		metadata = v
	}

	return showtimes, metadata, args.Error(2)
}
