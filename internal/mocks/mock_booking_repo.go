package mocks

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
	domain.BookingRepository
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepo) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	args := m.Called(ctx, id)

	if booking, ok := args.Get(0).(*domain.Booking); ok {
		return booking, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBookingRepo) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	args := m.Called(ctx, reference)

	if booking, ok := args.Get(0).(*domain.Booking); ok {
		return booking, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockBookingRepo) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	args := m.Called(ctx, userID, pagination)

	var summaries []domain.BookingSummary
	if v, ok := args.Get(0).([]domain.BookingSummary); ok {
		summaries = v
	}

	var metadata *domain.Metadata
	if v, ok := args.Get(1).(*domain.Metadata); ok {
		metadata = v
	}

	return summaries, metadata, args.Error(2)
}

func (m *MockBookingRepo) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

func (m *MockBookingRepo) MarkAttended(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
