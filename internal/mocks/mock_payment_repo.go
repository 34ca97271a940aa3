package mocks

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentRepo struct {
	mock.Mock
	domain.PaymentRepository
}

func (m *MockPaymentRepo) Create(ctx context.Context, payment *domain.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepo) GetByIntentId(ctx context.Context, intentID string) (*domain.Payment, error) {
	args := m.Called(ctx, intentID)

	if payment, ok := args.Get(0).(*domain.Payment); ok {
		return payment, args.Error(1)
	}

	return nil, args.Error(1)
}

func (m *MockPaymentRepo) UpdateStatus(
	ctx context.Context,
	intentID string,
	status domain.PaymentStatus,
	errMsg string) error {

	args := m.Called(ctx, intentID, status, errMsg)
	return args.Error(0)
}
