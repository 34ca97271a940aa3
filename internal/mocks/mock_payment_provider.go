package mocks

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPaymentProvider struct {
	mock.Mock
}

func (m *MockPaymentProvider) CreateIntent(
	ctx context.Context,
	amountMinorUnits int64,
	currency string,
	metadata map[string]string) (*domain.PaymentIntent, error) {

	args := m.Called(ctx, amountMinorUnits, currency, metadata)

	if intent, ok := args.Get(0).(*domain.PaymentIntent); ok {
		return intent, args.Error(1)
	}

	return nil, args.Error(1)
}
