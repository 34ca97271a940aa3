package booking

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/cankorkmaz/cinegrid/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type coordinatorMocks struct {
	lifecycleMocks

	payments *mocks.MockPaymentRepo
	provider *mocks.MockPaymentProvider
	events   *mocks.MockEventPublisher
}

func newTestCoordinator() (*Coordinator, *coordinatorMocks) {
	lifecycle, lm := newTestLifecycle()

	m := &coordinatorMocks{
		lifecycleMocks: *lm,
		payments:       new(mocks.MockPaymentRepo),
		provider:       new(mocks.MockPaymentProvider),
		events:         new(mocks.MockEventPublisher),
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	coordinator := NewCoordinator(m.staging, m.payments, m.provider, lifecycle, m.events, "usd", logger)

	return coordinator, m
}

func TestCoordinator_RequestCharge(t *testing.T) {
	ctx := context.Background()

	t.Run("charges the grand total in minor units", func(t *testing.T) {
		coordinator, m := newTestCoordinator()
		staged := testStaging()
		staged.Total = decimal.RequireFromString("649.50")

		m.staging.On("Get", ctx, "session-1").Return(staged, nil).Once()
		m.provider.On("CreateIntent", ctx, int64(64950), "usd", mock.Anything).
			Return(&domain.PaymentIntent{ID: "pi_123", ClientSecret: "secret"}, nil).Once()
		m.payments.On("Create", ctx, mock.MatchedBy(func(p *domain.Payment) bool {
			return p.Status == domain.PaymentStatusPending && p.Amount.Equal(staged.Total) && *p.IntentID == "pi_123"
		})).Return(nil).Once()

		intent, err := coordinator.RequestCharge(ctx, 42, "session-1")
		require.NoError(t, err)
		assert.Equal(t, "pi_123", intent.ID)
		assert.Equal(t, "secret", intent.ClientSecret)

		m.provider.AssertExpectations(t)
		m.payments.AssertExpectations(t)
	})

	t.Run("tags the intent with the session and showtime", func(t *testing.T) {
		coordinator, m := newTestCoordinator()
		staged := testStaging()

		m.staging.On("Get", ctx, "session-1").Return(staged, nil).Once()
		m.provider.On("CreateIntent", ctx, mock.Anything, "usd", map[string]string{
			"session_id":  "session-1",
			"user_id":     "42",
			"staging_id":  "staging-id",
			"showtime_id": "3",
		}).Return(&domain.PaymentIntent{ID: "pi_123"}, nil).Once()
		m.payments.On("Create", ctx, mock.Anything).Return(nil).Once()

		_, err := coordinator.RequestCharge(ctx, 42, "session-1")
		require.NoError(t, err)

		m.provider.AssertExpectations(t)
	})

	t.Run("nothing to charge without a staged selection", func(t *testing.T) {
		coordinator, m := newTestCoordinator()

		m.staging.On("Get", ctx, "session-1").Return(nil, domain.ErrStagingNotFound).Once()

		_, err := coordinator.RequestCharge(ctx, 42, "session-1")
		assert.ErrorIs(t, err, domain.ErrStagingNotFound)

		m.provider.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no payment row when the gateway rejects the intent", func(t *testing.T) {
		coordinator, m := newTestCoordinator()

		m.staging.On("Get", ctx, "session-1").Return(testStaging(), nil).Once()
		m.provider.On("CreateIntent", ctx, mock.Anything, "usd", mock.Anything).
			Return(nil, errors.New("gateway unavailable")).Once()

		_, err := coordinator.RequestCharge(ctx, 42, "session-1")
		require.Error(t, err)

		m.payments.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestCoordinator_OnGatewayConfirmed(t *testing.T) {
	ctx := context.Background()

	pendingPayment := func() *domain.Payment {
		intentID := "pi_123"
		return &domain.Payment{
			ID:       7,
			UserID:   42,
			IntentID: &intentID,
			Amount:   decimal.NewFromInt(500),
			Currency: "usd",
			Status:   domain.PaymentStatusPending,
		}
	}

	t.Run("commits the booking and completes the payment", func(t *testing.T) {
		coordinator, m := newTestCoordinator()
		staged := testStaging()

		m.payments.On("GetByIntentId", ctx, "pi_123").Return(pendingPayment(), nil).Once()
		m.staging.On("Get", ctx, "session-1").Return(staged, nil).Once()
		m.showtimes.On("GetById", ctx, 3).Return(testShowtime(), nil).Once()
		m.inventory.On("ReserveAll", ctx, 3, staged.Seats).Return(nil).Once()
		m.bookings.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.staging.On("Delete", ctx, "session-1").Return(nil).Once()
		m.payments.On("UpdateStatus", ctx, "pi_123", domain.PaymentStatusCompleted, "").Return(nil).Once()
		m.events.On("BookingConfirmed", ctx, mock.Anything).Return(nil).Once()

		booking, err := coordinator.OnGatewayConfirmed(ctx, "pi_123", "session-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, booking.Status)
		assert.Equal(t, 42, booking.UserID)

		m.payments.AssertExpectations(t)
		m.events.AssertExpectations(t)
	})

	t.Run("seat conflict after a successful charge becomes a payment mismatch", func(t *testing.T) {
		coordinator, m := newTestCoordinator()
		staged := testStaging()
		conflict := domain.SeatConflictError{Row: 1, Col: 2}

		m.payments.On("GetByIntentId", ctx, "pi_123").Return(pendingPayment(), nil).Once()
		m.staging.On("Get", ctx, "session-1").Return(staged, nil).Once()
		m.showtimes.On("GetById", ctx, 3).Return(testShowtime(), nil).Once()
		m.inventory.On("ReserveAll", ctx, 3, staged.Seats).Return(conflict).Once()
		m.payments.On("UpdateStatus", ctx, "pi_123", domain.PaymentStatusNeedsReconciliation, mock.Anything).
			Return(nil).Once()

		_, err := coordinator.OnGatewayConfirmed(ctx, "pi_123", "session-1")

		assert.ErrorIs(t, err, domain.ErrPaymentMismatch)
		m.payments.AssertExpectations(t)
		m.events.AssertNotCalled(t, "BookingConfirmed", mock.Anything, mock.Anything)
	})

	t.Run("expired staging after a successful charge becomes a payment mismatch", func(t *testing.T) {
		coordinator, m := newTestCoordinator()

		m.payments.On("GetByIntentId", ctx, "pi_123").Return(pendingPayment(), nil).Once()
		m.staging.On("Get", ctx, "session-1").Return(nil, domain.ErrStagingNotFound).Once()
		m.payments.On("UpdateStatus", ctx, "pi_123", domain.PaymentStatusNeedsReconciliation, mock.Anything).
			Return(nil).Once()

		_, err := coordinator.OnGatewayConfirmed(ctx, "pi_123", "session-1")

		assert.ErrorIs(t, err, domain.ErrPaymentMismatch)
		m.payments.AssertExpectations(t)
	})

	t.Run("transient commit failure is surfaced for gateway redelivery", func(t *testing.T) {
		coordinator, m := newTestCoordinator()
		staged := testStaging()

		m.payments.On("GetByIntentId", ctx, "pi_123").Return(pendingPayment(), nil).Once()
		m.staging.On("Get", ctx, "session-1").Return(staged, nil).Once()
		m.showtimes.On("GetById", ctx, 3).Return(testShowtime(), nil).Once()
		m.inventory.On("ReserveAll", ctx, 3, staged.Seats).Return(nil).Once()
		m.bookings.On("Create", ctx, mock.Anything).Return(errors.New("storage unavailable")).Once()
		m.inventory.On("ReleaseAll", ctx, 3, staged.Seats).Return(nil).Once()

		_, err := coordinator.OnGatewayConfirmed(ctx, "pi_123", "session-1")

		require.Error(t, err)
		assert.NotErrorIs(t, err, domain.ErrPaymentMismatch)

		m.payments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("bookkeeping failure after commit does not fail the confirmation", func(t *testing.T) {
		coordinator, m := newTestCoordinator()
		staged := testStaging()

		m.payments.On("GetByIntentId", ctx, "pi_123").Return(pendingPayment(), nil).Once()
		m.staging.On("Get", ctx, "session-1").Return(staged, nil).Once()
		m.showtimes.On("GetById", ctx, 3).Return(testShowtime(), nil).Once()
		m.inventory.On("ReserveAll", ctx, 3, staged.Seats).Return(nil).Once()
		m.bookings.On("Create", ctx, mock.Anything).Return(nil).Once()
		m.staging.On("Delete", ctx, "session-1").Return(nil).Once()
		m.payments.On("UpdateStatus", ctx, "pi_123", domain.PaymentStatusCompleted, "").
			Return(errors.New("storage unavailable")).Once()
		m.events.On("BookingConfirmed", ctx, mock.Anything).Return(nil).Once()

		booking, err := coordinator.OnGatewayConfirmed(ctx, "pi_123", "session-1")
		require.NoError(t, err)
		assert.Equal(t, domain.BookingConfirmed, booking.Status)
	})
}

func TestCoordinator_OnGatewayFailed(t *testing.T) {
	ctx := context.Background()

	coordinator, m := newTestCoordinator()

	m.payments.On("UpdateStatus", ctx, "pi_123", domain.PaymentStatusFailed, "card_declined").Return(nil).Once()

	err := coordinator.OnGatewayFailed(ctx, "pi_123", "card_declined")
	require.NoError(t, err)

	// the staged selection survives a failed charge
	m.staging.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	m.payments.AssertExpectations(t)
}
