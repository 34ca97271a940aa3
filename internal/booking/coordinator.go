package booking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/shopspring/decimal"
)

// EventPublisher receives lifecycle events for downstream consumers
// (ticketing, notifications). Publishing is best-effort from the
// coordinator's point of view.
type EventPublisher interface {
	BookingConfirmed(ctx context.Context, booking *domain.Booking) error
}

// Coordinator bridges a staged selection to the external payment gateway.
// It never reserves seats itself: seats are only touched by the commit that
// runs after the gateway confirms the charge.
type Coordinator struct {
	staging   domain.StagingStore
	payments  domain.PaymentRepository
	provider  domain.PaymentProvider
	lifecycle *Lifecycle
	events    EventPublisher
	currency  string
	logger    *slog.Logger
}

func NewCoordinator(
	staging domain.StagingStore,
	payments domain.PaymentRepository,
	provider domain.PaymentProvider,
	lifecycle *Lifecycle,
	events EventPublisher,
	currency string,
	logger *slog.Logger,
) *Coordinator {

	return &Coordinator{
		staging:   staging,
		payments:  payments,
		provider:  provider,
		lifecycle: lifecycle,
		events:    events,
		currency:  currency,
		logger:    logger,
	}
}

// RequestCharge asks the gateway for a payment intent covering the staged
// grand total (seats plus food) in minor currency units.
func (c *Coordinator) RequestCharge(ctx context.Context, userID int, sessionID string) (*domain.PaymentIntent, error) {
	staged, err := c.staging.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	amountMinor := staged.Total.Mul(decimal.NewFromInt(100)).IntPart()

	intent, err := c.provider.CreateIntent(ctx, amountMinor, c.currency, map[string]string{
		"session_id":  sessionID,
		"user_id":     strconv.Itoa(userID),
		"staging_id":  staged.ID,
		"showtime_id": strconv.Itoa(staged.ShowtimeID),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment intent: %w", err)
	}

	payment := &domain.Payment{
		UserID:   userID,
		IntentID: &intent.ID,
		Amount:   staged.Total,
		Currency: c.currency,
		Status:   domain.PaymentStatusPending,
	}

	err = c.payments.Create(ctx, payment)
	if err != nil {
		return nil, err
	}

	return intent, nil
}

// OnGatewayConfirmed handles the asynchronous success signal for an intent.
// It drives the commit and, when the seats were taken in the meantime (or
// the staging record is gone), records the payment as needing
// reconciliation and surfaces ErrPaymentMismatch — the charge already
// succeeded, so this case must never be reported as a plain seat conflict
// nor silently dropped.
func (c *Coordinator) OnGatewayConfirmed(ctx context.Context, intentID, sessionID string) (*domain.Booking, error) {
	payment, err := c.payments.GetByIntentId(ctx, intentID)
	if err != nil {
		return nil, err
	}

	booking, err := c.lifecycle.Commit(ctx, payment.UserID, sessionID)
	if err != nil {
		var conflict domain.SeatConflictError

		switch {
		case errors.As(err, &conflict), errors.Is(err, domain.ErrStagingNotFound):
			if updErr := c.payments.UpdateStatus(ctx, intentID, domain.PaymentStatusNeedsReconciliation, err.Error()); updErr != nil {
				c.logger.Error("failed to flag payment for reconciliation", "intent_id", intentID, "error", updErr)
			}

			return nil, fmt.Errorf("%w: %s", domain.ErrPaymentMismatch, err)
		default:
			// Storage-level failure: nothing was committed, the gateway will
			// redeliver the confirmation.
			return nil, err
		}
	}

	if err := c.payments.UpdateStatus(ctx, intentID, domain.PaymentStatusCompleted, ""); err != nil {
		// The booking is committed; do not fail the confirmation over the
		// bookkeeping write. The pending row stays visible to ops.
		c.logger.Error("failed to complete payment record", "intent_id", intentID, "error", err)
	}

	if c.events != nil {
		if err := c.events.BookingConfirmed(ctx, booking); err != nil {
			c.logger.Error("failed to publish booking confirmation", "booking_id", booking.ID, "error", err)
		}
	}

	return booking, nil
}

// OnGatewayFailed records a declined or abandoned charge. The staging record
// is kept: the buyer can retry payment for the same selection.
func (c *Coordinator) OnGatewayFailed(ctx context.Context, intentID, reason string) error {
	return c.payments.UpdateStatus(ctx, intentID, domain.PaymentStatusFailed, reason)
}
