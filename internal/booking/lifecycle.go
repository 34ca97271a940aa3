// Package booking drives the durable booking state machine: a staged
// selection commits into a confirmed booking, a confirmed booking may be
// cancelled, and attendance is tracked as an independent flag.
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/google/uuid"
)

// CancellationWindow is how close to the showtime start a buyer-initiated
// cancellation is still accepted. Staff cancellations have no cutoff.
const CancellationWindow = 2 * time.Hour

type Lifecycle struct {
	inventory domain.SeatInventory
	bookings  domain.BookingRepository
	showtimes domain.ShowtimeRepository
	staging   domain.StagingStore
	logger    *slog.Logger

	now func() time.Time
}

func NewLifecycle(
	inventory domain.SeatInventory,
	bookings domain.BookingRepository,
	showtimes domain.ShowtimeRepository,
	staging domain.StagingStore,
	logger *slog.Logger,
) *Lifecycle {

	return &Lifecycle{
		inventory: inventory,
		bookings:  bookings,
		showtimes: showtimes,
		staging:   staging,
		logger:    logger,
		now:       time.Now,
	}
}

// Commit turns the session's staged selection into a confirmed booking.
//
// The seats are reserved atomically first; only then is the durable record
// created. A SeatConflictError aborts the commit and leaves the staging
// record intact so the buyer can reselect — the charge that triggered this
// commit must not be treated as finalized in that case. If the durable
// insert itself fails, the freshly held seats are released again so no
// partial state survives.
func (l *Lifecycle) Commit(ctx context.Context, userID int, sessionID string) (*domain.Booking, error) {
	staged, err := l.staging.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	showtime, err := l.showtimes.GetById(ctx, staged.ShowtimeID)
	if err != nil {
		return nil, err
	}

	for _, coord := range staged.Seats {
		if coord.Row < 0 || coord.Row >= showtime.Rows || coord.Col < 0 || coord.Col >= showtime.Cols {
			return nil, domain.OutOfBoundsError{Row: coord.Row, Col: coord.Col}
		}
	}

	err = l.inventory.ReserveAll(ctx, staged.ShowtimeID, staged.Seats)
	if err != nil {
		return nil, err
	}

	booking := &domain.Booking{
		Reference:     uuid.New().String(),
		UserID:        userID,
		ShowtimeID:    staged.ShowtimeID,
		ShowtimeStart: showtime.StartTime,
		Seats:         staged.Seats,
		FoodItems:     staged.FoodItems,
		TotalPrice:    staged.Total,
		Status:        domain.BookingConfirmed,
	}

	err = l.bookings.Create(ctx, booking)
	if err != nil {
		if releaseErr := l.inventory.ReleaseAll(ctx, staged.ShowtimeID, staged.Seats); releaseErr != nil {
			l.logger.Error("failed to release seats after booking insert failure",
				"showtime_id", staged.ShowtimeID,
				"error", releaseErr,
			)
		}

		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if err := l.staging.Delete(ctx, sessionID); err != nil {
		// Not fatal: the record expires on its own and can never commit twice
		// into held seats, but log it for visibility.
		l.logger.Error("failed to discard staging record after commit", "error", err)
	}

	return booking, nil
}

// Cancel transitions a confirmed booking to cancelled and releases its
// seats. Cancelling an already cancelled booking reports ErrAlreadyCancelled
// without changing anything. Buyer-initiated cancellations are rejected with
// ErrCancellationWindowClosed inside the cutoff; staff bypasses it.
//
// Seats are released before the status flips. Both halves are idempotent, so
// a cancel that fails between them can simply be retried.
func (l *Lifecycle) Cancel(ctx context.Context, bookingID, userID int, staff bool) (*domain.Booking, error) {
	booking, err := l.bookings.GetById(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if !staff && booking.UserID != userID {
		return nil, domain.ErrRecordNotFound
	}

	if booking.Status == domain.BookingCancelled {
		return booking, domain.ErrAlreadyCancelled
	}

	if !staff && l.now().After(booking.ShowtimeStart.Add(-CancellationWindow)) {
		return nil, domain.ErrCancellationWindowClosed
	}

	err = l.inventory.ReleaseAll(ctx, booking.ShowtimeID, booking.Seats)
	if err != nil {
		return nil, fmt.Errorf("failed to release seats: %w", err)
	}

	booking.Status = domain.BookingCancelled

	err = l.bookings.UpdateStatus(ctx, booking)
	if err != nil {
		return nil, err
	}

	return booking, nil
}

// MarkAttended sets the attended flag on a confirmed booking. The flag is
// monotonic: marking twice reports ErrAlreadyAttended and changes nothing.
func (l *Lifecycle) MarkAttended(ctx context.Context, bookingID int) (*domain.Booking, error) {
	booking, err := l.bookings.GetById(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	if booking.Status != domain.BookingConfirmed {
		return nil, domain.ErrBookingNotConfirmed
	}

	if booking.Attended {
		return booking, domain.ErrAlreadyAttended
	}

	booking.Attended = true

	err = l.bookings.MarkAttended(ctx, booking)
	if err != nil {
		return nil, err
	}

	return booking, nil
}
