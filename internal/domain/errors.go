package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserAlreadyExists = errors.New("user already exists")
	ErrRecordNotFound    = errors.New("record not found")
	ErrEditConflict      = errors.New("edit conflict")

	ErrStagingNotFound = errors.New("no staged booking found for this session")

	ErrCancellationWindowClosed = errors.New("bookings cannot be cancelled within two hours of the showtime")
	ErrAlreadyCancelled         = errors.New("booking is already cancelled")
	ErrAlreadyAttended          = errors.New("booking is already marked as attended")
	ErrBookingNotConfirmed      = errors.New("booking is not confirmed")

	// ErrPaymentMismatch marks the case where the gateway confirmed a charge
	// but the seats could no longer be reserved. It is never folded into a
	// plain seat conflict because it needs reconciliation, not a reselect.
	ErrPaymentMismatch = errors.New("payment captured but seats could not be reserved")
)

// SeatConflictError reports the first requested seat that is already held.
type SeatConflictError struct {
	Row int
	Col int
}

func (e SeatConflictError) Error() string {
	return fmt.Sprintf("seat (%d,%d) is already held", e.Row, e.Col)
}

// OutOfBoundsError reports a coordinate outside the grid dimensions.
type OutOfBoundsError struct {
	Row int
	Col int
}

func (e OutOfBoundsError) Error() string {
	return fmt.Sprintf("seat (%d,%d) is outside the seating grid", e.Row, e.Col)
}
