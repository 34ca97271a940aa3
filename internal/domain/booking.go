package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
)

// Booking is the durable record of a committed purchase. The seat set is
// immutable after creation: cancellation changes status and releases seats
// but never edits the seat list. Attended is orthogonal to status and only
// ever moves from false to true.
type Booking struct {
	ID            int
	Reference     string
	UserID        int
	ShowtimeID    int
	ShowtimeStart time.Time
	Seats         []Coord
	FoodItems     []FoodSelection
	TotalPrice    decimal.Decimal
	Status        BookingStatus
	Attended      bool
	CreatedAt     time.Time
	Version       int
}

type BookingSummary struct {
	BookingID     int
	Reference     string
	MovieTitle    string
	TheaterName   string
	Hall          string
	ShowtimeStart time.Time
	SeatCount     int
	TotalPrice    decimal.Decimal
	Status        BookingStatus
	CreatedAt     time.Time
}

type BookingRepository interface {
	Create(ctx context.Context, booking *Booking) error
	GetById(ctx context.Context, id int) (*Booking, error)
	GetByReference(ctx context.Context, reference string) (*Booking, error)
	GetSummariesByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingSummary, *Metadata, error)

	// UpdateStatus and MarkAttended are guarded by the booking version so
	// that two racing writers surface ErrEditConflict instead of silently
	// overwriting each other.
	UpdateStatus(ctx context.Context, booking *Booking) error
	MarkAttended(ctx context.Context, booking *Booking) error
}

// SeatInventory is the sole component allowed to transition seats between
// free and held. ReserveAll is all-or-nothing and serialized per showtime:
// of any two concurrent calls with overlapping coordinates exactly one
// succeeds, and the loser observes a SeatConflictError as if issued strictly
// after the winner.
type SeatInventory interface {
	ReserveAll(ctx context.Context, showtimeID int, coords []Coord) error
	ReleaseAll(ctx context.Context, showtimeID int, coords []Coord) error
	IsFreeAll(ctx context.Context, showtimeID int, coords []Coord) (bool, error)
}
