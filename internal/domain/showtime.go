package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Showtime is a scheduled screening with a fixed grid dimension and three
// price tiers. It is created by scheduling and read-only to the booking core.
type Showtime struct {
	ID            int
	MovieID       int
	TheaterID     int
	MovieTitle    string
	TheaterName   string
	Hall          string
	StartTime     time.Time
	Rows          int
	Cols          int
	PriceStandard decimal.Decimal
	PricePremium  decimal.Decimal
	PriceVIP      decimal.Decimal
}

func (s *Showtime) PriceFor(category SeatCategory) decimal.Decimal {
	switch category {
	case SeatPremium:
		return s.PricePremium
	case SeatVIP:
		return s.PriceVIP
	default:
		return s.PriceStandard
	}
}

type ShowtimeRepository interface {
	GetById(ctx context.Context, id int) (*Showtime, error)

	// Create persists the showtime together with its freshly provisioned
	// seat layout. The two live and die together.
	Create(ctx context.Context, showtime *Showtime, layout [][]int) error

	GetByTheater(ctx context.Context, theaterID int, pagination Pagination) ([]Showtime, *Metadata, error)
}

// LayoutRepository is the storage backing a showtime's seat grid. Update must
// give the callback exclusive access to the grid for the duration of the
// check-and-mutate sequence, and must persist nothing when the callback
// returns an error.
type LayoutRepository interface {
	View(ctx context.Context, showtimeID int, fn func(*SeatGrid) error) error
	Update(ctx context.Context, showtimeID int, fn func(*SeatGrid) error) error
}
