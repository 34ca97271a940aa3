package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Staging is an in-progress purchase that has not yet touched the seat
// inventory. It lives in the session store only; other buyers never see it,
// and the seats it names are still free for anyone to commit first.
type Staging struct {
	ID           string `json:"-"`
	ShowtimeID   int
	Seats        []Coord
	SeatSubtotal decimal.Decimal
	FoodItems    []FoodSelection
	Total        decimal.Decimal
	CreatedAt    time.Time
}

func NewStaging(showtimeID int, seats []Coord, seatSubtotal decimal.Decimal) Staging {
	return Staging{
		ID:           uuid.New().String(),
		ShowtimeID:   showtimeID,
		Seats:        seats,
		SeatSubtotal: seatSubtotal,
		Total:        seatSubtotal,
		CreatedAt:    time.Now().UTC(),
	}
}

// SetFoodItems replaces the food selection and recomputes the grand total.
func (s *Staging) SetFoodItems(items []FoodSelection) decimal.Decimal {
	s.FoodItems = items

	total := s.SeatSubtotal
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	s.Total = total

	return total
}

// StagingStore keeps at most one staging record per buyer session. Put
// overwrites any prior unconsummated record; Delete is safe to repeat.
type StagingStore interface {
	Put(ctx context.Context, sessionID string, staging *Staging) error
	Get(ctx context.Context, sessionID string) (*Staging, error)
	Delete(ctx context.Context, sessionID string) error
}
