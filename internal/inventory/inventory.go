// Package inventory owns every transition of a seat between free and held.
// Nothing else in the system mutates a showtime's grid.
package inventory

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
)

// Inventory enforces the no-double-booking invariant on top of a
// LayoutRepository. All correctness rests on the repository's Update
// contract: exclusive access per showtime for the whole check-and-mutate
// sequence, and no persistence when the callback fails.
type Inventory struct {
	layouts domain.LayoutRepository
}

func New(layouts domain.LayoutRepository) *Inventory {
	return &Inventory{layouts: layouts}
}

// ReserveAll holds every requested seat or none of them. If any seat is
// already held it fails with a SeatConflictError naming the first conflicting
// coordinate. Concurrent calls for the same showtime are serialized, so of
// two racing calls with overlapping coordinates exactly one can succeed.
func (inv *Inventory) ReserveAll(ctx context.Context, showtimeID int, coords []domain.Coord) error {
	coords = dedupe(coords)
	if len(coords) == 0 {
		return nil
	}

	return inv.layouts.Update(ctx, showtimeID, func(grid *domain.SeatGrid) error {
		if err := grid.CheckBounds(coords); err != nil {
			return err
		}

		// Check every seat before touching any of them, so a conflict
		// reported here leaves the grid byte-for-byte unchanged.
		for _, coord := range coords {
			held, err := grid.IsHeld(coord)
			if err != nil {
				return err
			}

			if held {
				return domain.SeatConflictError{Row: coord.Row, Col: coord.Col}
			}
		}

		for _, coord := range coords {
			if err := grid.Hold(coord); err != nil {
				return err
			}
		}

		return nil
	})
}

// ReleaseAll frees the given seats. Releasing an already free seat is a
// no-op, so repeated release of the same coordinates (a retried
// cancellation) converges instead of erroring.
func (inv *Inventory) ReleaseAll(ctx context.Context, showtimeID int, coords []domain.Coord) error {
	coords = dedupe(coords)
	if len(coords) == 0 {
		return nil
	}

	return inv.layouts.Update(ctx, showtimeID, func(grid *domain.SeatGrid) error {
		if err := grid.CheckBounds(coords); err != nil {
			return err
		}

		for _, coord := range coords {
			if err := grid.Release(coord); err != nil {
				return err
			}
		}

		return nil
	})
}

// IsFreeAll is an advisory read only. State can change between this call and
// ReserveAll; callers must never treat it as a reservation.
func (inv *Inventory) IsFreeAll(ctx context.Context, showtimeID int, coords []domain.Coord) (bool, error) {
	free := true

	err := inv.layouts.View(ctx, showtimeID, func(grid *domain.SeatGrid) error {
		if err := grid.CheckBounds(coords); err != nil {
			return err
		}

		for _, coord := range coords {
			held, err := grid.IsHeld(coord)
			if err != nil {
				return err
			}

			if held {
				free = false
				break
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return free, nil
}

func dedupe(coords []domain.Coord) []domain.Coord {
	if len(coords) < 2 {
		return coords
	}

	seen := make(map[domain.Coord]struct{}, len(coords))
	out := coords[:0:0]

	for _, coord := range coords {
		if _, ok := seen[coord]; ok {
			continue
		}

		seen[coord] = struct{}{}
		out = append(out, coord)
	}

	return out
}
