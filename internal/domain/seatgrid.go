package domain

import (
	"github.com/shopspring/decimal"
)

type SeatCategory int

const (
	SeatStandard SeatCategory = iota
	SeatPremium
	SeatVIP
)

func (c SeatCategory) String() string {
	switch c {
	case SeatPremium:
		return "Premium"
	case SeatVIP:
		return "VIP"
	default:
		return "Standard"
	}
}

// Coord addresses a single seat cell, zero-based.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// SeatGrid is the per-showtime seating chart. Each cell packs a fixed seat
// category and a toggling occupancy bit into one integer:
//
//	value = 2*category + heldBit
//
// Standard=0, Premium=2, VIP=4 as base values, +1 when the seat is held.
// The packing is part of the persisted layout format and must not change.
type SeatGrid struct {
	rows  int
	cols  int
	cells []int
}

// NewSeatGrid creates a grid of free Standard seats. Category overrides are
// applied per coordinate and are fixed for the lifetime of the grid.
func NewSeatGrid(rows, cols int, categories map[SeatCategory][]Coord) (*SeatGrid, error) {
	if rows < 1 || cols < 1 {
		return nil, OutOfBoundsError{Row: rows - 1, Col: cols - 1}
	}

	g := &SeatGrid{
		rows:  rows,
		cols:  cols,
		cells: make([]int, rows*cols),
	}

	for category, coords := range categories {
		for _, coord := range coords {
			if !g.contains(coord) {
				return nil, OutOfBoundsError{Row: coord.Row, Col: coord.Col}
			}

			g.cells[g.index(coord)] = 2 * int(category)
		}
	}

	return g, nil
}

// DecodeGrid rebuilds a grid from its persisted row-major layout.
func DecodeGrid(layout [][]int) (*SeatGrid, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, OutOfBoundsError{}
	}

	rows := len(layout)
	cols := len(layout[0])

	g := &SeatGrid{
		rows:  rows,
		cols:  cols,
		cells: make([]int, 0, rows*cols),
	}

	for row, cells := range layout {
		if len(cells) != cols {
			return nil, OutOfBoundsError{Row: row, Col: len(cells) - 1}
		}

		for col, cell := range cells {
			if cell < 0 || cell > 2*int(SeatVIP)+1 {
				return nil, OutOfBoundsError{Row: row, Col: col}
			}

			g.cells = append(g.cells, cell)
		}
	}

	return g, nil
}

// Encode returns the row-major layout using only values in {0..5}.
func (g *SeatGrid) Encode() [][]int {
	layout := make([][]int, g.rows)

	for row := range layout {
		layout[row] = make([]int, g.cols)
		copy(layout[row], g.cells[row*g.cols:(row+1)*g.cols])
	}

	return layout
}

func (g *SeatGrid) Rows() int { return g.rows }
func (g *SeatGrid) Cols() int { return g.cols }

func (g *SeatGrid) contains(c Coord) bool {
	return c.Row >= 0 && c.Row < g.rows && c.Col >= 0 && c.Col < g.cols
}

func (g *SeatGrid) index(c Coord) int {
	return c.Row*g.cols + c.Col
}

// CheckBounds reports the first coordinate falling outside the grid.
func (g *SeatGrid) CheckBounds(coords []Coord) error {
	for _, coord := range coords {
		if !g.contains(coord) {
			return OutOfBoundsError{Row: coord.Row, Col: coord.Col}
		}
	}

	return nil
}

func (g *SeatGrid) Category(c Coord) (SeatCategory, error) {
	if !g.contains(c) {
		return SeatStandard, OutOfBoundsError{Row: c.Row, Col: c.Col}
	}

	return SeatCategory(g.cells[g.index(c)] / 2), nil
}

func (g *SeatGrid) IsHeld(c Coord) (bool, error) {
	if !g.contains(c) {
		return false, OutOfBoundsError{Row: c.Row, Col: c.Col}
	}

	return g.cells[g.index(c)]%2 == 1, nil
}

// Hold marks a free seat as held. Holding an already held seat is a conflict.
func (g *SeatGrid) Hold(c Coord) error {
	held, err := g.IsHeld(c)
	if err != nil {
		return err
	}

	if held {
		return SeatConflictError{Row: c.Row, Col: c.Col}
	}

	g.cells[g.index(c)]++

	return nil
}

// Release frees a held seat. Releasing a free seat is a no-op so that
// cancellation stays idempotent.
func (g *SeatGrid) Release(c Coord) error {
	held, err := g.IsHeld(c)
	if err != nil {
		return err
	}

	if held {
		g.cells[g.index(c)]--
	}

	return nil
}

// Price resolves a seat's price from the owning showtime's tiers.
func (g *SeatGrid) Price(c Coord, showtime *Showtime) (decimal.Decimal, error) {
	category, err := g.Category(c)
	if err != nil {
		return decimal.Zero, err
	}

	return showtime.PriceFor(category), nil
}

// Clone returns an independent copy of the grid.
func (g *SeatGrid) Clone() *SeatGrid {
	cells := make([]int, len(g.cells))
	copy(cells, g.cells)

	return &SeatGrid{rows: g.rows, cols: g.cols, cells: cells}
}
