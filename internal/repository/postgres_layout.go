package repository

import (
	"context"
	"errors"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresLayoutRepository struct {
	db *pgxpool.Pool
}

func NewPostgresLayoutRepository(db *pgxpool.Pool) *PostgresLayoutRepository {
	return &PostgresLayoutRepository{
		db: db,
	}
}

func (p *PostgresLayoutRepository) View(ctx context.Context, showtimeID int, fn func(*domain.SeatGrid) error) error {
	query := `SELECT layout FROM seat_layouts WHERE showtime_id = $1`

	var layout [][]int

	err := p.db.QueryRow(ctx, query, showtimeID).Scan(&layout)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrRecordNotFound
		}

		return err
	}

	grid, err := domain.DecodeGrid(layout)
	if err != nil {
		return err
	}

	return fn(grid)
}

// Update runs fn against the grid under a row lock, so concurrent updates of
// the same showtime serialize at the database. The rewritten layout is only
// committed when fn succeeds; any error rolls the transaction back and leaves
// the stored layout untouched.
func (p *PostgresLayoutRepository) Update(ctx context.Context, showtimeID int, fn func(*domain.SeatGrid) error) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `SELECT layout FROM seat_layouts WHERE showtime_id = $1 FOR UPDATE`

		var layout [][]int

		err := tx.QueryRow(ctx, query, showtimeID).Scan(&layout)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		grid, err := domain.DecodeGrid(layout)
		if err != nil {
			return err
		}

		if err := fn(grid); err != nil {
			return err
		}

		query = `UPDATE seat_layouts SET layout = $1, updated_at = NOW() WHERE showtime_id = $2`

		_, err = tx.Exec(ctx, query, grid.Encode(), showtimeID)
		return err
	})
}
