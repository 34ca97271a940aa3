package repository

import (
	"context"
	"errors"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetById(ctx context.Context, id int) (*domain.Showtime, error) {
	query := `
		SELECT
			s.id,
			s.movie_id,
			s.theater_id,
			m.title,
			t.name,
			s.hall,
			s.start_time,
			s.seat_rows,
			s.seat_cols,
			s.price_standard,
			s.price_premium,
			s.price_vip
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		WHERE s.id = $1
	`

	var showtime domain.Showtime

	err := p.db.QueryRow(ctx, query, id).Scan(
		&showtime.ID,
		&showtime.MovieID,
		&showtime.TheaterID,
		&showtime.MovieTitle,
		&showtime.TheaterName,
		&showtime.Hall,
		&showtime.StartTime,
		&showtime.Rows,
		&showtime.Cols,
		&showtime.PriceStandard,
		&showtime.PricePremium,
		&showtime.PriceVIP,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &showtime, nil
}

// Create persists the showtime and its provisioned seat layout in one
// transaction, so a showtime can never exist without a grid to book against.
func (p *PostgresShowtimeRepository) Create(ctx context.Context, showtime *domain.Showtime, layout [][]int) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO showtimes (
				movie_id,
				theater_id,
				hall,
				start_time,
				seat_rows,
				seat_cols,
				price_standard,
				price_premium,
				price_vip
			)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			RETURNING id
		`

		err := tx.QueryRow(
			ctx,
			query,
			showtime.MovieID,
			showtime.TheaterID,
			showtime.Hall,
			showtime.StartTime,
			showtime.Rows,
			showtime.Cols,
			showtime.PriceStandard,
			showtime.PricePremium,
			showtime.PriceVIP,
		).Scan(&showtime.ID)

		if err != nil {
			return err
		}

		query = `INSERT INTO seat_layouts (showtime_id, layout) VALUES ($1, $2)`

		_, err = tx.Exec(ctx, query, showtime.ID, layout)
		return err
	})
}

func (p *PostgresShowtimeRepository) GetByTheater(
	ctx context.Context,
	theaterID int,
	pagination domain.Pagination) ([]domain.Showtime, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			s.id,
			s.movie_id,
			s.theater_id,
			m.title,
			t.name,
			s.hall,
			s.start_time,
			s.seat_rows,
			s.seat_cols,
			s.price_standard,
			s.price_premium,
			s.price_vip
		FROM showtimes s
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		WHERE s.theater_id = $1 AND s.start_time > NOW()
		ORDER BY s.start_time ASC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, theaterID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	showtimes := make([]domain.Showtime, 0)
	totalRecords := 0

	for rows.Next() {
		var showtime domain.Showtime

		err := rows.Scan(
			&totalRecords,
			&showtime.ID,
			&showtime.MovieID,
			&showtime.TheaterID,
			&showtime.MovieTitle,
			&showtime.TheaterName,
			&showtime.Hall,
			&showtime.StartTime,
			&showtime.Rows,
			&showtime.Cols,
			&showtime.PriceStandard,
			&showtime.PricePremium,
			&showtime.PriceVIP,
		)
		if err != nil {
			return nil, nil, err
		}

		showtimes = append(showtimes, showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return showtimes, metadata, nil
}
