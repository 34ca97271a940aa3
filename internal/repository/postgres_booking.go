package repository

import (
	"context"
	"errors"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresBookingRepository struct {
	db *pgxpool.Pool
}

func NewPostgresBookingRepository(db *pgxpool.Pool) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db: db,
	}
}

func (p *PostgresBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return runInTx(ctx, p.db, func(tx pgx.Tx) error {
		query := `
			INSERT INTO bookings (
				reference,
				user_id,
				showtime_id,
				food_items,
				total_price,
				status
			)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING id, created_at, version
		`

		err := tx.QueryRow(
			ctx,
			query,
			booking.Reference,
			booking.UserID,
			booking.ShowtimeID,
			booking.FoodItems,
			booking.TotalPrice,
			booking.Status,
		).Scan(&booking.ID, &booking.CreatedAt, &booking.Version)

		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(booking.Seats))
		for _, seat := range booking.Seats {
			rows = append(rows, []any{
				booking.ID,
				booking.ShowtimeID,
				seat.Row,
				seat.Col,
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"booking_seats"},
			[]string{"booking_id", "showtime_id", "seat_row", "seat_col"},
			pgx.CopyFromRows(rows),
		)

		return err
	})
}

func (p *PostgresBookingRepository) GetById(ctx context.Context, id int) (*domain.Booking, error) {
	query := `
		SELECT
			b.id,
			b.reference,
			b.user_id,
			b.showtime_id,
			s.start_time,
			b.food_items,
			b.total_price,
			b.status,
			b.attended,
			b.created_at,
			b.version
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		WHERE b.id = $1
	`

	return p.getOne(ctx, query, id)
}

func (p *PostgresBookingRepository) GetByReference(ctx context.Context, reference string) (*domain.Booking, error) {
	query := `
		SELECT
			b.id,
			b.reference,
			b.user_id,
			b.showtime_id,
			s.start_time,
			b.food_items,
			b.total_price,
			b.status,
			b.attended,
			b.created_at,
			b.version
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		WHERE b.reference = $1
	`

	return p.getOne(ctx, query, reference)
}

func (p *PostgresBookingRepository) getOne(ctx context.Context, query string, arg any) (*domain.Booking, error) {
	var booking domain.Booking

	err := p.db.QueryRow(ctx, query, arg).Scan(
		&booking.ID,
		&booking.Reference,
		&booking.UserID,
		&booking.ShowtimeID,
		&booking.ShowtimeStart,
		&booking.FoodItems,
		&booking.TotalPrice,
		&booking.Status,
		&booking.Attended,
		&booking.CreatedAt,
		&booking.Version,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	seats, err := p.retrieveBookingSeats(ctx, booking.ID)
	if err != nil {
		return nil, err
	}

	booking.Seats = seats

	return &booking, nil
}

func (p *PostgresBookingRepository) retrieveBookingSeats(ctx context.Context, bookingID int) ([]domain.Coord, error) {
	query := `
		SELECT seat_row, seat_col
		FROM booking_seats
		WHERE booking_id = $1
		ORDER BY seat_row, seat_col
	`

	rows, err := p.db.Query(ctx, query, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Coord, 0)

	for rows.Next() {
		var seat domain.Coord

		err := rows.Scan(&seat.Row, &seat.Col)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return seats, nil
}

func (p *PostgresBookingRepository) GetSummariesByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingSummary, *domain.Metadata, error) {

	query := `
		SELECT
			COUNT(*) OVER(),
			b.id,
			b.reference,
			m.title,
			t.name,
			s.hall,
			s.start_time,
			(SELECT COUNT(*) FROM booking_seats bs WHERE bs.booking_id = b.id),
			b.total_price,
			b.status,
			b.created_at
		FROM bookings b
		JOIN showtimes s ON b.showtime_id = s.id
		JOIN movies m ON s.movie_id = m.id
		JOIN theaters t ON s.theater_id = t.id
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	summaries := make([]domain.BookingSummary, 0)
	totalRecords := 0

	for rows.Next() {
		var summary domain.BookingSummary

		err := rows.Scan(
			&totalRecords,
			&summary.BookingID,
			&summary.Reference,
			&summary.MovieTitle,
			&summary.TheaterName,
			&summary.Hall,
			&summary.ShowtimeStart,
			&summary.SeatCount,
			&summary.TotalPrice,
			&summary.Status,
			&summary.CreatedAt,
		)
		if err != nil {
			return nil, nil, err
		}

		summaries = append(summaries, summary)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return summaries, metadata, nil
}

func (p *PostgresBookingRepository) UpdateStatus(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = NOW(), version = version + 1
		WHERE id = $2 AND version = $3
		RETURNING version
	`

	err := p.db.QueryRow(ctx, query, booking.Status, booking.ID, booking.Version).Scan(&booking.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}

func (p *PostgresBookingRepository) MarkAttended(ctx context.Context, booking *domain.Booking) error {
	query := `
		UPDATE bookings
		SET attended = TRUE, updated_at = NOW(), version = version + 1
		WHERE id = $1 AND version = $2
		RETURNING version
	`

	err := p.db.QueryRow(ctx, query, booking.ID, booking.Version).Scan(&booking.Version)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrEditConflict
		}

		return err
	}

	return nil
}
