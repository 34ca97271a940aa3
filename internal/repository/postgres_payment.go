package repository

import (
	"context"
	"errors"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresPaymentRepository struct {
	db *pgxpool.Pool
}

func NewPostgresPaymentRepository(db *pgxpool.Pool) *PostgresPaymentRepository {
	return &PostgresPaymentRepository{
		db: db,
	}
}

func (p *PostgresPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	query := `
		INSERT INTO payments (
			user_id,
			intent_id,
			amount,
			currency,
			status
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := p.db.QueryRow(
		ctx,
		query,
		payment.UserID,
		payment.IntentID,
		payment.Amount,
		payment.Currency,
		payment.Status,
	).Scan(&payment.ID, &payment.CreatedAt)

	return err
}

func (p *PostgresPaymentRepository) GetByIntentId(ctx context.Context, intentID string) (*domain.Payment, error) {
	query := `
		SELECT id, user_id, intent_id, amount, currency, status,
			error_message, payment_date, created_at, updated_at
		FROM payments
		WHERE intent_id = $1
	`

	var payment domain.Payment

	err := p.db.QueryRow(ctx, query, intentID).Scan(
		&payment.ID,
		&payment.UserID,
		&payment.IntentID,
		&payment.Amount,
		&payment.Currency,
		&payment.Status,
		&payment.ErrorMsg,
		&payment.PaymentDate,
		&payment.CreatedAt,
		&payment.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	return &payment, nil
}

func (p *PostgresPaymentRepository) UpdateStatus(
	ctx context.Context,
	intentID string,
	status domain.PaymentStatus,
	errMsg string) error {

	query := `
		UPDATE payments
		SET status = $1,
			error_message = NULLIF($2, ''),
			payment_date = CASE WHEN $1 = 'completed' THEN NOW() ELSE payment_date END,
			updated_at = NOW()
		WHERE intent_id = $3
	`

	_, err := p.db.Exec(ctx, query, status, errMsg, intentID)
	return err
}
