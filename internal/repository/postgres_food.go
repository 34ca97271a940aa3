package repository

import (
	"context"

	"github.com/cankorkmaz/cinegrid/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PostgresFoodItemRepository struct {
	db *pgxpool.Pool
}

func NewPostgresFoodItemRepository(db *pgxpool.Pool) *PostgresFoodItemRepository {
	return &PostgresFoodItemRepository{
		db: db,
	}
}

func (p *PostgresFoodItemRepository) GetActive(ctx context.Context) ([]domain.FoodItem, error) {
	query := `
		SELECT id, name, category, price, is_active
		FROM food_items
		WHERE is_active = TRUE
		ORDER BY category, name
	`

	return p.queryItems(ctx, query)
}

func (p *PostgresFoodItemRepository) GetByIds(ctx context.Context, ids []int) ([]domain.FoodItem, error) {
	query := `
		SELECT id, name, category, price, is_active
		FROM food_items
		WHERE id = ANY($1)
	`

	return p.queryItems(ctx, query, ids)
}

func (p *PostgresFoodItemRepository) queryItems(ctx context.Context, query string, args ...any) ([]domain.FoodItem, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]domain.FoodItem, 0)

	for rows.Next() {
		var item domain.FoodItem

		err := rows.Scan(&item.ID, &item.Name, &item.Category, &item.Price, &item.IsActive)
		if err != nil {
			return nil, err
		}

		items = append(items, item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (p *PostgresFoodItemRepository) Create(ctx context.Context, item *domain.FoodItem) error {
	query := `
		INSERT INTO food_items (name, category, price, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	return p.db.QueryRow(ctx, query, item.Name, item.Category, item.Price, item.IsActive).Scan(&item.ID)
}
