package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type FoodItem struct {
	ID       int
	Name     string
	Category string
	Price    decimal.Decimal
	IsActive bool
}

// FoodSelection is a finalized (item, quantity) pair inside a staging record
// or booking. The unit price is captured at selection time.
type FoodSelection struct {
	ItemID    int             `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

type FoodItemRepository interface {
	GetActive(ctx context.Context) ([]FoodItem, error)
	GetByIds(ctx context.Context, ids []int) ([]FoodItem, error)
	Create(ctx context.Context, item *FoodItem) error
}
