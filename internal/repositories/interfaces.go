// Package repositories exposes relational snapshots of the café state for
// reporting. The live state stays in the key-value store.
package repositories

import (
	"context"

	"github.com/chrisdamba/cafeorder/internal/models"
)

type MenuItemRepository interface {
	BulkCreate(ctx context.Context, items []models.MenuItem) error
	GetAll(ctx context.Context) ([]models.MenuItem, error)
	DeleteAll(ctx context.Context) error
}

type OrderRepository interface {
	BulkCreate(ctx context.Context, orders []models.Order) error
	GetAll(ctx context.Context) ([]models.Order, error)
	CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error)
	DeleteAll(ctx context.Context) error
}
