package postgres

import (
	"context"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type MenuItemRepository struct {
	pool *pgxpool.Pool
}

func NewMenuItemRepository(pool *pgxpool.Pool) *MenuItemRepository {
	return &MenuItemRepository{pool: pool}
}

func (r *MenuItemRepository) BulkCreate(ctx context.Context, items []models.MenuItem) error {
	_, err := r.pool.CopyFrom(
		ctx,
		pgx.Identifier{"menu_items"},
		[]string{"id", "name", "category", "price_cents", "image_url"},
		pgx.CopyFromSlice(len(items), func(i int) ([]interface{}, error) {
			return []interface{}{
				items[i].ID,
				items[i].Name,
				string(items[i].Category),
				toCents(items[i].Price),
				items[i].ImageURL,
			}, nil
		}),
	)
	return err
}

func (r *MenuItemRepository) GetAll(ctx context.Context) ([]models.MenuItem, error) {
	query := `
        SELECT id, name, category, price_cents, image_url
        FROM menu_items
        ORDER BY id
    `
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var (
			item     models.MenuItem
			category string
			cents    int64
		)
		if err := rows.Scan(&item.ID, &item.Name, &category, &cents, &item.ImageURL); err != nil {
			return nil, err
		}
		item.Category = models.Category(category)
		item.Price = fromCents(cents)
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MenuItemRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE menu_items")
	return err
}
