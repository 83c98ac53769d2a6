package postgres

import (
	"context"
	"fmt"

	"github.com/chrisdamba/cafeorder/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	pool *pgxpool.Pool
}

func NewOrderRepository(pool *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{pool: pool}
}

// BulkCreate copies the orders and their line snapshots in one transaction.
func (r *OrderRepository) BulkCreate(ctx context.Context, orders []models.Order) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"orders"},
		[]string{"id", "customer_name", "status", "total_cents", "notes", "created_at"},
		pgx.CopyFromSlice(len(orders), func(i int) ([]interface{}, error) {
			return []interface{}{
				orders[i].ID,
				orders[i].CustomerName,
				string(orders[i].Status),
				toCents(orders[i].Total),
				orders[i].Notes,
				orders[i].CreatedAt,
			}, nil
		}),
	)
	if err != nil {
		return fmt.Errorf("failed to copy orders: %w", err)
	}

	var lines [][]interface{}
	for _, o := range orders {
		for pos, line := range o.Items {
			lines = append(lines, []interface{}{
				o.ID,
				int32(pos),
				line.ID,
				line.Name,
				string(line.Category),
				toCents(line.Price),
				line.ImageURL,
				int32(line.Quantity),
			})
		}
	}
	_, err = tx.CopyFrom(
		ctx,
		pgx.Identifier{"order_lines"},
		[]string{"order_id", "position", "item_id", "name", "category", "price_cents", "image_url", "quantity"},
		pgx.CopyFromRows(lines),
	)
	if err != nil {
		return fmt.Errorf("failed to copy order lines: %w", err)
	}

	return tx.Commit(ctx)
}

// GetAll returns orders newest first with their lines in placement order.
func (r *OrderRepository) GetAll(ctx context.Context) ([]models.Order, error) {
	rows, err := r.pool.Query(ctx, `
        SELECT id, customer_name, status, total_cents, notes, created_at
        FROM orders
        ORDER BY created_at DESC, id
    `)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	index := make(map[string]int)
	for rows.Next() {
		var (
			o      models.Order
			status string
			cents  int64
		)
		if err := rows.Scan(&o.ID, &o.CustomerName, &status, &cents, &o.Notes, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.Status = models.OrderStatus(status)
		o.Total = fromCents(cents)
		index[o.ID] = len(orders)
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	lineRows, err := r.pool.Query(ctx, `
        SELECT order_id, item_id, name, category, price_cents, image_url, quantity
        FROM order_lines
        ORDER BY order_id, position
    `)
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var (
			orderID  string
			line     models.CartItem
			category string
			cents    int64
			quantity int32
		)
		if err := lineRows.Scan(&orderID, &line.ID, &line.Name, &category, &cents, &line.ImageURL, &quantity); err != nil {
			return nil, err
		}
		line.Category = models.Category(category)
		line.Price = fromCents(cents)
		line.Quantity = int(quantity)
		if i, ok := index[orderID]; ok {
			orders[i].Items = append(orders[i].Items, line)
		}
	}
	return orders, lineRows.Err()
}

func (r *OrderRepository) CountByStatus(ctx context.Context) (map[models.OrderStatus]int, error) {
	rows, err := r.pool.Query(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.OrderStatus]int)
	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[models.OrderStatus(status)] = count
	}
	return counts, rows.Err()
}

func (r *OrderRepository) DeleteAll(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, "TRUNCATE TABLE orders, order_lines")
	return err
}
