package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS menu_items (
        id          BIGINT PRIMARY KEY,
        name        TEXT NOT NULL,
        category    TEXT NOT NULL,
        price_cents BIGINT NOT NULL,
        image_url   TEXT NOT NULL,
        created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
    )`,
	`CREATE TABLE IF NOT EXISTS orders (
        id            TEXT PRIMARY KEY,
        customer_name TEXT NOT NULL,
        status        TEXT NOT NULL,
        total_cents   BIGINT NOT NULL,
        notes         TEXT NOT NULL DEFAULT '',
        created_at    TIMESTAMPTZ NOT NULL
    )`,
	`CREATE TABLE IF NOT EXISTS order_lines (
        order_id    TEXT NOT NULL REFERENCES orders (id) ON DELETE CASCADE,
        position    INT NOT NULL,
        item_id     BIGINT NOT NULL,
        name        TEXT NOT NULL,
        category    TEXT NOT NULL,
        price_cents BIGINT NOT NULL,
        image_url   TEXT NOT NULL,
        quantity    INT NOT NULL,
        PRIMARY KEY (order_id, position)
    )`,
}

// EnsureSchema creates the reporting tables when they are missing.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for _, stmt := range schema {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// Money is stored as integer cents.
func toCents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

func fromCents(c int64) decimal.Decimal {
	return decimal.New(c, -2)
}
