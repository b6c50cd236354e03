package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables this store needs. Schema evolution beyond
// first boot is handled outside this service.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS products (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price NUMERIC(12,2) NOT NULL CHECK (price >= 0),
			stock_quantity INTEGER NOT NULL CHECK (stock_quantity >= 0),
			category TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			version INTEGER NOT NULL DEFAULT 1
		)`,
		`CREATE TABLE IF NOT EXISTS orders (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			user_email TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL,
			payment_status TEXT NOT NULL,
			total_cost NUMERIC(12,2) NOT NULL,
			ordered_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			seq BIGSERIAL
		)`,
		`CREATE TABLE IF NOT EXISTS order_items (
			id BIGSERIAL PRIMARY KEY,
			order_id TEXT NOT NULL REFERENCES orders(id),
			product_id TEXT NOT NULL REFERENCES products(id),
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			unit_price NUMERIC(12,2) NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS rides (
			id TEXT PRIMARY KEY,
			customer_id TEXT NOT NULL,
			customer_email TEXT NOT NULL DEFAULT '',
			driver_id TEXT,
			pickup TEXT NOT NULL,
			dropoff TEXT NOT NULL,
			fare NUMERIC(12,2) NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			requested_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			completed_at TIMESTAMPTZ,
			version INTEGER NOT NULL DEFAULT 1,
			seq BIGSERIAL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
