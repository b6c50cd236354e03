package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cymelle/backend/internal/domain/catalog"
	"github.com/cymelle/backend/internal/domain/order"
	"github.com/cymelle/backend/internal/pkg/pagination"
)

type OrderStore struct {
	db *sql.DB
}

func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

// PlaceOrder inserts the order with its items and applies every stock
// deduction inside one transaction. Each deduction is guarded by the version
// the product was read at; any guard miss rolls the whole placement back.
func (s *OrderStore) PlaceOrder(ctx context.Context, o *order.Order, deducted []*catalog.Product) error {
	return WithTransaction(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO orders (id, user_id, user_email, status, payment_status, total_cost, ordered_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ID, o.UserID, o.UserEmail, o.Status, o.PaymentStatus, o.TotalCost, o.OrderedAt)
		if err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		for _, item := range o.Items {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, product_id, quantity, unit_price)
				 VALUES ($1, $2, $3, $4)`,
				o.ID, item.ProductID, item.Quantity, item.UnitPrice)
			if err != nil {
				return fmt.Errorf("insert order item: %w", err)
			}
		}

		for _, p := range deducted {
			result, err := tx.ExecContext(ctx,
				`UPDATE products
				 SET stock_quantity = $1, updated_at = NOW(), version = version + 1
				 WHERE id = $2 AND version = $3 AND stock_quantity >= $1`,
				p.Stock, p.ID, p.Version)
			if err != nil {
				return fmt.Errorf("deduct stock for product %s: %w", p.ID, err)
			}

			affected, err := result.RowsAffected()
			if err != nil {
				return fmt.Errorf("deduct stock: rows affected: %w", err)
			}
			if affected == 0 {
				return catalog.ErrConflict
			}
		}

		return nil
	})
}

func (s *OrderStore) FindByID(ctx context.Context, id string) (*order.Order, error) {
	o := &order.Order{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, user_email, status, payment_status, total_cost, ordered_at
		 FROM orders WHERE id = $1`,
		id).Scan(&o.ID, &o.UserID, &o.UserEmail, &o.Status, &o.PaymentStatus, &o.TotalCost, &o.OrderedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, order.ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := s.itemsFor(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (s *OrderStore) itemsFor(ctx context.Context, orderID string) ([]order.Item, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT product_id, quantity, unit_price
		 FROM order_items WHERE order_id = $1 ORDER BY id`,
		orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var item order.Item
		if err := rows.Scan(&item.ProductID, &item.Quantity, &item.UnitPrice); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	return items, nil
}

func (s *OrderStore) Update(ctx context.Context, o *order.Order) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = $1, payment_status = $2 WHERE id = $3`,
		o.Status, o.PaymentStatus, o.ID)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update order: rows affected: %w", err)
	}
	if affected == 0 {
		return order.ErrNotFound
	}
	return nil
}

func (s *OrderStore) List(ctx context.Context, filter order.Filter, page pagination.Request) (pagination.Page[*order.Order], error) {
	page = page.Normalize()

	where, args := orderFilterClause(filter)

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders `+where, args...).Scan(&total); err != nil {
		return pagination.Page[*order.Order]{}, fmt.Errorf("count orders: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, user_id, user_email, status, payment_status, total_cost, ordered_at
		 FROM orders %s
		 ORDER BY seq
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return pagination.Page[*order.Order]{}, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*order.Order
	for rows.Next() {
		o := &order.Order{}
		if err := rows.Scan(&o.ID, &o.UserID, &o.UserEmail, &o.Status, &o.PaymentStatus, &o.TotalCost, &o.OrderedAt); err != nil {
			return pagination.Page[*order.Order]{}, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*order.Order]{}, fmt.Errorf("list orders: %w", err)
	}

	for _, o := range orders {
		items, err := s.itemsFor(ctx, o.ID)
		if err != nil {
			return pagination.Page[*order.Order]{}, err
		}
		o.Items = items
	}

	return pagination.Page[*order.Order]{
		Items: orders,
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
	}, nil
}

func orderFilterClause(filter order.Filter) (string, []any) {
	where := ""
	var args []any
	add := func(cond string, val any) {
		args = append(args, val)
		if where == "" {
			where = fmt.Sprintf("WHERE %s $%d", cond, len(args))
		} else {
			where += fmt.Sprintf(" AND %s $%d", cond, len(args))
		}
	}

	if filter.UserID != "" {
		add("user_id =", filter.UserID)
	}
	if filter.UserEmail != "" {
		add("user_email =", filter.UserEmail)
	}
	if filter.Status != "" {
		add("status =", string(filter.Status))
	}
	return where, args
}
