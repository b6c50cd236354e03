package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/cymelle/backend/internal/domain/catalog"
	"github.com/cymelle/backend/internal/pkg/pagination"
)

type ProductStore struct {
	db *sql.DB
}

func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

func (s *ProductStore) Create(ctx context.Context, p *catalog.Product) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO products (id, name, description, price, stock_quantity, category, created_at, updated_at, version)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.CreatedAt, p.UpdatedAt, p.Version)
	if err != nil {
		return fmt.Errorf("insert product: %w", err)
	}
	return nil
}

func (s *ProductStore) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	p := &catalog.Product{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, price, stock_quantity, category, created_at, updated_at, version
		 FROM products WHERE id = $1`,
		id).Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt, &p.Version)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, catalog.ErrNotFound
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

func (s *ProductStore) Update(ctx context.Context, p *catalog.Product) error {
	result, err := s.db.ExecContext(ctx,
		`UPDATE products
		 SET name = $1, description = $2, price = $3, stock_quantity = $4,
		     category = $5, updated_at = NOW(), version = version + 1
		 WHERE id = $6 AND version = $7`,
		p.Name, p.Description, p.Price, p.Stock, p.Category, p.ID, p.Version)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: rows affected: %w", err)
	}
	if affected == 0 {
		if _, findErr := s.FindByID(ctx, p.ID); findErr != nil {
			return findErr
		}
		return catalog.ErrConflict
	}
	return nil
}

func (s *ProductStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete product: rows affected: %w", err)
	}
	if affected == 0 {
		return catalog.ErrNotFound
	}
	return nil
}

func (s *ProductStore) List(ctx context.Context, filter catalog.Filter, page pagination.Request) (pagination.Page[*catalog.Product], error) {
	page = page.Normalize()

	where := ""
	args := []any{}
	if filter.Search != "" {
		where = `WHERE name ILIKE $1 OR category ILIKE $1`
		args = append(args, "%"+filter.Search+"%")
	}

	var total int64
	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM products `+where, args...).Scan(&total); err != nil {
		return pagination.Page[*catalog.Product]{}, fmt.Errorf("count products: %w", err)
	}

	query := fmt.Sprintf(
		`SELECT id, name, description, price, stock_quantity, category, created_at, updated_at, version
		 FROM products %s
		 ORDER BY created_at, id
		 LIMIT $%d OFFSET $%d`,
		where, len(args)+1, len(args)+2)
	args = append(args, page.Size, page.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return pagination.Page[*catalog.Product]{}, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []*catalog.Product
	for rows.Next() {
		p := &catalog.Product{}
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.CreatedAt, &p.UpdatedAt, &p.Version); err != nil {
			return pagination.Page[*catalog.Product]{}, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return pagination.Page[*catalog.Product]{}, fmt.Errorf("list products: %w", err)
	}

	return pagination.Page[*catalog.Product]{
		Items: products,
		Total: total,
		Page:  page.Page,
		Size:  page.Size,
	}, nil
}
