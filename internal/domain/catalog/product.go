package catalog

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound        = errors.New("catalog: product not found")
	ErrConflict        = errors.New("catalog: product modified concurrently")
	ErrNameRequired    = errors.New("catalog: name is required")
	ErrNegativePrice   = errors.New("catalog: price must be zero or greater")
	ErrNegativeStock   = errors.New("catalog: stock must be zero or greater")
	ErrInvalidQuantity = errors.New("catalog: quantity must be greater than zero")
)

// InsufficientStockError reports a deduction that exceeds available stock.
type InsufficientStockError struct {
	ProductID string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("catalog: insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

// IsInsufficientStock reports whether err is an InsufficientStockError.
func IsInsufficientStock(err error) bool {
	var target *InsufficientStockError
	return errors.As(err, &target)
}

type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Version guards read-modify-write cycles on stock.
	Version int
}

func New(id, name, description, category string, price decimal.Decimal, stock int) (*Product, error) {
	if name == "" {
		return nil, ErrNameRequired
	}
	if price.IsNegative() {
		return nil, ErrNegativePrice
	}
	if stock < 0 {
		return nil, ErrNegativeStock
	}

	now := time.Now().UTC()
	return &Product{
		ID:          id,
		Name:        name,
		Description: description,
		Price:       price,
		Stock:       stock,
		Category:    category,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}, nil
}

// Deduct removes quantity units from stock. Stock never goes negative.
func (p *Product) Deduct(quantity int) error {
	if quantity <= 0 {
		return ErrInvalidQuantity
	}
	if quantity > p.Stock {
		return &InsufficientStockError{
			ProductID: p.ID,
			Requested: quantity,
			Available: p.Stock,
		}
	}
	p.Stock -= quantity
	p.touch()
	return nil
}

func (p *Product) touch() {
	p.UpdatedAt = time.Now().UTC()
}

func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}
