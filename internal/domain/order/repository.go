package order

import (
	"context"

	"github.com/cymelle/backend/internal/pkg/pagination"
)

// Filter narrows order listings. Zero-valued fields are ignored; set fields
// combine with AND.
type Filter struct {
	UserID    string
	UserEmail string
	Status    Status
}

type Repository interface {
	FindByID(ctx context.Context, id string) (*Order, error)
	// Update overwrites an existing order; fails with ErrNotFound if absent.
	Update(ctx context.Context, order *Order) error
	// List returns matching orders in insertion order with a total count.
	List(ctx context.Context, filter Filter, page pagination.Request) (pagination.Page[*Order], error)
}
