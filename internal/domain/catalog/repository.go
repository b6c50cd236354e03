package catalog

import (
	"context"

	"github.com/cymelle/backend/internal/pkg/pagination"
)

// Filter narrows product listings. Search matches name or category,
// case-insensitively.
type Filter struct {
	Search string
}

type Repository interface {
	Create(ctx context.Context, product *Product) error
	FindByID(ctx context.Context, id string) (*Product, error)
	// Update persists a modified product. It fails with ErrConflict when the
	// stored version no longer matches the one the product was loaded at.
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter Filter, page pagination.Request) (pagination.Page[*Product], error)
}
