package order

import (
	"context"

	"github.com/cymelle/backend/internal/domain/catalog"
	domain "github.com/cymelle/backend/internal/domain/order"
)

type IDGenerator interface {
	NewID() string
}

// PlacementStore commits an order together with all of its stock deductions
// as a single unit of work. Implementations must re-check the deducted
// products against their stored versions and fail the whole placement with
// catalog.ErrConflict on any mismatch, leaving stock untouched.
type PlacementStore interface {
	PlaceOrder(ctx context.Context, order *domain.Order, deducted []*catalog.Product) error
}
