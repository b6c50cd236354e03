package ride

import (
	"context"

	"github.com/cymelle/backend/internal/pkg/pagination"
)

// Filter narrows ride listings. Zero-valued fields are ignored; set fields
// combine with AND.
type Filter struct {
	CustomerID    string
	CustomerEmail string
	Status        Status
}

type Repository interface {
	Create(ctx context.Context, ride *Ride) error
	FindByID(ctx context.Context, id string) (*Ride, error)
	// Update persists a transitioned ride. It fails with ErrConflict when the
	// stored version no longer matches the one the ride was loaded at.
	Update(ctx context.Context, ride *Ride) error
	// List returns matching rides in insertion order with a total count.
	List(ctx context.Context, filter Filter, page pagination.Request) (pagination.Page[*Ride], error)
}
