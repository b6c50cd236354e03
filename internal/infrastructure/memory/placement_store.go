package memory

import (
	"context"

	"github.com/cymelle/backend/internal/domain/catalog"
	"github.com/cymelle/backend/internal/domain/order"
)

// PlacementStore commits an order together with its stock deductions as one
// unit against the in-memory repositories. Both repository locks are held for
// the duration of the commit, so concurrent placements against the same
// product serialize here.
type PlacementStore struct {
	products *ProductRepository
	orders   *OrderRepository
}

func NewPlacementStore(products *ProductRepository, orders *OrderRepository) *PlacementStore {
	return &PlacementStore{products: products, orders: orders}
}

// PlaceOrder validates every staged deduction before mutating anything.
// The deducted products carry the version they were loaded at; a version
// mismatch means another writer got in between the stock check and this
// commit, and the whole placement fails with ErrConflict leaving all stock
// untouched.
func (s *PlacementStore) PlaceOrder(ctx context.Context, o *order.Order, deducted []*catalog.Product) error {
	_ = ctx

	s.products.mu.Lock()
	defer s.products.mu.Unlock()
	s.orders.mu.Lock()
	defer s.orders.mu.Unlock()

	for _, p := range deducted {
		stored, ok := s.products.items[p.ID]
		if !ok {
			return catalog.ErrNotFound
		}
		if stored.Version != p.Version {
			return catalog.ErrConflict
		}
	}
	if _, exists := s.orders.orders[o.ID]; exists {
		return order.ErrConflict
	}

	for _, p := range deducted {
		clone := p.Clone()
		clone.Version++
		s.products.items[p.ID] = clone
	}

	s.orders.orders[o.ID] = o.Clone()
	s.orders.seq = append(s.orders.seq, o.ID)
	return nil
}
