package memory

import (
	"context"
	"sync"

	"github.com/cymelle/backend/internal/domain/order"
	"github.com/cymelle/backend/internal/pkg/pagination"
)

type OrderRepository struct {
	mu     sync.RWMutex
	orders map[string]*order.Order
	seq    []string
}

func NewOrderRepository() *OrderRepository {
	return &OrderRepository{
		orders: make(map[string]*order.Order),
	}
}

func (r *OrderRepository) FindByID(ctx context.Context, id string) (*order.Order, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, order.ErrNotFound
	}
	return o.Clone(), nil
}

func (r *OrderRepository) Update(ctx context.Context, o *order.Order) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[o.ID]; !ok {
		return order.ErrNotFound
	}

	r.orders[o.ID] = o.Clone()
	return nil
}

func (r *OrderRepository) List(ctx context.Context, filter order.Filter, page pagination.Request) (pagination.Page[*order.Order], error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*order.Order
	for _, id := range r.seq {
		o := r.orders[id]
		if matchOrder(o, filter) {
			matched = append(matched, o.Clone())
		}
	}

	return pagination.Slice(matched, page), nil
}

func matchOrder(o *order.Order, f order.Filter) bool {
	if f.UserID != "" && o.UserID != f.UserID {
		return false
	}
	if f.UserEmail != "" && o.UserEmail != f.UserEmail {
		return false
	}
	if f.Status != "" && o.Status != f.Status {
		return false
	}
	return true
}
