package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/cymelle/backend/internal/domain/catalog"
	"github.com/cymelle/backend/internal/pkg/pagination"
)

type ProductRepository struct {
	mu    sync.RWMutex
	items map[string]*catalog.Product
	seq   []string
}

func NewProductRepository() *ProductRepository {
	return &ProductRepository{
		items: make(map[string]*catalog.Product),
	}
}

func (r *ProductRepository) Create(ctx context.Context, product *catalog.Product) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return catalog.ErrConflict
	}

	r.items[product.ID] = product.Clone()
	r.seq = append(r.seq, product.ID)
	return nil
}

func (r *ProductRepository) FindByID(ctx context.Context, id string) (*catalog.Product, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return product.Clone(), nil
}

func (r *ProductRepository) Update(ctx context.Context, product *catalog.Product) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.items[product.ID]
	if !ok {
		return catalog.ErrNotFound
	}
	if stored.Version != product.Version {
		return catalog.ErrConflict
	}

	clone := product.Clone()
	clone.Version++
	r.items[product.ID] = clone
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return catalog.ErrNotFound
	}

	delete(r.items, id)
	for i, existing := range r.seq {
		if existing == id {
			r.seq = append(r.seq[:i], r.seq[i+1:]...)
			break
		}
	}
	return nil
}

func (r *ProductRepository) List(ctx context.Context, filter catalog.Filter, page pagination.Request) (pagination.Page[*catalog.Product], error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*catalog.Product
	for _, id := range r.seq {
		product := r.items[id]
		if matchProduct(product, filter) {
			matched = append(matched, product.Clone())
		}
	}

	return pagination.Slice(matched, page), nil
}

func matchProduct(p *catalog.Product, f catalog.Filter) bool {
	if f.Search == "" {
		return true
	}
	needle := strings.ToLower(f.Search)
	return strings.Contains(strings.ToLower(p.Name), needle) ||
		strings.Contains(strings.ToLower(p.Category), needle)
}
