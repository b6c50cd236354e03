package memory

import (
	"context"
	"sync"

	"github.com/cymelle/backend/internal/domain/ride"
	"github.com/cymelle/backend/internal/pkg/pagination"
)

type RideRepository struct {
	mu    sync.RWMutex
	rides map[string]*ride.Ride
	seq   []string
}

func NewRideRepository() *RideRepository {
	return &RideRepository{
		rides: make(map[string]*ride.Ride),
	}
}

func (r *RideRepository) Create(ctx context.Context, rd *ride.Ride) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.rides[rd.ID]; exists {
		return ride.ErrConflict
	}

	r.rides[rd.ID] = rd.Clone()
	r.seq = append(r.seq, rd.ID)
	return nil
}

func (r *RideRepository) FindByID(ctx context.Context, id string) (*ride.Ride, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	rd, ok := r.rides[id]
	if !ok {
		return nil, ride.ErrNotFound
	}
	return rd.Clone(), nil
}

func (r *RideRepository) Update(ctx context.Context, rd *ride.Ride) error {
	_ = ctx

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.rides[rd.ID]
	if !ok {
		return ride.ErrNotFound
	}
	if stored.Version != rd.Version {
		return ride.ErrConflict
	}

	clone := rd.Clone()
	clone.Version++
	r.rides[rd.ID] = clone
	return nil
}

func (r *RideRepository) List(ctx context.Context, filter ride.Filter, page pagination.Request) (pagination.Page[*ride.Ride], error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*ride.Ride
	for _, id := range r.seq {
		rd := r.rides[id]
		if matchRide(rd, filter) {
			matched = append(matched, rd.Clone())
		}
	}

	return pagination.Slice(matched, page), nil
}

func matchRide(rd *ride.Ride, f ride.Filter) bool {
	if f.CustomerID != "" && rd.CustomerID != f.CustomerID {
		return false
	}
	if f.CustomerEmail != "" && rd.CustomerEmail != f.CustomerEmail {
		return false
	}
	if f.Status != "" && rd.Status != f.Status {
		return false
	}
	return true
}
