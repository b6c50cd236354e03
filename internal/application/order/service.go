package order

import (
	"context"
	"errors"
	"fmt"

	"github.com/cymelle/backend/internal/domain/catalog"
	domain "github.com/cymelle/backend/internal/domain/order"
	"github.com/cymelle/backend/internal/domain/user"
	"github.com/cymelle/backend/internal/pkg/logging"
	"github.com/cymelle/backend/internal/pkg/pagination"
	"go.uber.org/zap"
)

type Service struct {
	products catalog.Repository
	orders   domain.Repository
	store    PlacementStore
	idGen    IDGenerator
}

func NewService(products catalog.Repository, orders domain.Repository, store PlacementStore, idGen IDGenerator) *Service {
	return &Service{
		products: products,
		orders:   orders,
		store:    store,
		idGen:    idGen,
	}
}

type ItemInput struct {
	ProductID string
	Quantity  int
}

type PlaceOrderInput struct {
	Items []ItemInput
}

// PlaceOrder validates every item against current stock, stages all
// deductions in memory, and commits the order with its deductions as one
// unit. Any failing item leaves all stock unchanged.
func (s *Service) PlaceOrder(ctx context.Context, actor *user.User, input PlaceOrderInput) (*domain.Order, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "order_service"))

	if actor == nil || actor.ID == "" {
		return nil, domain.ErrUserRequired
	}
	if len(input.Items) == 0 {
		return nil, domain.ErrNoItems
	}

	logger.Info("place_order_start",
		zap.String("user_id", actor.ID),
		zap.Int("item_count", len(input.Items)),
	)

	// Stage deductions per product so an order listing the same product twice
	// deducts from the already-staged stock, not the stored value.
	staged := make(map[string]*catalog.Product)
	var deducted []*catalog.Product
	items := make([]domain.Item, 0, len(input.Items))

	for _, req := range input.Items {
		if req.Quantity <= 0 {
			return nil, domain.ErrInvalidQuantity
		}

		product, ok := staged[req.ProductID]
		if !ok {
			var err error
			product, err = s.products.FindByID(ctx, req.ProductID)
			if err != nil {
				if errors.Is(err, catalog.ErrNotFound) {
					return nil, fmt.Errorf("product %s: %w", req.ProductID, err)
				}
				return nil, fmt.Errorf("order: load product %s: %w", req.ProductID, err)
			}
			staged[req.ProductID] = product
			deducted = append(deducted, product)
		}

		if err := product.Deduct(req.Quantity); err != nil {
			logger.Info("place_order_rejected",
				zap.String("product_id", req.ProductID),
				zap.Error(err),
			)
			return nil, err
		}

		items = append(items, domain.Item{
			ProductID: req.ProductID,
			Quantity:  req.Quantity,
			UnitPrice: product.Price,
		})
	}

	entity, err := domain.New(s.idGen.NewID(), actor.ID, actor.Email, items)
	if err != nil {
		return nil, err
	}

	if err := s.store.PlaceOrder(ctx, entity, deducted); err != nil {
		logger.Error("place_order_commit_failed",
			zap.String("order_id", entity.ID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("order: commit placement: %w", err)
	}

	logger.Info("place_order_success",
		zap.String("order_id", entity.ID),
		zap.String("total_cost", entity.TotalCost.String()),
	)
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Order, error) {
	if id == "" {
		return nil, domain.ErrNotFound
	}
	return s.orders.FindByID(ctx, id)
}

// UpdateStatus overwrites the order status unconditionally. Orders carry no
// transition guards; only rides do.
func (s *Service) UpdateStatus(ctx context.Context, id string, status domain.Status) (*domain.Order, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "order_service"))

	entity, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	entity.Status = status
	if err := s.orders.Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("order: update status: %w", err)
	}

	logger.Info("order_status_updated",
		zap.String("order_id", id),
		zap.String("status", string(status)),
	)
	return entity, nil
}

func (s *Service) List(ctx context.Context, filter domain.Filter, page pagination.Request) (pagination.Page[*domain.Order], error) {
	return s.orders.List(ctx, filter, page)
}
