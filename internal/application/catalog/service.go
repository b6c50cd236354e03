package catalog

import (
	"context"
	"fmt"

	domain "github.com/cymelle/backend/internal/domain/catalog"
	"github.com/cymelle/backend/internal/pkg/logging"
	"github.com/cymelle/backend/internal/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type IDGenerator interface {
	NewID() string
}

type Service struct {
	products domain.Repository
	idGen    IDGenerator
}

func NewService(products domain.Repository, idGen IDGenerator) *Service {
	return &Service{products: products, idGen: idGen}
}

type ProductInput struct {
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Category    string
}

func (s *Service) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "catalog_service"))

	entity, err := domain.New(s.idGen.NewID(), input.Name, input.Description, input.Category, input.Price, input.Stock)
	if err != nil {
		return nil, err
	}

	if err := s.products.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("catalog: create product: %w", err)
	}

	logger.Info("product_created", zap.String("product_id", entity.ID))
	return entity, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	return s.products.FindByID(ctx, id)
}

func (s *Service) Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	entity, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if input.Price.IsNegative() {
		return nil, domain.ErrNegativePrice
	}
	if input.Stock < 0 {
		return nil, domain.ErrNegativeStock
	}

	entity.Name = input.Name
	entity.Description = input.Description
	entity.Price = input.Price
	entity.Stock = input.Stock
	entity.Category = input.Category

	if err := s.products.Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("catalog: update product: %w", err)
	}
	return entity, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	logger := logging.FromContext(ctx).With(zap.String("component", "catalog_service"))

	if err := s.products.Delete(ctx, id); err != nil {
		return err
	}

	logger.Info("product_deleted", zap.String("product_id", id))
	return nil
}

func (s *Service) List(ctx context.Context, filter domain.Filter, page pagination.Request) (pagination.Page[*domain.Product], error) {
	return s.products.List(ctx, filter, page)
}
