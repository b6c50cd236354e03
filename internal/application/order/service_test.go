package order

import (
	"context"
	"testing"

	"github.com/cymelle/backend/internal/domain/catalog"
	domain "github.com/cymelle/backend/internal/domain/order"
	"github.com/cymelle/backend/internal/domain/user"
	"github.com/cymelle/backend/internal/infrastructure/id"
	"github.com/cymelle/backend/internal/infrastructure/memory"
	"github.com/cymelle/backend/internal/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	products *memory.ProductRepository
	orders   *memory.OrderRepository
	service  *Service
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	products := memory.NewProductRepository()
	orders := memory.NewOrderRepository()
	placement := memory.NewPlacementStore(products, orders)
	return &fixture{
		products: products,
		orders:   orders,
		service:  NewService(products, orders, placement, id.NewUUIDGenerator()),
	}
}

func (f *fixture) seedProduct(t *testing.T, productID string, price int64, stock int) {
	t.Helper()
	p, err := catalog.New(productID, "product "+productID, "", "misc", decimal.NewFromInt(price), stock)
	require.NoError(t, err)
	require.NoError(t, f.products.Create(context.Background(), p))
}

func (f *fixture) stock(t *testing.T, productID string) int {
	t.Helper()
	p, err := f.products.FindByID(context.Background(), productID)
	require.NoError(t, err)
	return p.Stock
}

var customer = &user.User{ID: "user-1", Email: "user@example.com", Role: user.RoleCustomer}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("deducts stock and snapshots prices", func(t *testing.T) {
		f := newFixture(t)
		f.seedProduct(t, "p1", 10, 5)
		f.seedProduct(t, "p2", 5, 3)

		placed, err := f.service.PlaceOrder(ctx, customer, PlaceOrderInput{
			Items: []ItemInput{
				{ProductID: "p1", Quantity: 2},
				{ProductID: "p2", Quantity: 1},
			},
		})
		require.NoError(t, err)

		assert.True(t, placed.TotalCost.Equal(decimal.NewFromInt(25)), "total = %s", placed.TotalCost)
		assert.Equal(t, domain.StatusPlaced, placed.Status)
		assert.Equal(t, domain.PaymentStatusPaid, placed.PaymentStatus)
		assert.Equal(t, 3, f.stock(t, "p1"))
		assert.Equal(t, 2, f.stock(t, "p2"))

		stored, err := f.orders.FindByID(ctx, placed.ID)
		require.NoError(t, err)
		require.Len(t, stored.Items, 2)
		assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	})

	t.Run("insufficient stock on a later item leaves all stock unchanged", func(t *testing.T) {
		f := newFixture(t)
		f.seedProduct(t, "p1", 10, 5)
		f.seedProduct(t, "p2", 5, 1)

		_, err := f.service.PlaceOrder(ctx, customer, PlaceOrderInput{
			Items: []ItemInput{
				{ProductID: "p1", Quantity: 2},
				{ProductID: "p2", Quantity: 2},
			},
		})

		var stockErr *catalog.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, "p2", stockErr.ProductID)
		assert.Equal(t, 5, f.stock(t, "p1"), "no partial deduction may be committed")
		assert.Equal(t, 1, f.stock(t, "p2"))

		page, err := f.orders.List(ctx, domain.Filter{}, pagination.Request{})
		require.NoError(t, err)
		assert.Zero(t, page.Total, "no order may be persisted")
	})

	t.Run("unknown product", func(t *testing.T) {
		f := newFixture(t)
		f.seedProduct(t, "p1", 10, 5)

		_, err := f.service.PlaceOrder(ctx, customer, PlaceOrderInput{
			Items: []ItemInput{
				{ProductID: "p1", Quantity: 1},
				{ProductID: "missing", Quantity: 1},
			},
		})

		require.ErrorIs(t, err, catalog.ErrNotFound)
		assert.Equal(t, 5, f.stock(t, "p1"))
	})

	t.Run("same product listed twice deducts cumulatively", func(t *testing.T) {
		f := newFixture(t)
		f.seedProduct(t, "p1", 10, 3)

		_, err := f.service.PlaceOrder(ctx, customer, PlaceOrderInput{
			Items: []ItemInput{
				{ProductID: "p1", Quantity: 2},
				{ProductID: "p1", Quantity: 2},
			},
		})

		var stockErr *catalog.InsufficientStockError
		require.ErrorAs(t, err, &stockErr)
		assert.Equal(t, 3, f.stock(t, "p1"))
	})

	t.Run("price captured at purchase time survives catalog changes", func(t *testing.T) {
		f := newFixture(t)
		f.seedProduct(t, "p1", 10, 5)

		placed, err := f.service.PlaceOrder(ctx, customer, PlaceOrderInput{
			Items: []ItemInput{{ProductID: "p1", Quantity: 1}},
		})
		require.NoError(t, err)

		p, err := f.products.FindByID(ctx, "p1")
		require.NoError(t, err)
		p.Price = decimal.NewFromInt(99)
		require.NoError(t, f.products.Update(ctx, p))

		stored, err := f.orders.FindByID(ctx, placed.ID)
		require.NoError(t, err)
		assert.True(t, stored.Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	})

	t.Run("empty item list", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.PlaceOrder(ctx, customer, PlaceOrderInput{})
		assert.ErrorIs(t, err, domain.ErrNoItems)
	})

	t.Run("missing actor", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.service.PlaceOrder(ctx, nil, PlaceOrderInput{
			Items: []ItemInput{{ProductID: "p1", Quantity: 1}},
		})
		assert.ErrorIs(t, err, domain.ErrUserRequired)
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedProduct(t, "p1", 10, 5)

	placed, err := f.service.PlaceOrder(ctx, customer, PlaceOrderInput{
		Items: []ItemInput{{ProductID: "p1", Quantity: 1}},
	})
	require.NoError(t, err)

	// Orders carry no transition guards: any status can follow any other.
	for _, status := range []domain.Status{domain.StatusDelivered, domain.StatusPlaced, domain.StatusCancelled} {
		updated, err := f.service.UpdateStatus(ctx, placed.ID, status)
		require.NoError(t, err)
		assert.Equal(t, status, updated.Status)
	}

	_, err = f.service.UpdateStatus(ctx, "missing", domain.StatusShipped)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListOrders(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedProduct(t, "p1", 10, 100)

	other := &user.User{ID: "user-2", Email: "other@example.com", Role: user.RoleCustomer}
	for _, actor := range []*user.User{customer, customer, other} {
		_, err := f.service.PlaceOrder(ctx, actor, PlaceOrderInput{
			Items: []ItemInput{{ProductID: "p1", Quantity: 1}},
		})
		require.NoError(t, err)
	}

	page, err := f.service.List(ctx, domain.Filter{UserID: "user-1"}, pagination.Request{Size: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.TotalPages())

	byEmail, err := f.service.List(ctx, domain.Filter{UserEmail: "other@example.com"}, pagination.Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byEmail.Total)

	byStatus, err := f.service.List(ctx, domain.Filter{UserID: "user-1", Status: domain.StatusPlaced}, pagination.Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byStatus.Total)
}
