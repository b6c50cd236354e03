package ride

import (
	"context"
	"testing"

	domain "github.com/cymelle/backend/internal/domain/ride"
	"github.com/cymelle/backend/internal/domain/user"
	"github.com/cymelle/backend/internal/infrastructure/id"
	"github.com/cymelle/backend/internal/infrastructure/memory"
	"github.com/cymelle/backend/internal/pkg/pagination"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	customer = &user.User{ID: "customer-1", Email: "customer@example.com", Role: user.RoleCustomer}
	driver   = &user.User{ID: "driver-1", Email: "driver@example.com", Role: user.RoleDriver}
	admin    = &user.User{ID: "admin-1", Email: "admin@example.com", Role: user.RoleAdmin}
)

func newService(t *testing.T) (*Service, *memory.RideRepository) {
	t.Helper()
	repo := memory.NewRideRepository()
	return NewService(repo, id.NewUUIDGenerator(), decimal.NewFromInt(25)), repo
}

func TestRideLifecycle(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	requested, err := svc.Request(ctx, customer, RequestRideInput{
		Pickup:  "Central Station",
		Dropoff: "Airport",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRequested, requested.Status)
	assert.True(t, requested.Fare.IsZero())

	// The requesting customer may not accept their own ride.
	_, err = svc.UpdateStatus(ctx, requested.ID, domain.StatusAccepted, customer)
	var transitionErr *domain.TransitionError
	require.ErrorAs(t, err, &transitionErr)

	accepted, err := svc.UpdateStatus(ctx, requested.ID, domain.StatusAccepted, driver)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAccepted, accepted.Status)
	assert.Equal(t, driver.ID, accepted.DriverID)
	assert.True(t, accepted.Fare.Equal(decimal.NewFromInt(25)))

	// Accepting twice is not idempotent.
	_, err = svc.UpdateStatus(ctx, requested.ID, domain.StatusAccepted, driver)
	require.ErrorAs(t, err, &transitionErr)

	completed, err := svc.UpdateStatus(ctx, requested.ID, domain.StatusCompleted, driver)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, completed.Status)
	require.NotNil(t, completed.CompletedAt)

	_, err = svc.UpdateStatus(ctx, requested.ID, domain.StatusCancelled, driver)
	require.ErrorAs(t, err, &transitionErr)
}

func TestRequestValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	_, err := svc.Request(ctx, customer, RequestRideInput{Pickup: " ", Dropoff: "Airport"})
	assert.ErrorIs(t, err, domain.ErrPickupRequired)

	_, err = svc.Request(ctx, nil, RequestRideInput{Pickup: "A", Dropoff: "B"})
	assert.ErrorIs(t, err, domain.ErrCustomerRequired)
}

func TestUpdateStatusUnknownRide(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.UpdateStatus(context.Background(), "missing", domain.StatusAccepted, driver)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetViewRule(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	requested, err := svc.Request(ctx, customer, RequestRideInput{Pickup: "A", Dropoff: "B"})
	require.NoError(t, err)
	_, err = svc.UpdateStatus(ctx, requested.ID, domain.StatusAccepted, driver)
	require.NoError(t, err)

	for name, actor := range map[string]*user.User{
		"customer": customer,
		"driver":   driver,
		"admin":    admin,
	} {
		t.Run(name, func(t *testing.T) {
			got, err := svc.Get(ctx, requested.ID, actor)
			require.NoError(t, err)
			assert.Equal(t, requested.ID, got.ID)
		})
	}

	t.Run("unrelated user", func(t *testing.T) {
		stranger := &user.User{ID: "stranger-1", Role: user.RoleCustomer}
		_, err := svc.Get(ctx, requested.ID, stranger)
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestListRides(t *testing.T) {
	ctx := context.Background()
	svc, _ := newService(t)

	other := &user.User{ID: "customer-2", Email: "second@example.com", Role: user.RoleCustomer}
	for _, c := range []*user.User{customer, customer, other} {
		_, err := svc.Request(ctx, c, RequestRideInput{Pickup: "A", Dropoff: "B"})
		require.NoError(t, err)
	}

	page, err := svc.List(ctx, domain.Filter{CustomerID: customer.ID}, pagination.Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	byEmail, err := svc.List(ctx, domain.Filter{CustomerEmail: "second@example.com", Status: domain.StatusRequested}, pagination.Request{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), byEmail.Total)

	all, err := svc.List(ctx, domain.Filter{}, pagination.Request{Size: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), all.Total)
	assert.Len(t, all.Items, 2)
}
