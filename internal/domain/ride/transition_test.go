package ride

import (
	"testing"
	"time"

	"github.com/cymelle/backend/internal/domain/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var flatFare = decimal.NewFromInt(25)

func newTestRide(t *testing.T, status Status) *Ride {
	t.Helper()
	rd, err := New("ride-1", "customer-1", "customer@example.com", "Central Station", "Airport")
	require.NoError(t, err)
	rd.Status = status
	return rd
}

func TestTransitionAccept(t *testing.T) {
	driver := &user.User{ID: "driver-1", Role: user.RoleDriver}

	t.Run("from requested by another user", func(t *testing.T) {
		rd := newTestRide(t, StatusRequested)

		err := rd.Transition(StatusAccepted, driver, flatFare, time.Now())
		require.NoError(t, err)

		assert.Equal(t, StatusAccepted, rd.Status)
		assert.Equal(t, "driver-1", rd.DriverID)
		assert.True(t, rd.Fare.Equal(flatFare))
	})

	t.Run("by the requesting customer", func(t *testing.T) {
		rd := newTestRide(t, StatusRequested)
		customer := &user.User{ID: "customer-1", Role: user.RoleCustomer}

		err := rd.Transition(StatusAccepted, customer, flatFare, time.Now())

		var transitionErr *TransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, StatusRequested, transitionErr.From)
		assert.Equal(t, StatusAccepted, transitionErr.To)
		assert.Equal(t, StatusRequested, rd.Status)
		assert.Empty(t, rd.DriverID)
		assert.True(t, rd.Fare.IsZero())
	})

	t.Run("already accepted", func(t *testing.T) {
		rd := newTestRide(t, StatusAccepted)

		err := rd.Transition(StatusAccepted, driver, flatFare, time.Now())

		var transitionErr *TransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, StatusAccepted, transitionErr.From)
	})

	t.Run("already cancelled", func(t *testing.T) {
		rd := newTestRide(t, StatusCancelled)

		err := rd.Transition(StatusAccepted, driver, flatFare, time.Now())
		var transitionErr *TransitionError
		require.ErrorAs(t, err, &transitionErr)
	})
}

func TestTransitionComplete(t *testing.T) {
	driver := &user.User{ID: "driver-1", Role: user.RoleDriver}
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("from accepted", func(t *testing.T) {
		rd := newTestRide(t, StatusAccepted)

		err := rd.Transition(StatusCompleted, driver, flatFare, now)
		require.NoError(t, err)

		assert.Equal(t, StatusCompleted, rd.Status)
		require.NotNil(t, rd.CompletedAt)
		assert.Equal(t, now, *rd.CompletedAt)
	})

	t.Run("from requested", func(t *testing.T) {
		rd := newTestRide(t, StatusRequested)

		err := rd.Transition(StatusCompleted, driver, flatFare, now)

		var transitionErr *TransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Nil(t, rd.CompletedAt)
		assert.Equal(t, StatusRequested, rd.Status)
	})
}

func TestTransitionCancel(t *testing.T) {
	actor := &user.User{ID: "customer-1", Role: user.RoleCustomer}

	for _, from := range []Status{StatusRequested, StatusAccepted} {
		t.Run("from "+string(from), func(t *testing.T) {
			rd := newTestRide(t, from)

			err := rd.Transition(StatusCancelled, actor, flatFare, time.Now())
			require.NoError(t, err)
			assert.Equal(t, StatusCancelled, rd.Status)
		})
	}

	t.Run("from completed", func(t *testing.T) {
		rd := newTestRide(t, StatusCompleted)

		err := rd.Transition(StatusCancelled, actor, flatFare, time.Now())

		var transitionErr *TransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, StatusCompleted, rd.Status)
	})
}

func TestTransitionUnsupportedTarget(t *testing.T) {
	rd := newTestRide(t, StatusAccepted)

	err := rd.Transition(StatusRequested, &user.User{ID: "driver-1"}, flatFare, time.Now())

	var transitionErr *TransitionError
	require.ErrorAs(t, err, &transitionErr)
	assert.Equal(t, StatusAccepted, rd.Status)
}

func TestNewRideValidation(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		rd, err := New("ride-1", "customer-1", "c@example.com", "A", "B")
		require.NoError(t, err)
		assert.Equal(t, StatusRequested, rd.Status)
		assert.True(t, rd.Fare.IsZero())
		assert.Empty(t, rd.DriverID)
		assert.False(t, rd.RequestedAt.IsZero())
		assert.Nil(t, rd.CompletedAt)
	})

	t.Run("blank pickup", func(t *testing.T) {
		_, err := New("ride-1", "customer-1", "c@example.com", "   ", "B")
		assert.ErrorIs(t, err, ErrPickupRequired)
	})

	t.Run("blank dropoff", func(t *testing.T) {
		_, err := New("ride-1", "customer-1", "c@example.com", "A", "")
		assert.ErrorIs(t, err, ErrDropoffRequired)
	})

	t.Run("missing customer", func(t *testing.T) {
		_, err := New("ride-1", "", "", "A", "B")
		assert.ErrorIs(t, err, ErrCustomerRequired)
	})
}
