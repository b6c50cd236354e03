package ride

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/cymelle/backend/internal/domain/ride"
	"github.com/cymelle/backend/internal/domain/user"
	"github.com/cymelle/backend/internal/pkg/logging"
	"github.com/cymelle/backend/internal/pkg/pagination"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ErrForbidden is returned when an actor may not view the requested ride.
var ErrForbidden = errors.New("ride: access denied")

type IDGenerator interface {
	NewID() string
}

type Service struct {
	rides    domain.Repository
	idGen    IDGenerator
	flatFare decimal.Decimal
}

func NewService(rides domain.Repository, idGen IDGenerator, flatFare decimal.Decimal) *Service {
	return &Service{
		rides:    rides,
		idGen:    idGen,
		flatFare: flatFare,
	}
}

type RequestRideInput struct {
	Pickup  string
	Dropoff string
}

// Request creates a ride in REQUESTED state with a zero fare and no driver.
func (s *Service) Request(ctx context.Context, customer *user.User, input RequestRideInput) (*domain.Ride, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "ride_service"))

	if customer == nil || customer.ID == "" {
		return nil, domain.ErrCustomerRequired
	}

	entity, err := domain.New(s.idGen.NewID(), customer.ID, customer.Email, input.Pickup, input.Dropoff)
	if err != nil {
		return nil, err
	}

	if err := s.rides.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("ride: create: %w", err)
	}

	logger.Info("ride_requested",
		zap.String("ride_id", entity.ID),
		zap.String("customer_id", customer.ID),
	)
	return entity, nil
}

// UpdateStatus runs the ride state machine. The transition either fully
// applies its side effects and new status, or makes no change at all; the
// persisting write re-checks the ride version, so two actors racing on the
// same ride surface a conflict rather than both succeeding.
func (s *Service) UpdateStatus(ctx context.Context, id string, to domain.Status, actor *user.User) (*domain.Ride, error) {
	logger := logging.FromContext(ctx).With(zap.String("component", "ride_service"))

	entity, err := s.rides.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := entity.Transition(to, actor, s.flatFare, time.Now()); err != nil {
		logger.Info("ride_transition_rejected",
			zap.String("ride_id", id),
			zap.String("requested_status", string(to)),
			zap.Error(err),
		)
		return nil, err
	}

	if err := s.rides.Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("ride: update status: %w", err)
	}

	logger.Info("ride_status_updated",
		zap.String("ride_id", id),
		zap.String("status", string(to)),
	)
	return entity, nil
}

// Get returns the ride if the actor is an admin, the requesting customer, or
// the assigned driver; anyone else is denied.
func (s *Service) Get(ctx context.Context, id string, actor *user.User) (*domain.Ride, error) {
	entity, err := s.rides.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canView(entity, actor) {
		return nil, ErrForbidden
	}
	return entity, nil
}

func canView(rd *domain.Ride, actor *user.User) bool {
	if actor == nil {
		return false
	}
	if actor.IsAdmin() {
		return true
	}
	return actor.ID == rd.CustomerID || (rd.DriverID != "" && actor.ID == rd.DriverID)
}

func (s *Service) List(ctx context.Context, filter domain.Filter, page pagination.Request) (pagination.Page[*domain.Ride], error) {
	return s.rides.List(ctx, filter, page)
}
