package ride

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound         = errors.New("ride: not found")
	ErrConflict         = errors.New("ride: modified concurrently")
	ErrCustomerRequired = errors.New("ride: customer is required")
	ErrPickupRequired   = errors.New("ride: pickup location is required")
	ErrDropoffRequired  = errors.New("ride: dropoff location is required")
)

type Status string

const (
	StatusRequested Status = "REQUESTED"
	StatusAccepted  Status = "ACCEPTED"
	StatusCompleted Status = "COMPLETED"
	StatusCancelled Status = "CANCELLED"
)

// ParseStatus maps a wire value onto a known ride status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusRequested, StatusAccepted, StatusCompleted, StatusCancelled:
		return Status(s), nil
	default:
		return "", fmt.Errorf("ride: unknown status %q", s)
	}
}

type Ride struct {
	ID            string
	CustomerID    string
	CustomerEmail string
	// DriverID is empty until the ride is accepted.
	DriverID    string
	Pickup      string
	Dropoff     string
	Fare        decimal.Decimal
	Status      Status
	RequestedAt time.Time
	// CompletedAt is set only when the ride reaches COMPLETED.
	CompletedAt *time.Time

	// Version guards read-check-write cycles on status.
	Version int
}

// New creates a requested ride with no driver and a zero fare.
func New(id, customerID, customerEmail, pickup, dropoff string) (*Ride, error) {
	if customerID == "" {
		return nil, ErrCustomerRequired
	}
	if strings.TrimSpace(pickup) == "" {
		return nil, ErrPickupRequired
	}
	if strings.TrimSpace(dropoff) == "" {
		return nil, ErrDropoffRequired
	}

	return &Ride{
		ID:            id,
		CustomerID:    customerID,
		CustomerEmail: customerEmail,
		Pickup:        pickup,
		Dropoff:       dropoff,
		Fare:          decimal.Zero,
		Status:        StatusRequested,
		RequestedAt:   time.Now().UTC(),
		Version:       1,
	}, nil
}

func (r *Ride) Clone() *Ride {
	if r == nil {
		return nil
	}
	clone := *r
	if r.CompletedAt != nil {
		t := *r.CompletedAt
		clone.CompletedAt = &t
	}
	return &clone
}
