package ride

import (
	"fmt"
	"time"

	"github.com/cymelle/backend/internal/domain/user"
	"github.com/shopspring/decimal"
)

// TransitionError reports a status change rejected by the lifecycle rules.
type TransitionError struct {
	From   Status
	To     Status
	Reason string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("ride: cannot move from %s to %s: %s", e.From, e.To, e.Reason)
}

// guard validates one requested target status against the ride's current
// state and the acting user. A nil result means the transition is allowed.
type guard func(r *Ride, actor *user.User) *TransitionError

// transitionGuards is the full rule set of the ride lifecycle:
//
//	REQUESTED -> ACCEPTED  (not by the requesting customer)
//	ACCEPTED  -> COMPLETED
//	any state except COMPLETED -> CANCELLED
var transitionGuards = map[Status]guard{
	StatusAccepted: func(r *Ride, actor *user.User) *TransitionError {
		if r.Status != StatusRequested {
			return &TransitionError{From: r.Status, To: StatusAccepted,
				Reason: "a ride can only be accepted while it is requested"}
		}
		if actor == nil {
			return &TransitionError{From: r.Status, To: StatusAccepted,
				Reason: "accepting a ride requires an acting user"}
		}
		if actor.ID == r.CustomerID {
			return &TransitionError{From: r.Status, To: StatusAccepted,
				Reason: "a ride cannot be accepted by the customer who requested it"}
		}
		return nil
	},
	StatusCompleted: func(r *Ride, _ *user.User) *TransitionError {
		if r.Status != StatusAccepted {
			return &TransitionError{From: r.Status, To: StatusCompleted,
				Reason: "a ride can only be completed after it has been accepted"}
		}
		return nil
	},
	StatusCancelled: func(r *Ride, _ *user.User) *TransitionError {
		if r.Status == StatusCompleted {
			return &TransitionError{From: r.Status, To: StatusCancelled,
				Reason: "a completed ride cannot be cancelled"}
		}
		return nil
	},
}

// Transition moves the ride to the requested status, applying the side
// effects of the target state. Either the guard passes and the ride is fully
// updated, or the ride is left untouched. Re-requesting the current status
// re-runs the guards and may fail; transitions are not idempotent.
func (r *Ride) Transition(to Status, actor *user.User, fare decimal.Decimal, now time.Time) error {
	check, ok := transitionGuards[to]
	if !ok {
		return &TransitionError{From: r.Status, To: to,
			Reason: "unsupported target status"}
	}
	if err := check(r, actor); err != nil {
		return err
	}

	switch to {
	case StatusAccepted:
		r.DriverID = actor.ID
		r.Fare = fare
	case StatusCompleted:
		completed := now.UTC()
		r.CompletedAt = &completed
	}

	r.Status = to
	return nil
}
