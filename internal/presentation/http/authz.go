package httppresentation

import (
	"context"
	"errors"
	"net/http"

	"github.com/cymelle/backend/internal/domain/user"
)

// capability names one operation the API exposes. Each route is gated by
// exactly one capability, checked once before the core runs.
type capability string

const (
	capProductRead    capability = "product.read"
	capProductWrite   capability = "product.write"
	capOrderPlace     capability = "order.place"
	capOrderRead      capability = "order.read"
	capOrderSetStatus capability = "order.set_status"
	capRideRequest    capability = "ride.request"
	capRideRead       capability = "ride.read"
	capRideSetStatus  capability = "ride.set_status"
	capHealth         capability = "health"
)

var anyAuthenticated = []user.Role{user.RoleCustomer, user.RoleDriver, user.RoleAdmin}

// requiredRoles is the single authorization table for the whole API. A nil
// role set marks a public route. The core itself stays role-aware only where
// business rules intrinsically depend on identity.
var requiredRoles = map[capability][]user.Role{
	capProductRead:    nil,
	capProductWrite:   {user.RoleAdmin},
	capOrderPlace:     anyAuthenticated,
	capOrderRead:      anyAuthenticated,
	capOrderSetStatus: {user.RoleAdmin},
	capRideRequest:    anyAuthenticated,
	capRideRead:       anyAuthenticated,
	capRideSetStatus:  {user.RoleAdmin, user.RoleDriver},
	capHealth:         nil,
}

var (
	errUnauthenticated = errors.New("authentication required")
	errForbidden       = errors.New("insufficient role")
)

const (
	headerUserID    = "X-User-ID"
	headerUserRole  = "X-User-Role"
	headerUserEmail = "X-User-Email"
)

// actorFromRequest reads the identity the upstream gateway attached after
// authenticating the caller. The backend trusts these headers; it never
// verifies credentials itself.
func actorFromRequest(r *http.Request) (*user.User, error) {
	id := r.Header.Get(headerUserID)
	if id == "" {
		return nil, errUnauthenticated
	}
	role, err := user.ParseRole(r.Header.Get(headerUserRole))
	if err != nil {
		return nil, errUnauthenticated
	}
	return &user.User{
		ID:    id,
		Email: r.Header.Get(headerUserEmail),
		Role:  role,
	}, nil
}

// authorize checks the capability's role set against the actor. Public
// capabilities pass with or without an actor.
func authorize(cap capability, actor *user.User) error {
	roles, ok := requiredRoles[cap]
	if !ok {
		return errForbidden
	}
	if roles == nil {
		return nil
	}
	if actor == nil {
		return errUnauthenticated
	}
	for _, role := range roles {
		if actor.Role == role {
			return nil
		}
	}
	return errForbidden
}

type actorKey struct{}

func contextWithActor(ctx context.Context, actor *user.User) context.Context {
	if actor == nil {
		return ctx
	}
	return context.WithValue(ctx, actorKey{}, actor)
}

func actorFromContext(ctx context.Context) *user.User {
	actor, _ := ctx.Value(actorKey{}).(*user.User)
	return actor
}
