// Package auth provides request authentication and the per-request actor
// identity passed into every clinic service operation. There is no ambient
// session; handlers extract the actor from context and hand it down.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Clinic roles.
const (
	RoleNurse     = "nurse"
	RolePhysician = "physician"
	RoleAdmin     = "admin"
)

// Actor identifies who is performing an operation.
type Actor struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Role string    `json:"role"`
}

// IsAdmin reports whether the actor carries the admin role.
func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// HasRole reports whether the actor's role matches any of the given roles.
// Admin passes every role check.
func (a Actor) HasRole(roles ...string) bool {
	if a.IsAdmin() {
		return true
	}
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

type contextKey string

const actorKey contextKey = "actor"

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFromContext retrieves the authenticated actor. The zero Actor is
// returned when no authentication middleware ran.
func ActorFromContext(ctx context.Context) Actor {
	actor, _ := ctx.Value(actorKey).(Actor)
	return actor
}
