package actor

import (
	"context"
	"errors"
)

// Actor is the identity performing the current operation. It is resolved once
// at the edge (HTTP middleware, job consumer) and threaded through
// context.Context; this subsystem never persists it beyond the deleted_by /
// changed_by style stamps on rows.
type Actor struct {
	ID string
}

// ErrNoActor is returned when a mutation requires an acting identity and none
// was attached to the context. There is deliberately no default identity.
var ErrNoActor = errors.New("no actor in context")

type ctxKey struct{}

// With returns a context carrying the given actor.
func With(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, ctxKey{}, a)
}

// FromContext resolves the actor attached to ctx.
func FromContext(ctx context.Context) (Actor, error) {
	a, ok := ctx.Value(ctxKey{}).(Actor)
	if !ok || a.ID == "" {
		return Actor{}, ErrNoActor
	}
	return a, nil
}
