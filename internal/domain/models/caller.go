package models

import (
	"context"

	"github.com/Temutjin2k/dispatch-engine/internal/domain/types"
)

// Caller is the pre-validated identity behind a callable operation.
type Caller struct {
	Authenticated bool
	Identity      string
	Admin         bool
}

// Actor is the name recorded on writes made on behalf of the caller.
func (c Caller) Actor() string {
	if c.Identity == "" {
		return types.AdminIdentity
	}
	return c.Identity
}

type callerKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext returns the caller stored by the auth middleware, or an anonymous one.
func CallerFromContext(ctx context.Context) Caller {
	if c, ok := ctx.Value(callerKey{}).(Caller); ok {
		return c
	}
	return Caller{}
}
