// Package session carries the authenticated user on a request context.
package session

import (
	"context"
	"errors"
)

var ErrAuthRequired = errors.New("authentication required")

// Principal is the current user as supplied by the authentication service.
type Principal struct {
	UserID string
	Email  string
	Name   string
	Role   string
}

type ctxKey struct{}

func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, ctxKey{}, p)
}

func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKey{}).(Principal)
	if !ok || p.UserID == "" {
		return Principal{}, false
	}
	return p, true
}

// Require returns the principal or ErrAuthRequired.
func Require(ctx context.Context) (Principal, error) {
	p, ok := FromContext(ctx)
	if !ok {
		return Principal{}, ErrAuthRequired
	}
	return p, nil
}
