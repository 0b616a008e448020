// Package correlationid propagates a per-request correlation id through
// context. The HTTP middleware sets it; the log handler reads it.
package correlationid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header carrying the correlation id.
const Header = "X-Correlation-Id"

type ctxKey struct{}

// New generates a new correlation id.
func New() string {
	return uuid.NewString()
}

// WithContext returns a copy of ctx carrying the correlation id.
func WithContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// FromContext extracts the correlation id from ctx, if any.
func FromContext(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok
}
