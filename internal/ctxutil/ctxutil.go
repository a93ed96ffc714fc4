// Package ctxutil carries request-scoped values between HTTP middleware and handlers.
// Services never read from it; they take the principal as an explicit argument.
package ctxutil

import (
	"context"

	"github.com/example/taskapi/internal/ports/primary"
)

// PrincipalKey is the context key for the authenticated principal.
type PrincipalKey struct{}

// RequestIDKey is the context key for the request ID.
type RequestIDKey struct{}

// WithPrincipal returns a context with the principal embedded.
func WithPrincipal(ctx context.Context, p primary.Principal) context.Context {
	return context.WithValue(ctx, PrincipalKey{}, p)
}

// PrincipalFromContext returns the principal from context, or the zero
// (unauthenticated) principal if not set.
func PrincipalFromContext(ctx context.Context) primary.Principal {
	if v, ok := ctx.Value(PrincipalKey{}).(primary.Principal); ok {
		return v
	}
	return primary.Principal{}
}

// WithRequestID returns a context with the request ID embedded.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey{}, id)
}

// RequestIDFromContext returns the request ID from context, or empty string if not set.
func RequestIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(RequestIDKey{}).(string); ok {
		return v
	}
	return ""
}
