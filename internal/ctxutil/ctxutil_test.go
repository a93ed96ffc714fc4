package ctxutil

import (
	"context"
	"testing"

	"github.com/example/taskapi/internal/core/authz"
	"github.com/example/taskapi/internal/ports/primary"
)

func TestPrincipalRoundTrip(t *testing.T) {
	ctx := context.Background()
	if PrincipalFromContext(ctx).Authenticated() {
		t.Error("empty context must yield an unauthenticated principal")
	}

	p := primary.Principal{ID: "u-1", Name: "Ada", Role: authz.RoleUser}
	if got := PrincipalFromContext(WithPrincipal(ctx, p)); got != p {
		t.Errorf("got %+v, want %+v", got, p)
	}
}

func TestRequestID(t *testing.T) {
	if id := RequestIDFromContext(context.Background()); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}
	if id := RequestIDFromContext(WithRequestID(context.Background(), "req-1")); id != "req-1" {
		t.Errorf("expected req-1, got %q", id)
	}
}
