package app

import (
	"context"
	"log/slog"

	"github.com/example/taskapi/internal/apperr"
	"github.com/example/taskapi/internal/core/authz"
	"github.com/example/taskapi/internal/ports/primary"
)

// surface passes taxonomy errors through unchanged. Anything else is a storage
// or infrastructure failure: it is logged with its cause and replaced by a
// generic internal error.
func surface(ctx context.Context, logger *slog.Logger, op string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}
	logger.ErrorContext(ctx, "operation failed", "op", op, "error", err)
	return apperr.Internal()
}

// authorize runs the authorization gate for principal.
func authorize(principal primary.Principal, resource authz.Resource, action authz.Action) error {
	return authz.Authorize(authz.AuthorizeContext{
		PrincipalID: principal.ID,
		Role:        principal.Role,
		Resource:    resource,
		Action:      action,
	}).Error()
}
