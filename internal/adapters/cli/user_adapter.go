package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/taskapi/internal/ports/primary"
)

// UserAdapter is a thin adapter that translates CLI operations to UserService calls.
// Every call runs as the given principal.
type UserAdapter struct {
	service   primary.UserService
	principal primary.Principal
	out       io.Writer
}

// NewUserAdapter creates a new UserAdapter with the given service.
func NewUserAdapter(service primary.UserService, principal primary.Principal, out io.Writer) *UserAdapter {
	return &UserAdapter{
		service:   service,
		principal: principal,
		out:       out,
	}
}

// Create creates a user with an explicit role.
func (a *UserAdapter) Create(ctx context.Context, name, email, password, role string) (*primary.User, error) {
	u, err := a.service.Create(ctx, a.principal, primary.CreateUserRequest{
		Name:     &name,
		Email:    &email,
		Password: &password,
		Role:     &role,
	})
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Created user %s: %s <%s> (%s)\n", color.GreenString("✓"), u.ID, u.Name, u.Email, u.Role)
	return u, nil
}

// List lists users, optionally filtered by a search term.
func (a *UserAdapter) List(ctx context.Context, search string) ([]*primary.User, error) {
	var users []*primary.User
	if search == "" {
		all, err := a.service.FindAll(ctx, a.principal)
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		users = all
	} else {
		page, err := a.service.FindAllMatches(ctx, a.principal, primary.MatchQuery{Search: search, PerPage: 100})
		if err != nil {
			return nil, fmt.Errorf("failed to list users: %w", err)
		}
		users = page.Items
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first user:")
		fmt.Fprintln(a.out, "  taskapi user create --name Ada --email ada@example.com --password secret123 --role administrator")
		return users, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL\tROLE")
	fmt.Fprintln(w, "--\t----\t-----\t----")

	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			u.ID,
			u.Name,
			u.Email,
			u.Role,
		)
	}

	w.Flush()
	return users, nil
}

// Delete deletes a user and everything they own.
func (a *UserAdapter) Delete(ctx context.Context, userID string) error {
	u, err := a.service.FindOne(ctx, a.principal, userID)
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if err := a.service.Delete(ctx, a.principal, userID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Deleted user %s: %s\n", color.GreenString("✓"), u.ID, u.Name)
	return nil
}
