package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/example/taskapi/internal/ports/primary"
)

// AuditAdapter prints the audit trail.
type AuditAdapter struct {
	service   primary.AuditService
	principal primary.Principal
	out       io.Writer
}

// NewAuditAdapter creates a new AuditAdapter with the given service.
func NewAuditAdapter(service primary.AuditService, principal primary.Principal, out io.Writer) *AuditAdapter {
	return &AuditAdapter{service: service, principal: principal, out: out}
}

// List prints audit entries, newest first.
func (a *AuditAdapter) List(ctx context.Context, filters primary.AuditFilters) ([]*primary.AuditEntry, error) {
	entries, err := a.service.ListEntries(ctx, a.principal, filters)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No audit entries found.")
		return entries, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TIME\tACTOR\tACTION\tENTITY\tCHANGE")

	for _, e := range entries {
		change := ""
		if e.FieldName != "" {
			change = fmt.Sprintf("%s: %q → %q", e.FieldName, e.OldValue, e.NewValue)
		}
		actor := e.ActorID
		if actor == "" {
			actor = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s %s\t%s\n",
			e.CreatedAt.Format("2006-01-02 15:04:05"),
			actor,
			e.Action,
			e.EntityType,
			e.EntityID,
			change,
		)
	}

	w.Flush()
	return entries, nil
}
