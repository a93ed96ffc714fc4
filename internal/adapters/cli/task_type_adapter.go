package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/example/taskapi/internal/ports/primary"
)

// TaskTypeAdapter is a thin adapter that translates CLI operations to TaskTypeService calls.
type TaskTypeAdapter struct {
	service   primary.TaskTypeService
	principal primary.Principal
	out       io.Writer
}

// NewTaskTypeAdapter creates a new TaskTypeAdapter with the given service.
func NewTaskTypeAdapter(service primary.TaskTypeService, principal primary.Principal, out io.Writer) *TaskTypeAdapter {
	return &TaskTypeAdapter{
		service:   service,
		principal: principal,
		out:       out,
	}
}

// Create creates a task type. An empty status leaves the default.
func (a *TaskTypeAdapter) Create(ctx context.Context, name, status string) (*primary.TaskType, error) {
	req := primary.CreateTaskTypeRequest{Name: &name}
	if status != "" {
		req.Status = &status
	}

	tt, err := a.service.Create(ctx, a.principal, req)
	if err != nil {
		return nil, err
	}

	fmt.Fprintf(a.out, "%s Created task type %s: %s [%s]\n", color.GreenString("✓"), tt.ID, tt.Name, tt.Status)
	return tt, nil
}

// List lists every task type, hidden ones dimmed.
func (a *TaskTypeAdapter) List(ctx context.Context) ([]*primary.TaskType, error) {
	types, err := a.service.FindAll(ctx, a.principal)
	if err != nil {
		return nil, fmt.Errorf("failed to list task types: %w", err)
	}

	if len(types) == 0 {
		fmt.Fprintln(a.out, "No task types found.")
		fmt.Fprintln(a.out)
		fmt.Fprintln(a.out, "Create your first task type:")
		fmt.Fprintln(a.out, "  taskapi type create --name Work")
		return types, nil
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tSTATUS")
	fmt.Fprintln(w, "--\t----\t------")

	for _, tt := range types {
		status := tt.Status
		if status == "hidden" {
			status = color.New(color.Faint).Sprint(status)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", tt.ID, tt.Name, status)
	}

	w.Flush()
	return types, nil
}

// Delete deletes an unused task type.
func (a *TaskTypeAdapter) Delete(ctx context.Context, typeID string) error {
	if err := a.service.Delete(ctx, a.principal, typeID); err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s Deleted task type %s\n", color.GreenString("✓"), typeID)
	return nil
}
