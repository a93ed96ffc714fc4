package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/taskapi/internal/ports/primary"
	"github.com/example/taskapi/internal/wire"
)

// AuditCmd returns the audit command
func AuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the audit trail",
	}

	cmd.AddCommand(auditListCmd())

	return cmd
}

func auditListCmd() *cobra.Command {
	var filters primary.AuditFilters

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show recent changes, newest first",
		Long: `Show recent create, update and delete events.

Examples:
  taskapi audit list
  taskapi audit list --type task --limit 20
  taskapi audit list --entity 3f0c...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			_, err := wire.AuditAdapter().List(NewContext(), filters)
			return err
		},
	}

	cmd.Flags().StringVarP(&filters.EntityType, "type", "t", "", "Filter by entity type (user, task_type, task)")
	cmd.Flags().StringVarP(&filters.EntityID, "entity", "e", "", "Filter by entity ID")
	cmd.Flags().StringVarP(&filters.ActorID, "actor", "a", "", "Filter by actor ID")
	cmd.Flags().IntVarP(&filters.Limit, "limit", "n", 50, "Maximum number of entries")

	return cmd
}
