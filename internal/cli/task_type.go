package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/taskapi/internal/wire"
)

// TaskTypeCmd returns the type command
func TaskTypeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "type",
		Aliases: []string{"task-type"},
		Short:   "Manage task types",
	}

	cmd.AddCommand(typeCreateCmd())
	cmd.AddCommand(typeListCmd())
	cmd.AddCommand(typeDeleteCmd())

	return cmd
}

func typeCreateCmd() *cobra.Command {
	var name, status string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a task type",
		Long: `Create a task type.

Examples:
  taskapi type create --name Work
  taskapi type create --name Legacy --status hidden`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			_, err := wire.TaskTypeAdapter().Create(NewContext(), name, status)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Task type name")
	cmd.Flags().StringVar(&status, "status", "", "visible (default) or hidden")
	cmd.MarkFlagRequired("name")

	return cmd
}

func typeListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List task types",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			_, err := wire.TaskTypeAdapter().List(NewContext())
			return err
		},
	}
}

func typeDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [type-id]",
		Short: "Delete a task type no task uses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			return wire.TaskTypeAdapter().Delete(NewContext(), args[0])
		},
	}
}
