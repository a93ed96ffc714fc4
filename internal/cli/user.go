package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/taskapi/internal/wire"
)

// UserCmd returns the user command
func UserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage user accounts",
		Long:  `Create, list and delete user accounts directly against the database.`,
	}

	cmd.AddCommand(userCreateCmd())
	cmd.AddCommand(userListCmd())
	cmd.AddCommand(userDeleteCmd())

	return cmd
}

func userCreateCmd() *cobra.Command {
	var name, email, password, role string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user",
		Long: `Create a user with an explicit role.

Examples:
  taskapi user create --name Ada --email ada@example.com --password secret123 --role administrator
  taskapi user create --name Bob --email bob@example.com --password secret123`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			_, err := wire.UserAdapter().Create(NewContext(), name, email, password, role)
			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address (login)")
	cmd.Flags().StringVar(&password, "password", "", "Password (at least 8 characters)")
	cmd.Flags().StringVar(&role, "role", "user", "Role: administrator or user")
	cmd.MarkFlagRequired("name")
	cmd.MarkFlagRequired("email")
	cmd.MarkFlagRequired("password")

	return cmd
}

func userListCmd() *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			_, err := wire.UserAdapter().List(NewContext(), search)
			return err
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by name or email")

	return cmd
}

func userDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [user-id]",
		Short: "Delete a user with their tasks and tokens",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}
			return wire.UserAdapter().Delete(NewContext(), args[0])
		},
	}
}
