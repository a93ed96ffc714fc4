package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/taskapi/internal/cli"
	"github.com/example/taskapi/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "taskapi",
		Short:   "taskapi - multi-tenant task management API",
		Version: version.String(),
		Long: `taskapi serves a JSON REST API for users, task types and tasks.
Tasks may not start or end on a weekend, and one user's tasks may not overlap.`,
		SilenceUsage: true,
	}
	cli.ConfigureRoot(rootCmd)

	// Server lifecycle
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.ServeCmd())

	// Administration
	rootCmd.AddCommand(cli.UserCmd())
	rootCmd.AddCommand(cli.TaskTypeCmd())
	rootCmd.AddCommand(cli.AuditCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
