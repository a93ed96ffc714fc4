package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/taskapi/internal/db"
	"github.com/example/taskapi/internal/wire"
)

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load development fixtures",
		Long: `Load development fixtures: an administrator, a regular user, three task
types and two tasks for the regular user. Both accounts share one password.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := bootstrap(); err != nil {
				return err
			}

			hash, err := wire.PasswordHasher().Hash(password)
			if err != nil {
				return err
			}
			if err := db.SeedFixtures(wire.DB(), hash); err != nil {
				return fmt.Errorf("failed to seed: %w", err)
			}

			fmt.Println("✓ Fixtures loaded")
			fmt.Printf("  Administrator: %s\n", db.FixtureAdminEmail)
			fmt.Printf("  User:          %s\n", db.FixtureUserEmail)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "password", "Password for the fixture accounts")

	return cmd
}
