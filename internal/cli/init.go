package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/taskapi/internal/config"
	"github.com/example/taskapi/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config and initialize the database",
		Long: `Write a default config file (unless one exists) and create or upgrade
the database schema at the configured path.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, statErr := os.Stat(configPath)
			if force || os.IsNotExist(statErr) {
				if err := config.SaveConfig(configPath, config.Default()); err != nil {
					return err
				}
				fmt.Printf("✓ Config written to %s\n", configPath)
			} else {
				fmt.Printf("  Config already present at %s\n", configPath)
			}

			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Initializing database at %s\n", cfg.Database.Path)
			database, err := db.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer database.Close()

			version, err := db.CurrentVersion(database)
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			fmt.Printf("✓ Database initialized (schema version %d)\n", version)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  taskapi seed")
			fmt.Println("  taskapi serve")

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file with defaults")

	return cmd
}
