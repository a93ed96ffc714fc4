// Package cli provides CLI commands for the taskapi application.
package cli

import (
	gocontext "context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/taskapi/internal/config"
	"github.com/example/taskapi/internal/wire"
)

// configPath is bound to the global --config flag.
var configPath string

// loaded holds the configuration for the current CLI invocation.
var loaded *config.Config

// ConfigureRoot registers the global flags on the root command.
func ConfigureRoot(root *cobra.Command) {
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "Path to the YAML config file")
}

// NewContext creates the base context for a CLI command.
func NewContext() gocontext.Context {
	return gocontext.Background()
}

// loadConfig reads the config file (defaults when absent) plus environment overrides.
func loadConfig() (*config.Config, error) {
	if loaded != nil {
		return loaded, nil
	}
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	loaded = cfg
	return cfg, nil
}

// bootstrap loads configuration, installs the logger and builds the services.
// Commands that touch the database call it first.
func bootstrap() (*config.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)

	if err := wire.Init(cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to start: %w", err)
	}
	return cfg, nil
}
