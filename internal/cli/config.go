package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/stockroom/internal/config"
	"github.com/example/stockroom/internal/wire"
)

// AddPersistentFlags declares the flags every command accepts.
// They override the config file and STOCKROOM_* environment values.
func AddPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.String("config", "", "Config file (default ./"+config.DefaultFileName+" if present)")
	flags.String("database-driver", "", "Database driver: sqlite3, postgres or mysql")
	flags.String("database-dsn", "", "Database DSN or SQLite file path")
	flags.String("log-level", "", "Log level: debug, info, warn, error or off")
	flags.Bool("debug", false, "Show error details in pages and allow the development secret")
}

// noConfig marks commands that run without loading configuration.
const noConfig = "stockroom/no-config"

// Configure loads configuration for cmd and hands it to the wire package.
// It is meant to run as the root command's PersistentPreRunE.
func Configure(cmd *cobra.Command, _ []string) error {
	if cmd.Annotations[noConfig] != "" {
		return nil
	}
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(path, cmd.Flags())
	if err != nil {
		return err
	}
	wire.Configure(cfg)
	return nil
}

// requireValid rejects configurations the server cannot run with.
func requireValid(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w\nHint: run 'stockroom init' to write a config with a fresh secret_key", err)
	}
	return nil
}
