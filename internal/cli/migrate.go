package cli

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/stockroom/internal/db"
	"github.com/example/stockroom/internal/wire"
)

// MigrateCmd returns the migrate command
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long: `Bring the database schema up to date.

A new database receives the full schema at once; an existing one runs each
pending migration in its own transaction.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			database := wire.Database()
			// A new database has no schema_version table yet and reports 0.
			before, _ := db.CurrentVersion(cmd.Context(), database)

			if err := db.Migrate(cmd.Context(), database, cmd.OutOrStdout()); err != nil {
				return err
			}

			if before == db.LatestVersion() {
				fmt.Fprintln(cmd.OutOrStdout(), "No migrations to apply.")
			}
			return nil
		},
	}
}

// ShowMigrationsCmd returns the showmigrations command
func ShowMigrationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "showmigrations",
		Short: "List migrations and whether each is applied",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			states, err := db.Status(cmd.Context(), wire.Database())
			if err != nil {
				return err
			}

			applied := color.New(color.FgGreen).Sprint("[X]")
			for _, s := range states {
				mark := "[ ]"
				if s.Applied {
					mark = applied
				}
				fmt.Fprintf(cmd.OutOrStdout(), " %s %04d_%s\n", mark, s.Version, s.Name)
			}
			return nil
		},
	}
}
