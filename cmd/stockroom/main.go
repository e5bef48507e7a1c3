package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stockroom/internal/cli"
	"github.com/example/stockroom/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "stockroom",
		Short:   "Stockroom - inventory management for the MTV course capstone",
		Version: version.String(),
		Long: `Stockroom serves the course home page, a tour catalogue and an inventory
of products with search, low-stock flags, accounts and an admin site.`,
		SilenceUsage:      true,
		PersistentPreRunE: cli.Configure,
	}
	cli.AddPersistentFlags(rootCmd)

	// Project setup
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.ServeCmd())
	rootCmd.AddCommand(cli.VersionCmd())

	// Database
	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.ShowMigrationsCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.DumpDataCmd())
	rootCmd.AddCommand(cli.LoadDataCmd())

	// Accounts
	rootCmd.AddCommand(cli.CreateSuperuserCmd())
	rootCmd.AddCommand(cli.ChangePasswordCmd())
	rootCmd.AddCommand(cli.UsersCmd())
	rootCmd.AddCommand(cli.ClearSessionsCmd())

	// Entity commands
	rootCmd.AddCommand(cli.TourCmd())
	rootCmd.AddCommand(cli.ProductCmd())
	rootCmd.AddCommand(cli.ShellCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
