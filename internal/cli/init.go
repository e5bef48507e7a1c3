package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/stockroom/internal/config"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter configuration file",
		Long: `Write stockroom.yaml (or the --config path) with default settings and a
freshly generated secret_key.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{noConfig: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			path, _ := cmd.Flags().GetString("config")
			if path == "" {
				path = config.DefaultFileName
			}

			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}

			cfg := config.Default()
			secret, err := config.GenerateSecretKey()
			if err != nil {
				return err
			}
			cfg.SecretKey = secret

			if err := config.SaveConfig(path, cfg); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %s\n", okMark(), path)
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
			fmt.Fprintln(cmd.OutOrStdout(), "  stockroom migrate")
			fmt.Fprintln(cmd.OutOrStdout(), "  stockroom createsuperuser --username admin")
			fmt.Fprintln(cmd.OutOrStdout(), "  stockroom serve")
			return nil
		},
	}

	cmd.Flags().BoolP("force", "f", false, "Overwrite an existing file")
	return cmd
}
