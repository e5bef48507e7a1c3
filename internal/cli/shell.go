package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	cliadapter "github.com/example/stockroom/internal/adapters/cli"
	"github.com/example/stockroom/internal/wire"
)

// ShellCmd returns the shell command
func ShellCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive shell for tours and products",
		Long: `Start an interactive session for creating, querying, updating and
deleting tours and products. Type 'help' inside the shell for commands.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rl, err := cliadapter.NewReadline(historyFile())
			if err != nil {
				return err
			}
			defer rl.Close()

			return wire.Shell(rl.Stdout()).Run(cmd.Context(), rl)
		},
	}
}

func historyFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".stockroom_history")
}
