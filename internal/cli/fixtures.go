package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/example/stockroom/internal/db"
	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/wire"
)

var dumpDataFlags = map[string]cobraflags.Flag{
	"output": &cobraflags.StringFlag{
		Name:  "output",
		Value: "",
		Usage: "Write to this file instead of stdout",
	},
}

// DumpDataCmd returns the dumpdata command
func DumpDataCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dumpdata",
		Short: "Write every tour and product as a YAML fixture",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			summary, err := wire.FixtureService().Dump(cmd.Context(), w)
			if err != nil {
				return err
			}
			if output != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "%s Dumped %s to %s\n", okMark(), describeCounts(summary), output)
			}
			return nil
		},
	}

	cobraflags.RegisterMap(cmd, dumpDataFlags)
	return cmd
}

// LoadDataCmd returns the loaddata command
func LoadDataCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "loaddata [fixture-file]",
		Short: "Load tours and products from a YAML fixture",
		Long: `Load a fixture written by dumpdata. Objects are matched by primary key:
existing rows are updated and missing ones are inserted. Use - to read stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open fixture: %w", err)
				}
				defer f.Close()
				r = f
			}

			summary, err := wire.FixtureService().Load(cmd.Context(), r)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Installed %d object(s) (%s)\n", okMark(), summary.Total(), describeCounts(summary))
			return nil
		},
	}
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the lesson sample data into empty tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := db.SeedFixtures(cmd.Context(), wire.Database())
			if err != nil {
				return err
			}
			if result.Tours == 0 && result.Products == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Tables already hold data; nothing seeded")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Seeded %d tour(s) and %d product(s)\n", okMark(), result.Tours, result.Products)
			return nil
		},
	}
}

func describeCounts(s *primary.FixtureSummary) string {
	labels := make([]string, 0, len(s.Counts))
	for label := range s.Counts {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	parts := make([]string, 0, len(labels))
	for _, label := range labels {
		parts = append(parts, fmt.Sprintf("%s: %d", label, s.Counts[label]))
	}
	if len(parts) == 0 {
		return "nothing"
	}
	return strings.Join(parts, ", ")
}
