package cli

import (
	"fmt"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/example/stockroom/internal/core/tour"
	"github.com/example/stockroom/internal/wire"
)

var tourCmd = &cobra.Command{
	Use:   "tour",
	Short: "Manage tours",
}

var tourListFlags = map[string]cobraflags.Flag{
	"search": &cobraflags.StringFlag{
		Name:  "search",
		Value: "",
		Usage: "Only tours whose origin or destination contains this text",
	},
}

var tourListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tours",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		return wire.TourAdapterWithOutput(cmd.OutOrStdout()).List(cmd.Context(), search)
	},
}

var tourCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a tour",
	Example: `  stockroom tour create --origin-country Portugal --destination-country Spain --nights 5 --price 450`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.TourAdapterWithOutput(cmd.OutOrStdout()).Create(cmd.Context(), formData(cmd, tour.Form))
	},
}

var tourShowCmd = &cobra.Command{
	Use:   "show [tour-id]",
	Short: "Show tour details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_, err = wire.TourAdapterWithOutput(cmd.OutOrStdout()).Show(cmd.Context(), id)
		return err
	},
}

var tourUpdateCmd = &cobra.Command{
	Use:   "update [tour-id]",
	Short: "Update a tour's fields",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		data := formData(cmd, tour.Form)
		if len(data) == 0 {
			return fmt.Errorf("must specify at least one field to update")
		}
		return wire.TourAdapterWithOutput(cmd.OutOrStdout()).Update(cmd.Context(), id, data)
	},
}

var tourDeleteCmd = &cobra.Command{
	Use:   "delete [tour-id]",
	Short: "Delete a tour",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return wire.TourAdapterWithOutput(cmd.OutOrStdout()).Delete(cmd.Context(), id)
	},
}

// TourCmd returns the tour command
func TourCmd() *cobra.Command {
	cobraflags.RegisterMap(tourListCmd, tourListFlags)
	cobraflags.RegisterMap(tourCreateCmd, formFlags(tour.Form))
	cobraflags.RegisterMap(tourUpdateCmd, formFlags(tour.Form))

	tourCmd.AddCommand(tourListCmd)
	tourCmd.AddCommand(tourCreateCmd)
	tourCmd.AddCommand(tourShowCmd)
	tourCmd.AddCommand(tourUpdateCmd)
	tourCmd.AddCommand(tourDeleteCmd)

	return tourCmd
}
