package cli

import (
	"fmt"
	"strconv"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/example/stockroom/internal/core/product"
	"github.com/example/stockroom/internal/wire"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage inventory products",
	Long:  "List, create, show, update and delete products in the inventory",
}

var productListFlags = map[string]cobraflags.Flag{
	"search": &cobraflags.StringFlag{
		Name:  "search",
		Value: "",
		Usage: "Only products whose name or SKU contains this text",
	},
}

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List products",
	RunE: func(cmd *cobra.Command, args []string) error {
		search, _ := cmd.Flags().GetString("search")
		return wire.ProductAdapterWithOutput(cmd.OutOrStdout()).List(cmd.Context(), search)
	},
}

var productCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create a product",
	Example: `  stockroom product create --name "USB-C Hub" --sku SKU003 --price 39 --quantity 15 --supplier Portline`,
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return wire.ProductAdapterWithOutput(cmd.OutOrStdout()).Create(cmd.Context(), formData(cmd, product.Form))
	},
}

var productShowCmd = &cobra.Command{
	Use:   "show [product-id]",
	Short: "Show product details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		_, err = wire.ProductAdapterWithOutput(cmd.OutOrStdout()).Show(cmd.Context(), id)
		return err
	},
}

var productUpdateCmd = &cobra.Command{
	Use:   "update [product-id]",
	Short: "Update a product's fields",
	Long:  "Update a product. Only the flags given are changed.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		data := formData(cmd, product.Form)
		if len(data) == 0 {
			return fmt.Errorf("must specify at least one field to update")
		}
		return wire.ProductAdapterWithOutput(cmd.OutOrStdout()).Update(cmd.Context(), id, data)
	},
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete [product-id]",
	Short: "Delete a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return wire.ProductAdapterWithOutput(cmd.OutOrStdout()).Delete(cmd.Context(), id)
	},
}

// ProductCmd returns the product command
func ProductCmd() *cobra.Command {
	cobraflags.RegisterMap(productListCmd, productListFlags)
	cobraflags.RegisterMap(productCreateCmd, formFlags(product.Form))
	cobraflags.RegisterMap(productUpdateCmd, formFlags(product.Form))

	productCmd.AddCommand(productListCmd)
	productCmd.AddCommand(productCreateCmd)
	productCmd.AddCommand(productShowCmd)
	productCmd.AddCommand(productUpdateCmd)
	productCmd.AddCommand(productDeleteCmd)

	return productCmd
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", s)
	}
	return id, nil
}
