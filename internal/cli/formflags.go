package cli

import (
	"strings"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/example/stockroom/internal/core/form"
)

// flagName turns a form field name into its flag spelling.
func flagName(field string) string {
	return strings.ReplaceAll(field, "_", "-")
}

// formFlags declares one string flag per field of f.
func formFlags(f form.Form) map[string]cobraflags.Flag {
	flags := make(map[string]cobraflags.Flag, len(f.Fields))
	for _, field := range f.Fields {
		name := flagName(field.Name)
		usage := field.Label
		if field.Required {
			usage += " (required)"
		}
		flags[name] = &cobraflags.StringFlag{
			Name:  name,
			Value: "",
			Usage: usage,
		}
	}
	return flags
}

// formData collects the form fields whose flags were set on cmd.
func formData(cmd *cobra.Command, f form.Form) form.Data {
	data := form.Data{}
	for _, field := range f.Fields {
		name := flagName(field.Name)
		if !cmd.Flags().Changed(name) {
			continue
		}
		v, _ := cmd.Flags().GetString(name)
		data[field.Name] = v
	}
	return data
}
