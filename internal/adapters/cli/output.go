// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters parse arguments and format output but
// delegate business logic to services.
package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/ports/primary"
)

var (
	okMark   = color.New(color.FgGreen).Sprint("✓")
	lowStock = color.New(color.FgYellow).Sprint("LOW")
)

// NewTable returns a table that renders to out with the given header.
func NewTable(out io.Writer, header ...any) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row(header))
	return t
}

// DescribeError flattens a validation error into one line per field so it
// reads well on a terminal. Other errors are returned unchanged.
func DescribeError(err error) error {
	v, ok := primary.AsValidationError(err)
	if !ok {
		return err
	}

	var lines []string
	lines = append(lines, v.NonField...)
	fields := make([]string, 0, len(v.Fields))
	for f := range v.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		lines = append(lines, fmt.Sprintf("  %s: %s", f, strings.Join(v.Fields[f], " ")))
	}
	return errors.New("invalid input:\n" + strings.Join(lines, "\n"))
}

// overlay copies the non-empty values of changes onto base.
func overlay(base, changes form.Data) form.Data {
	out := make(form.Data, len(base)+len(changes))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range changes {
		if v != "" {
			out[k] = v
		}
	}
	return out
}
