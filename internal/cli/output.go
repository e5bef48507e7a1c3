package cli

import "github.com/fatih/color"

func okMark() string {
	return color.New(color.FgGreen).Sprint("✓")
}
