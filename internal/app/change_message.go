package app

import (
	"strings"

	"github.com/example/stockroom/internal/core/form"
)

// changeMessage summarises which form fields differ, e.g. "Changed Name and Quantity."
func changeMessage(f form.Form, before, after form.Data) string {
	var changed []string
	for _, field := range f.Fields {
		if field.Kind == form.Password {
			continue
		}
		if before[field.Name] != after[field.Name] {
			changed = append(changed, field.Label)
		}
	}

	switch len(changed) {
	case 0:
		return "No fields changed."
	case 1:
		return "Changed " + changed[0] + "."
	default:
		return "Changed " + strings.Join(changed[:len(changed)-1], ", ") + " and " + changed[len(changed)-1] + "."
	}
}
