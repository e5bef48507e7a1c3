// Package form binds submitted string data against explicit field tables.
//
// A Form is a mapping table: each Field names the submitted key, the
// validation rule applied to it and the storage column it is written to.
// Bind is pure, so the same table validates web posts, CLI flags, shell
// commands and fixture files.
package form

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Kind selects how a field's raw string is parsed.
type Kind int

const (
	Text Kind = iota
	Int
	Float
	Password
	Bool
)

// Messages reported by Bind.
const (
	MsgRequired = "This field is required."
	MsgInt      = "Enter a whole number."
	MsgFloat    = "Enter a number."
)

// Field is one row of a form table.
type Field struct {
	Name          string
	Label         string
	Column        string // empty for fields that are never stored (password confirmation)
	Kind          Kind
	Required      bool
	MaxLength     int
	Min           *float64
	DecimalPlaces int // Float only; 0 means unlimited
	HelpText      string
}

// MinValue returns a pointer for Field.Min.
func MinValue(v float64) *float64 {
	return &v
}

// InputType is the HTML input type used to render the field.
func (f Field) InputType() string {
	switch f.Kind {
	case Int, Float:
		return "number"
	case Password:
		return "password"
	case Bool:
		return "checkbox"
	default:
		return "text"
	}
}

// Step is the HTML step attribute for numeric inputs.
func (f Field) Step() string {
	switch f.Kind {
	case Int:
		return "1"
	case Float:
		if f.DecimalPlaces > 0 {
			return "0." + strings.Repeat("0", f.DecimalPlaces-1) + "1"
		}
		return "any"
	default:
		return ""
	}
}

// Form is an ordered field table.
type Form struct {
	Name   string
	Fields []Field
}

// Field looks up a field by name.
func (f Form) Field(name string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// Columns returns the storage columns in table order.
func (f Form) Columns() []string {
	var cols []string
	for _, field := range f.Fields {
		if field.Column != "" {
			cols = append(cols, field.Column)
		}
	}
	return cols
}

// ColumnField returns the field stored in column.
func (f Form) ColumnField(column string) (Field, bool) {
	for _, field := range f.Fields {
		if field.Column == column {
			return field, true
		}
	}
	return Field{}, false
}

// Data holds raw submitted values keyed by field name.
type Data map[string]string

// FromValues takes the first value of each key of a decoded form post.
func FromValues(values url.Values) Data {
	d := make(Data, len(values))
	for k, v := range values {
		if len(v) > 0 {
			d[k] = v[0]
		}
	}
	return d
}

// Cleaned holds typed values keyed by field name.
type Cleaned map[string]any

func (c Cleaned) String(name string) string {
	s, _ := c[name].(string)
	return s
}

func (c Cleaned) Int(name string) int {
	n, _ := c[name].(int)
	return n
}

func (c Cleaned) Float(name string) float64 {
	n, _ := c[name].(float64)
	return n
}

func (c Cleaned) Bool(name string) bool {
	b, _ := c[name].(bool)
	return b
}

// ColumnValues maps each stored field's cleaned value onto its column.
func (c Cleaned) ColumnValues(f Form) map[string]any {
	out := make(map[string]any)
	for _, field := range f.Fields {
		if field.Column == "" {
			continue
		}
		if v, ok := c[field.Name]; ok {
			out[field.Column] = v
		}
	}
	return out
}

// Errors holds messages per field name. The empty key carries non-field errors.
type Errors map[string][]string

// NonField is the Errors key for messages not tied to one field.
const NonField = ""

func (e Errors) Add(field, msg string) {
	e[field] = append(e[field], msg)
}

// Any reports whether at least one message was recorded.
func (e Errors) Any() bool {
	for _, msgs := range e {
		if len(msgs) > 0 {
			return true
		}
	}
	return false
}

// Bind validates data against every field of the form. Text fields are
// trimmed; passwords are taken verbatim. Errors is empty when all fields
// are valid.
func (f Form) Bind(data Data) (Cleaned, Errors) {
	cleaned := make(Cleaned, len(f.Fields))
	errs := make(Errors)

	for _, field := range f.Fields {
		raw := data[field.Name]
		if field.Kind != Password {
			raw = strings.TrimSpace(raw)
		}

		if field.Kind == Bool {
			cleaned[field.Name] = parseBool(raw)
			continue
		}

		if raw == "" {
			if field.Required {
				errs.Add(field.Name, MsgRequired)
				continue
			}
			cleaned[field.Name] = zero(field.Kind)
			continue
		}

		switch field.Kind {
		case Int:
			n, err := strconv.Atoi(raw)
			if err != nil {
				errs.Add(field.Name, MsgInt)
				continue
			}
			if field.Min != nil && float64(n) < *field.Min {
				errs.Add(field.Name, minMessage(*field.Min))
				continue
			}
			cleaned[field.Name] = n
		case Float:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				errs.Add(field.Name, MsgFloat)
				continue
			}
			if field.Min != nil && n < *field.Min {
				errs.Add(field.Name, minMessage(*field.Min))
				continue
			}
			if field.DecimalPlaces > 0 && decimalPlaces(n) > field.DecimalPlaces {
				errs.Add(field.Name, fmt.Sprintf("Ensure that there are no more than %d decimal places.", field.DecimalPlaces))
				continue
			}
			cleaned[field.Name] = n
		default:
			if field.MaxLength > 0 {
				if n := utf8.RuneCountInString(raw); n > field.MaxLength {
					errs.Add(field.Name, fmt.Sprintf("Ensure this value has at most %d characters (it has %d).", field.MaxLength, n))
					continue
				}
			}
			cleaned[field.Name] = raw
		}
	}

	return cleaned, errs
}

// DataFromCleaned renders typed values back into raw strings, e.g. to
// pre-populate an update form from a stored record.
func (f Form) DataFromCleaned(values Cleaned) Data {
	d := make(Data, len(f.Fields))
	for _, field := range f.Fields {
		v, ok := values[field.Name]
		if !ok || field.Kind == Password {
			continue
		}
		d[field.Name] = Format(v)
	}
	return d
}

// Format renders a stored value the way a form input expects it.
func Format(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case []byte:
		return string(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		if x {
			return "on"
		}
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// BoundField pairs a field with its submitted value and messages, for rendering.
type BoundField struct {
	Field
	Value  string
	Errors []string
}

// Checked reports whether a Bool field is set.
func (b BoundField) Checked() bool {
	return parseBool(b.Value)
}

// Bound returns the fields in order with values and errors attached.
func (f Form) Bound(data Data, errs Errors) []BoundField {
	out := make([]BoundField, len(f.Fields))
	for i, field := range f.Fields {
		out[i] = BoundField{Field: field, Errors: errs[field.Name]}
		if field.Kind != Password {
			out[i].Value = data[field.Name]
		}
	}
	return out
}

func parseBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}

func zero(k Kind) any {
	switch k {
	case Int:
		return 0
	case Float:
		return 0.0
	default:
		return ""
	}
}

func minMessage(min float64) string {
	return fmt.Sprintf("Ensure this value is greater than or equal to %s.", strconv.FormatFloat(min, 'f', -1, 64))
}

// decimalPlaces counts the digits after the point in the shortest form of n,
// so "1.50" has one place and "1e-3" has three.
func decimalPlaces(n float64) int {
	text := strconv.FormatFloat(n, 'f', -1, 64)
	if i := strings.IndexByte(text, '.'); i >= 0 {
		return len(text) - i - 1
	}
	return 0
}
