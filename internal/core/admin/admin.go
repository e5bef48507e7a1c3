// Package admin holds the declarative configuration of the admin site.
// A ModelAdmin tells the generic changelist and change form which columns
// to show, search and filter on; nothing else about a model is known here.
package admin

import (
	"fmt"
	"strings"

	"github.com/example/stockroom/internal/core/form"
)

// ModelAdmin registers one table with the admin site.
type ModelAdmin struct {
	Name              string // URL segment, e.g. "product"
	VerboseName       string
	VerboseNamePlural string
	Table             string
	Form              form.Form
	ListDisplay       []string
	SearchFields      []string
	ListFilter        []string
	Ordering          []string // a leading "-" sorts descending
	Unique            []string
	Timestamps        bool

	// Repr renders a row for headings and the action log.
	Repr func(values map[string]any) string
}

// Columns returns every column the admin may read: id, the form's columns
// and, when enabled, the timestamps.
func (m *ModelAdmin) Columns() []string {
	cols := append([]string{"id"}, m.Form.Columns()...)
	if m.Timestamps {
		cols = append(cols, "created_at", "updated_at")
	}
	return cols
}

// HasColumn reports whether col is one of Columns.
func (m *ModelAdmin) HasColumn(col string) bool {
	for _, c := range m.Columns() {
		if c == col {
			return true
		}
	}
	return false
}

// ColumnLabel returns the form label for col, or a title-cased column name.
func (m *ModelAdmin) ColumnLabel(col string) string {
	if f, ok := m.Form.ColumnField(col); ok && f.Label != "" {
		return f.Label
	}
	if col == "id" {
		return "ID"
	}
	words := strings.Split(col, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// Validate checks that every referenced column exists.
func (m *ModelAdmin) Validate() error {
	if m.Name == "" || m.Table == "" {
		return fmt.Errorf("model admin needs a name and a table")
	}
	check := func(kind string, cols []string) error {
		for _, col := range cols {
			if !m.HasColumn(strings.TrimPrefix(col, "-")) {
				return fmt.Errorf("%s: %s references unknown column %q", m.Name, kind, col)
			}
		}
		return nil
	}
	for kind, cols := range map[string][]string{
		"list_display":  m.ListDisplay,
		"search_fields": m.SearchFields,
		"list_filter":   m.ListFilter,
		"ordering":      m.Ordering,
		"unique":        m.Unique,
	} {
		if err := check(kind, cols); err != nil {
			return err
		}
	}
	return nil
}

// CleanFilters keeps only non-empty values for columns listed in ListFilter.
func (m *ModelAdmin) CleanFilters(raw map[string]string) map[string]string {
	out := make(map[string]string)
	for _, col := range m.ListFilter {
		if v := strings.TrimSpace(raw[col]); v != "" {
			out[col] = v
		}
	}
	return out
}

// DuplicateMessage is the field error for a unique column collision.
func (m *ModelAdmin) DuplicateMessage(col string) string {
	name := m.VerboseName
	if name != "" {
		name = strings.ToUpper(name[:1]) + name[1:]
	}
	return fmt.Sprintf("%s with this %s already exists.", name, m.ColumnLabel(col))
}

// Describe renders a row with Repr, falling back to the id.
func (m *ModelAdmin) Describe(id int64, values map[string]any) string {
	if m.Repr != nil {
		if s := m.Repr(values); s != "" {
			return s
		}
	}
	return fmt.Sprintf("%s object (%d)", m.VerboseName, id)
}

// Site is the ordered set of registered models.
type Site struct {
	models []*ModelAdmin
	byName map[string]*ModelAdmin
}

// NewSite validates and registers the given models.
func NewSite(models ...*ModelAdmin) (*Site, error) {
	s := &Site{byName: make(map[string]*ModelAdmin)}
	for _, m := range models {
		if err := s.Register(m); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Register adds a model to the site.
func (s *Site) Register(m *ModelAdmin) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if _, exists := s.byName[m.Name]; exists {
		return fmt.Errorf("model %q is already registered", m.Name)
	}
	s.models = append(s.models, m)
	s.byName[m.Name] = m
	return nil
}

// Get returns the model registered under name.
func (s *Site) Get(name string) (*ModelAdmin, bool) {
	m, ok := s.byName[name]
	return m, ok
}

// Models returns the registered models in registration order.
func (s *Site) Models() []*ModelAdmin {
	out := make([]*ModelAdmin, len(s.models))
	copy(out, s.models)
	return out
}
