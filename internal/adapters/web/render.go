package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/ports/primary"
)

//go:embed templates static
var assets embed.FS

// context keys shared by middleware, handlers and templates
const (
	userKey = "user"
	csrfKey = "csrf"
)

// Renderer executes page templates. Every page is parsed together with the
// base layout so pages only define the blocks they fill.
type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"money": func(v float64) string {
		return strconv.FormatFloat(v, 'f', 2, 64)
	},
	"formvalue": form.Format,
}

// NewRenderer parses every page under templates/ with the base layout.
func NewRenderer() (*Renderer, error) {
	pages, err := fs.Glob(assets, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, page := range pages {
		name := path.Base(page)
		if name == "base.html" {
			continue
		}
		tmpl, err := template.New(name).Funcs(funcs).ParseFS(assets, "templates/base.html", page)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		r.pages[name] = tmpl
	}
	return r, nil
}

// Render implements echo.Renderer.
func (r *Renderer) Render(w io.Writer, name string, data any, c echo.Context) error {
	tmpl, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}
	return tmpl.ExecuteTemplate(w, "base", data)
}

// render adds the request-wide values every page needs and renders name.
func render(c echo.Context, code int, name string, data echo.Map) error {
	if data == nil {
		data = echo.Map{}
	}
	if u, ok := c.Get(userKey).(*primary.User); ok {
		data["User"] = u
	}
	if token, ok := c.Get(csrfKey).(string); ok {
		data["CSRFToken"] = token
	}
	data["Path"] = c.Request().URL.Path
	return c.Render(code, name, data)
}

// formContext is the template data for one form.
func formContext(f form.Form, data form.Data, errs form.Errors) echo.Map {
	return echo.Map{
		"Fields":         f.Bound(data, errs),
		"NonFieldErrors": errs[form.NonField],
	}
}

// merge copies extra into m and returns m.
func merge(m echo.Map, extra echo.Map) echo.Map {
	for k, v := range extra {
		m[k] = v
	}
	return m
}
