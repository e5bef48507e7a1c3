package web

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"github.com/example/stockroom/internal/core/admin"
	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/ports/secondary"
)

// recentActionsLimit is how many log entries the admin index shows.
const recentActionsLimit = 10

// filterOption is one link of a changelist sidebar filter.
type filterOption struct {
	Label    string
	URL      string
	Selected bool
}

// filterView is a changelist sidebar filter ready for the template.
type filterView struct {
	Label   string
	Options []filterOption
}

// AdminIndexHandler lists the registered models and the latest actions.
func AdminIndexHandler(adminService primary.AdminService) echo.HandlerFunc {
	return func(c echo.Context) error {
		actions, err := adminService.RecentActions(c.Request().Context(), recentActionsLimit)
		if err != nil {
			return err
		}
		return render(c, http.StatusOK, "admin_index.html", echo.Map{
			"Models":  adminService.Models(),
			"Actions": actions,
		})
	}
}

// AdminChangelistHandler lists a model's rows. ?q= searches; every other
// query parameter naming a filter column narrows by equality.
func AdminChangelistHandler(adminService primary.AdminService, modelParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		query := c.QueryParams()
		filters := make(map[string]string)
		for key := range query {
			if key != "q" {
				filters[key] = query.Get(key)
			}
		}

		cl, err := adminService.Changelist(c.Request().Context(), c.Param(modelParam), primary.ChangelistRequest{
			Search:  query.Get("q"),
			Filters: filters,
		})
		if err != nil {
			return err
		}

		return render(c, http.StatusOK, "admin_changelist.html", echo.Map{
			"Model":   cl.Model,
			"CL":      cl,
			"Filters": filterViews(cl),
			"Active":  activeFilters(cl),
		})
	}
}

// AdminAddHandler shows an empty change form and inserts on POST.
func AdminAddHandler(adminService primary.AdminService, modelParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		m, err := lookupModel(adminService, c.Param(modelParam))
		if err != nil {
			return err
		}

		if c.Request().Method != http.MethodPost {
			return renderAdminForm(c, m, nil, form.Data{}, nil)
		}

		data, err := formData(c)
		if err != nil {
			return err
		}
		_, err = adminService.AddObject(c.Request().Context(), m.Name, data)
		if v, ok := primary.AsValidationError(err); ok {
			return renderAdminForm(c, m, nil, data, v.FormErrors())
		}
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, changelistURL(m, "", nil))
	}
}

// AdminChangeHandler shows the change form for a row and saves on POST.
func AdminChangeHandler(adminService primary.AdminService, modelParam, idParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		m, err := lookupModel(adminService, c.Param(modelParam))
		if err != nil {
			return err
		}
		id, err := pathID(c, idParam)
		if err != nil {
			return err
		}
		obj, err := adminService.GetObject(ctx, m.Name, id)
		if err != nil {
			return err
		}

		if c.Request().Method != http.MethodPost {
			return renderAdminForm(c, m, obj, obj.Data, nil)
		}

		data, err := formData(c)
		if err != nil {
			return err
		}
		_, err = adminService.ChangeObject(ctx, m.Name, id, data)
		if v, ok := primary.AsValidationError(err); ok {
			return renderAdminForm(c, m, obj, data, v.FormErrors())
		}
		if err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, changelistURL(m, "", nil))
	}
}

// AdminDeleteHandler asks for confirmation and deletes on POST.
func AdminDeleteHandler(adminService primary.AdminService, modelParam, idParam string) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		m, err := lookupModel(adminService, c.Param(modelParam))
		if err != nil {
			return err
		}
		id, err := pathID(c, idParam)
		if err != nil {
			return err
		}

		if c.Request().Method != http.MethodPost {
			obj, err := adminService.GetObject(ctx, m.Name, id)
			if err != nil {
				return err
			}
			return render(c, http.StatusOK, "admin_delete.html", echo.Map{"Model": m, "Object": obj})
		}

		if _, err := adminService.DeleteObject(ctx, m.Name, id); err != nil {
			return err
		}
		return c.Redirect(http.StatusFound, changelistURL(m, "", nil))
	}
}

func lookupModel(adminService primary.AdminService, name string) (*admin.ModelAdmin, error) {
	for _, m := range adminService.Models() {
		if m.Name == name {
			return m, nil
		}
	}
	return nil, fmt.Errorf("model %q: %w", name, secondary.ErrNotFound)
}

func renderAdminForm(c echo.Context, m *admin.ModelAdmin, obj *primary.AdminObject, data form.Data, errs form.Errors) error {
	return render(c, http.StatusOK, "admin_form.html", merge(echo.Map{
		"Model":  m,
		"Object": obj,
	}, formContext(m.Form, data, errs)))
}

func activeFilters(cl *primary.Changelist) map[string]string {
	active := make(map[string]string)
	for _, f := range cl.Filters {
		if f.Selected != "" {
			active[f.Column] = f.Selected
		}
	}
	return active
}

// filterViews turns each sidebar filter into links that keep the search
// and the other filters.
func filterViews(cl *primary.Changelist) []filterView {
	active := activeFilters(cl)
	views := make([]filterView, 0, len(cl.Filters))
	for _, f := range cl.Filters {
		without := make(map[string]string, len(active))
		for k, v := range active {
			if k != f.Column {
				without[k] = v
			}
		}

		view := filterView{Label: f.Label}
		view.Options = append(view.Options, filterOption{
			Label:    "All",
			URL:      changelistURL(cl.Model, cl.Search, without),
			Selected: f.Selected == "",
		})
		for _, choice := range f.Choices {
			with := make(map[string]string, len(without)+1)
			for k, v := range without {
				with[k] = v
			}
			with[f.Column] = choice
			view.Options = append(view.Options, filterOption{
				Label:    choice,
				URL:      changelistURL(cl.Model, cl.Search, with),
				Selected: f.Selected == choice,
			})
		}
		views = append(views, view)
	}
	return views
}

func changelistURL(m *admin.ModelAdmin, search string, filters map[string]string) string {
	u := "/admin/" + m.Name + "/"
	q := url.Values{}
	if search != "" {
		q.Set("q", search)
	}
	for k, v := range filters {
		q.Set(k, v)
	}
	if len(q) == 0 {
		return u
	}
	return u + "?" + q.Encode()
}
