package web

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Access is the guard applied to a route.
type Access int

const (
	Public Access = iota
	LoginRequired
	StaffRequired
)

// Route is one row of the routing table.
type Route struct {
	Methods []string
	Path    string
	Name    string
	Access  Access
	Handler echo.HandlerFunc
}

var (
	get     = []string{http.MethodGet}
	post    = []string{http.MethodPost}
	getPost = []string{http.MethodGet, http.MethodPost}
)

// Routes returns the routing table in registration order.
func Routes(s Services, cfg Config) []Route {
	accounts := AccountConfig{
		LoginRedirect:    cfg.LoginRedirect,
		LogoutRedirect:   cfg.LogoutRedirect,
		RegisterRedirect: "/home/",
		SecureCookies:    cfg.SecureCookies,
	}

	return []Route{
		{get, "/", "root", Public, func(c echo.Context) error { return c.Redirect(http.StatusFound, "/home/") }},
		{get, "/home/", "home", Public, HomeHandler()},

		{get, "/list/", "product-list", Public, ProductListHandler(s.Products, cfg.LowStockThreshold)},
		{getPost, "/create/", "product-create", LoginRequired, ProductCreateHandler(s.Products)},
		{get, "/detail/:id/", "product-detail", Public, ProductDetailHandler(s.Products, "id")},
		{getPost, "/update/:id/", "product-update", LoginRequired, ProductUpdateHandler(s.Products, "id")},
		{getPost, "/delete/:id/", "product-delete", LoginRequired, ProductDeleteHandler(s.Products, "id")},

		{get, "/tours/", "tour-list", Public, TourListHandler(s.Tours)},

		{getPost, "/register/", "register", Public, RegisterHandler(s.Auth, accounts)},
		{getPost, "/login/", "login", Public, LoginHandler(s.Auth, accounts)},
		{post, "/logout/", "logout", Public, LogoutHandler(s.Auth, accounts)},

		{get, "/admin/", "admin-index", StaffRequired, AdminIndexHandler(s.Admin)},
		{get, "/admin/:model/", "admin-changelist", StaffRequired, AdminChangelistHandler(s.Admin, "model")},
		{getPost, "/admin/:model/add/", "admin-add", StaffRequired, AdminAddHandler(s.Admin, "model")},
		{getPost, "/admin/:model/:id/change/", "admin-change", StaffRequired, AdminChangeHandler(s.Admin, "model", "id")},
		{getPost, "/admin/:model/:id/delete/", "admin-delete", StaffRequired, AdminDeleteHandler(s.Admin, "model", "id")},

		{get, "/healthz", "health", Public, HealthHandler(s.Ping)},
	}
}

// register adds every route to e with the guard its Access names.
func register(e *echo.Echo, routes []Route, loginURL string) {
	guards := map[Access][]echo.MiddlewareFunc{
		Public:        nil,
		LoginRequired: {RequireLogin(loginURL)},
		StaffRequired: {RequireStaff(loginURL)},
	}

	for _, r := range routes {
		for _, added := range e.Match(r.Methods, r.Path, r.Handler, guards[r.Access]...) {
			added.Name = r.Name
		}
	}
}
