// Package web is the HTTP adapter: an echo server rendering HTML pages over
// the primary ports.
package web

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/example/stockroom/internal/monitoring"
	"github.com/example/stockroom/internal/ports/primary"
)

// Config holds the settings the HTTP layer needs.
type Config struct {
	Debug             bool
	LogLevel          string
	LoginURL          string
	LoginRedirect     string
	LogoutRedirect    string
	SecureCookies     bool
	MetricsEnabled    bool
	LowStockThreshold int
}

// Services are the primary ports the handlers call.
type Services struct {
	Products primary.ProductService
	Tours    primary.TourService
	Auth     primary.AuthService
	Admin    primary.AdminService

	// Ping checks the database for /healthz. Optional.
	Ping func(ctx context.Context) error
}

// skipInfra exempts machine endpoints and static files from page middleware.
func skipInfra(c echo.Context) bool {
	p := c.Request().URL.Path
	return p == "/metrics" || p == "/healthz" || strings.HasPrefix(p, "/static/")
}

// NewServer builds the echo instance with middleware and every route.
func NewServer(cfg Config, s Services) (*echo.Echo, error) {
	renderer, err := NewRenderer()
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.Debug
	e.Renderer = renderer
	e.HTTPErrorHandler = ErrorHandler(e)
	SetLevel(e, cfg.LogLevel)

	e.Pre(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{Skipper: skipInfra}))
	e.Use(middleware.Recover())
	e.Use(LogHandlerFunc)
	if cfg.MetricsEnabled {
		e.Use(MetricsHandlerFunc)
	}
	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		Skipper:        skipInfra,
		TokenLookup:    "form:csrfmiddlewaretoken",
		ContextKey:     csrfKey,
		CookieName:     "csrftoken",
		CookiePath:     "/",
		CookieHTTPOnly: true,
		CookieSecure:   cfg.SecureCookies,
		CookieSameSite: http.SameSiteLaxMode,
	}))
	e.Use(SessionMiddleware(s.Auth))

	e.StaticFS("/static", echo.MustSubFS(assets, "static"))
	if cfg.MetricsEnabled {
		e.GET("/metrics", echo.WrapHandler(monitoring.Handler()))
	}

	register(e, Routes(s, cfg), cfg.LoginURL)
	return e, nil
}
