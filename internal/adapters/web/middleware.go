package web

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"

	"github.com/example/stockroom/internal/core/auth"
	"github.com/example/stockroom/internal/ctxutil"
	"github.com/example/stockroom/internal/monitoring"
	"github.com/example/stockroom/internal/ports/primary"
)

// SessionCookie carries the signed session token.
const SessionCookie = "sessionid"

// LogHandlerFunc logs every request and its response with timing and error.
func LogHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		meth := c.Request().Method
		path := c.Request().URL
		begin := time.Now()
		c.Logger().Debugf("< request %s %s", meth, path)

		err := next(c)

		c.Logger().Infof(
			"> response status = %d (for %s %s) in %v / error = %v",
			statusOf(c, err), meth, path, time.Since(begin), err,
		)
		return err
	}
}

// SetLevel applies a textual log level to e's logger.
func SetLevel(e *echo.Echo, loglevel string) {
	switch strings.ToLower(loglevel) {
	case "debug":
		e.Logger.SetLevel(log.DEBUG)
	case "info":
		e.Logger.SetLevel(log.INFO)
	case "warn", "":
		e.Logger.SetLevel(log.WARN)
	case "error":
		e.Logger.SetLevel(log.ERROR)
	case "off":
		e.Logger.SetLevel(log.OFF)
	default:
		e.Logger.SetLevel(log.WARN)
		e.Logger.Warnf("unknown loglevel: %s. fall-backed to warn", loglevel)
	}
}

// MetricsHandlerFunc records request counts and latency by route pattern.
func MetricsHandlerFunc(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		begin := time.Now()
		err := next(c)

		route := c.Path()
		if route == "" {
			route = "unmatched"
		}
		monitoring.RecordHTTPRequest(c.Request().Method, route, statusOf(c, err), time.Since(begin))
		return err
	}
}

// statusOf is the status the response will carry once err is handled.
func statusOf(c echo.Context, err error) int {
	if err == nil {
		return c.Response().Status
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return errorStatus(err)
}

// SessionMiddleware resolves the session cookie to a user. Requests without
// a valid session continue anonymously.
func SessionMiddleware(authService primary.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			cookie, err := c.Cookie(SessionCookie)
			if err != nil || cookie.Value == "" {
				return next(c)
			}

			req := c.Request()
			user, err := authService.Authenticate(req.Context(), cookie.Value)
			switch {
			case err == nil:
				c.Set(userKey, user)
				c.SetRequest(req.WithContext(ctxutil.WithUserID(req.Context(), user.ID)))
			case errors.Is(err, primary.ErrUnauthenticated):
				clearSessionCookie(c)
			default:
				return err
			}
			return next(c)
		}
	}
}

// RequireLogin redirects anonymous requests to loginURL, keeping the
// original target in ?next=.
func RequireLogin(loginURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if currentUser(c) == nil {
				return redirectToLogin(c, loginURL)
			}
			return next(c)
		}
	}
}

// RequireStaff admits active staff users. Anonymous requests go to the
// login page; other users get 403.
func RequireStaff(loginURL string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			user := currentUser(c)
			if user == nil {
				return redirectToLogin(c, loginURL)
			}
			access := auth.CanAccessAdmin(auth.AccessContext{
				Authenticated: true,
				IsActive:      user.IsActive,
				IsStaff:       user.IsStaff,
			})
			if !access.Allowed {
				return primary.ErrPermissionDenied
			}
			return next(c)
		}
	}
}

func currentUser(c echo.Context) *primary.User {
	u, _ := c.Get(userKey).(*primary.User)
	return u
}

func redirectToLogin(c echo.Context, loginURL string) error {
	return c.Redirect(http.StatusFound, loginURL+"?next="+url.QueryEscape(c.Request().URL.RequestURI()))
}

func setSessionCookie(c echo.Context, token string, expires time.Time, secure bool) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
