package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/example/stockroom/internal/ports/primary"
	"github.com/example/stockroom/internal/ports/secondary"
)

// errorStatus maps domain errors onto HTTP statuses.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, secondary.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, primary.ErrPermissionDenied):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// errorTitles are shown as the heading of error pages.
var errorTitles = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusMethodNotAllowed:    "Method Not Allowed",
	http.StatusInternalServerError: "Server Error",
}

// ErrorHandler renders every unhandled error as an HTML page. Server errors
// are logged; their details are shown only in debug mode.
func ErrorHandler(e *echo.Echo) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := ""
		var he *echo.HTTPError
		if errors.As(err, &he) {
			code = he.Code
			if m, ok := he.Message.(string); ok && code < 500 {
				message = m
			}
		} else {
			code = errorStatus(err)
		}

		if code >= 500 {
			e.Logger.Error(err)
			if e.Debug {
				message = err.Error()
			}
		}

		title, ok := errorTitles[code]
		if !ok {
			title = http.StatusText(code)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = render(c, code, "error.html", echo.Map{
				"Code":    code,
				"Title":   title,
				"Message": message,
			})
		}
		if err != nil {
			e.Logger.Error(err)
		}
	}
}
