package web

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/example/stockroom/internal/core/auth"
	"github.com/example/stockroom/internal/core/form"
	"github.com/example/stockroom/internal/monitoring"
	"github.com/example/stockroom/internal/ports/primary"
)

// AccountConfig holds the redirect targets and cookie policy of the account pages.
type AccountConfig struct {
	LoginRedirect    string
	LogoutRedirect   string
	RegisterRedirect string
	SecureCookies    bool
}

// RegisterHandler shows the sign-up form and creates the account on POST.
// A successful sign-up is logged in straight away.
func RegisterHandler(authService primary.AuthService, cfg AccountConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodPost {
			return render(c, http.StatusOK, "register.html", formContext(auth.RegistrationForm, form.Data{}, nil))
		}

		data, err := formData(c)
		if err != nil {
			return err
		}
		result, err := authService.Register(c.Request().Context(), data)
		monitoring.RecordAuthEvent("register", err)
		if v, ok := primary.AsValidationError(err); ok {
			return render(c, http.StatusOK, "register.html", formContext(auth.RegistrationForm, data, v.FormErrors()))
		}
		if err != nil {
			return err
		}

		setSessionCookie(c, result.Token, result.ExpiresAt, cfg.SecureCookies)
		return c.Redirect(http.StatusFound, cfg.RegisterRedirect)
	}
}

// LoginHandler shows the login form and starts a session on POST. Every
// failure shows the same message.
func LoginHandler(authService primary.AuthService, cfg AccountConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		if c.Request().Method != http.MethodPost {
			return renderLogin(c, c.QueryParam("next"), form.Data{}, nil)
		}

		data, err := formData(c)
		if err != nil {
			return err
		}
		next := data["next"]

		cleaned, errs := auth.LoginForm.Bind(data)
		if errs.Any() {
			return renderLogin(c, next, data, errs)
		}

		result, err := authService.Login(c.Request().Context(), cleaned.String("username"), cleaned.String("password"))
		monitoring.RecordAuthEvent("login", err)
		if errors.Is(err, primary.ErrInvalidCredentials) {
			errs.Add(form.NonField, auth.MsgInvalidLogin)
			return renderLogin(c, next, data, errs)
		}
		if err != nil {
			return err
		}

		setSessionCookie(c, result.Token, result.ExpiresAt, cfg.SecureCookies)
		return c.Redirect(http.StatusFound, auth.SafeRedirect(next, cfg.LoginRedirect))
	}
}

// LogoutHandler ends the session. It is only routed for POST.
func LogoutHandler(authService primary.AuthService, cfg AccountConfig) echo.HandlerFunc {
	return func(c echo.Context) error {
		if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
			err := authService.Logout(c.Request().Context(), cookie.Value)
			monitoring.RecordAuthEvent("logout", err)
			if err != nil {
				return err
			}
		}
		clearSessionCookie(c)
		return c.Redirect(http.StatusFound, cfg.LogoutRedirect)
	}
}

func renderLogin(c echo.Context, next string, data form.Data, errs form.Errors) error {
	return render(c, http.StatusOK, "login.html", merge(echo.Map{"Next": next}, formContext(auth.LoginForm, data, errs)))
}
