// Package auth contains the pure rules for registration, login and access.
// Guards are pure functions that evaluate preconditions without side effects.
package auth

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/example/stockroom/internal/core/form"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// MaxPasswordBytes is the longest password bcrypt will hash.
const MaxPasswordBytes = 72

// Messages shown on the registration and login forms.
const (
	MsgInvalidLogin      = "Please enter a correct username and password."
	MsgPasswordMismatch  = "The two password fields didn't match."
	MsgUsernameTaken     = "A user with that username already exists."
	MsgUsernameInvalid   = "Enter a valid username. This value may contain only letters, numbers, and @/./+/-/_ characters."
	MsgPasswordNumeric   = "This password is entirely numeric."
	MsgPasswordCommon    = "This password is too common."
	MsgPasswordSimilar   = "The password is too similar to the username."
	MsgPasswordTooLong   = "This password is too long. It must contain at most 72 bytes."
	usernameHelpText     = "Required. 150 characters or fewer. Letters, digits and @/./+/-/_ only."
	passwordConfirmation = "Enter the same password as before, for verification."
)

// RegistrationForm is the sign-up form.
var RegistrationForm = form.Form{
	Name: "registration",
	Fields: []form.Field{
		{Name: "username", Label: "Username", Column: "username", Kind: form.Text, Required: true, MaxLength: 150, HelpText: usernameHelpText},
		{Name: "password1", Label: "Password", Kind: form.Password, Required: true},
		{Name: "password2", Label: "Password confirmation", Kind: form.Password, Required: true, HelpText: passwordConfirmation},
	},
}

// LoginForm is the sign-in form.
var LoginForm = form.Form{
	Name: "login",
	Fields: []form.Field{
		{Name: "username", Label: "Username", Kind: form.Text, Required: true, MaxLength: 150},
		{Name: "password", Label: "Password", Kind: form.Password, Required: true},
	},
}

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]+$`)

// commonPasswords is a short deny list of the most used passwords.
var commonPasswords = map[string]bool{
	"password":   true,
	"password1":  true,
	"12345678":   true,
	"123456789":  true,
	"qwertyuiop": true,
	"iloveyou":   true,
	"sunshine":   true,
	"letmein1":   true,
	"football":   true,
	"baseball":   true,
	"abc12345":   true,
	"admin123":   true,
}

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CheckUsername evaluates whether username is acceptable for a new account.
// Rules:
// - Only letters, digits and @ . + - _
// - Not already taken
func CheckUsername(username string, taken bool) GuardResult {
	if !usernamePattern.MatchString(username) {
		return GuardResult{Allowed: false, Reason: MsgUsernameInvalid}
	}
	if taken {
		return GuardResult{Allowed: false, Reason: MsgUsernameTaken}
	}
	return GuardResult{Allowed: true}
}

// PasswordProblems lists every rule password breaks.
func PasswordProblems(password, username string) []string {
	var problems []string

	if utf8.RuneCountInString(password) < MinPasswordLength {
		problems = append(problems, fmt.Sprintf("This password is too short. It must contain at least %d characters.", MinPasswordLength))
	}
	if len(password) > MaxPasswordBytes {
		problems = append(problems, MsgPasswordTooLong)
	}
	if username != "" && similar(password, username) {
		problems = append(problems, MsgPasswordSimilar)
	}
	if commonPasswords[strings.ToLower(password)] {
		problems = append(problems, MsgPasswordCommon)
	}
	if password != "" && strings.Trim(password, "0123456789") == "" {
		problems = append(problems, MsgPasswordNumeric)
	}

	return problems
}

func similar(password, username string) bool {
	p := strings.ToLower(password)
	u := strings.ToLower(username)
	return p == u || (len(u) >= 4 && strings.Contains(p, u))
}

// RegistrationContext provides context for the registration check.
type RegistrationContext struct {
	Username      string
	Password1     string
	Password2     string
	UsernameTaken bool
}

// CheckRegistration returns field errors for a registration attempt whose
// fields already passed RegistrationForm. An empty result allows the account.
func CheckRegistration(ctx RegistrationContext) form.Errors {
	errs := make(form.Errors)

	if r := CheckUsername(ctx.Username, ctx.UsernameTaken); !r.Allowed {
		errs.Add("username", r.Reason)
	}

	if ctx.Password1 != ctx.Password2 {
		errs.Add("password2", MsgPasswordMismatch)
		return errs
	}

	for _, p := range PasswordProblems(ctx.Password2, ctx.Username) {
		errs.Add("password2", p)
	}

	return errs
}

// AccessContext describes the requester of a protected page.
type AccessContext struct {
	Authenticated bool
	IsActive      bool
	IsStaff       bool
}

// CanAccessAdmin evaluates whether the requester may use the admin site.
// Rules:
// - Must be logged in
// - Must be an active staff member
func CanAccessAdmin(ctx AccessContext) GuardResult {
	if !ctx.Authenticated {
		return GuardResult{Allowed: false, Reason: "authentication required"}
	}
	if !ctx.IsActive || !ctx.IsStaff {
		return GuardResult{Allowed: false, Reason: "staff access required"}
	}
	return GuardResult{Allowed: true}
}

// SafeRedirect returns next when it is a path on this site, else fallback.
func SafeRedirect(next, fallback string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return fallback
	}
	u, err := url.Parse(next)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}
	return next
}
