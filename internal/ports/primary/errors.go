package primary

import (
	"errors"
	"sort"
	"strings"

	"github.com/example/stockroom/internal/core/form"
)

var (
	// ErrInvalidCredentials is returned for any failed login, whatever the cause.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrPermissionDenied is returned when an authenticated user lacks access.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrUnauthenticated is returned when a session token does not resolve to a user.
	ErrUnauthenticated = errors.New("not authenticated")
)

// ValidationError carries field-level and non-field messages for a rejected form.
type ValidationError struct {
	Fields   map[string][]string
	NonField []string
}

// NewValidationError splits form errors into field and non-field messages.
func NewValidationError(errs form.Errors) *ValidationError {
	v := &ValidationError{Fields: make(map[string][]string)}
	for field, msgs := range errs {
		if len(msgs) == 0 {
			continue
		}
		if field == form.NonField {
			v.NonField = append(v.NonField, msgs...)
			continue
		}
		v.Fields[field] = append(v.Fields[field], msgs...)
	}
	return v
}

// FieldError builds a ValidationError with one message on one field.
func FieldError(field, msg string) *ValidationError {
	return &ValidationError{Fields: map[string][]string{field: {msg}}}
}

func (e *ValidationError) Error() string {
	var parts []string
	parts = append(parts, e.NonField...)

	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Fields[f], " "))
	}

	if len(parts) == 0 {
		return "validation failed"
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// FormErrors converts back into the form package's representation for rendering.
func (e *ValidationError) FormErrors() form.Errors {
	out := make(form.Errors, len(e.Fields)+1)
	for f, msgs := range e.Fields {
		out[f] = append([]string(nil), msgs...)
	}
	if len(e.NonField) > 0 {
		out[form.NonField] = append([]string(nil), e.NonField...)
	}
	return out
}

// AsValidationError unwraps err into a *ValidationError.
func AsValidationError(err error) (*ValidationError, bool) {
	var v *ValidationError
	if errors.As(err, &v) {
		return v, true
	}
	return nil, false
}
