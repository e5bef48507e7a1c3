package auth

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/example/stockroom/internal/core/form"
)

func TestCheckUsername(t *testing.T) {
	tests := []struct {
		name        string
		username    string
		taken       bool
		wantAllowed bool
		wantReason  string
	}{
		{name: "plain", username: "alice", wantAllowed: true},
		{name: "allowed punctuation", username: "a.b+c-d_e@f", wantAllowed: true},
		{name: "unicode letters", username: "zoë", wantAllowed: true},
		{name: "space", username: "al ice", wantAllowed: false, wantReason: MsgUsernameInvalid},
		{name: "slash", username: "al/ice", wantAllowed: false, wantReason: MsgUsernameInvalid},
		{name: "taken", username: "alice", taken: true, wantAllowed: false, wantReason: MsgUsernameTaken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckUsername(tt.username, tt.taken)
			if result.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v", result.Allowed, tt.wantAllowed)
			}
			if !tt.wantAllowed && result.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.wantReason)
			}
		})
	}
}

func TestPasswordProblems(t *testing.T) {
	tests := []struct {
		name     string
		password string
		username string
		want     []string
	}{
		{name: "good", password: "correct-horse-battery", username: "alice", want: nil},
		{name: "short", password: "abc", want: []string{"This password is too short. It must contain at least 8 characters."}},
		{name: "numeric and common", password: "12345678", want: []string{MsgPasswordCommon, MsgPasswordNumeric}},
		{name: "numeric", password: "90817263", want: []string{MsgPasswordNumeric}},
		{name: "similar", password: "alice-rocks", username: "Alice", want: []string{MsgPasswordSimilar}},
		{name: "too long for bcrypt", password: strings.Repeat("x7", 40), want: []string{MsgPasswordTooLong}},
		{name: "exactly 72 bytes", password: strings.Repeat("ab3", 24), want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PasswordProblems(tt.password, tt.username)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("problems mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCheckRegistration(t *testing.T) {
	tests := []struct {
		name string
		ctx  RegistrationContext
		want form.Errors
	}{
		{
			name: "valid",
			ctx:  RegistrationContext{Username: "alice", Password1: "s3cure-pass", Password2: "s3cure-pass"},
			want: form.Errors{},
		},
		{
			name: "mismatched passwords",
			ctx:  RegistrationContext{Username: "alice", Password1: "s3cure-pass", Password2: "s3cure-pasz"},
			want: form.Errors{"password2": {MsgPasswordMismatch}},
		},
		{
			name: "taken username and weak password",
			ctx:  RegistrationContext{Username: "bob", Password1: "1234", Password2: "1234", UsernameTaken: true},
			want: form.Errors{
				"username": {MsgUsernameTaken},
				"password2": {
					"This password is too short. It must contain at least 8 characters.",
					MsgPasswordNumeric,
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CheckRegistration(tt.ctx)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("errors mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCanAccessAdmin(t *testing.T) {
	tests := []struct {
		name        string
		ctx         AccessContext
		wantAllowed bool
	}{
		{name: "anonymous", ctx: AccessContext{}, wantAllowed: false},
		{name: "regular user", ctx: AccessContext{Authenticated: true, IsActive: true}, wantAllowed: false},
		{name: "inactive staff", ctx: AccessContext{Authenticated: true, IsStaff: true}, wantAllowed: false},
		{name: "staff", ctx: AccessContext{Authenticated: true, IsActive: true, IsStaff: true}, wantAllowed: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CanAccessAdmin(tt.ctx); got.Allowed != tt.wantAllowed {
				t.Errorf("Allowed = %v, want %v (%s)", got.Allowed, tt.wantAllowed, got.Reason)
			}
		})
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"/create/":          "/create/",
		"/update/3/?x=1":    "/update/3/?x=1",
		"":                  "/list/",
		"https://evil.com/": "/list/",
		"//evil.com/":       "/list/",
		"/\\evil.com":       "/list/",
		"relative/path":     "/list/",
	}

	for next, want := range tests {
		if got := SafeRedirect(next, "/list/"); got != want {
			t.Errorf("SafeRedirect(%q) = %q, want %q", next, got, want)
		}
	}
}
