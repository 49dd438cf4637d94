package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  bool
	}{
		{name: "valid email", email: "user@example.com", want: true},
		{name: "valid email with subdomain", email: "user@mail.example.com", want: true},
		{name: "valid email with plus", email: "user+tag@example.com", want: true},
		{name: "missing at sign", email: "userexample.com", want: false},
		{name: "missing domain dot", email: "user@example", want: false},
		{name: "contains whitespace", email: "user name@example.com", want: false},
		{name: "empty string", email: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestPasswordStrength(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name           string
		password       string
		wantViolations []string
	}{
		{
			name:           "strong password passes",
			password:       "Str0ng!pass",
			wantViolations: nil,
		},
		{
			name:     "too short",
			password: "Ab1!x",
			wantViolations: []string{
				"Password must be at least 8 characters long",
			},
		},
		{
			name:     "missing uppercase",
			password: "weakpass1!",
			wantViolations: []string{
				"Password must contain at least one uppercase letter",
			},
		},
		{
			name:     "missing lowercase",
			password: "WEAKPASS1!",
			wantViolations: []string{
				"Password must contain at least one lowercase letter",
			},
		},
		{
			name:     "missing digit",
			password: "Weakpass!",
			wantViolations: []string{
				"Password must contain at least one number",
			},
		},
		{
			name:     "missing special character",
			password: "Weakpass1",
			wantViolations: []string{
				"Password must contain at least one special character",
			},
		},
		{
			name:     "collects every violation",
			password: "short",
			wantViolations: []string{
				"Password must be at least 8 characters long",
				"Password must contain at least one uppercase letter",
				"Password must contain at least one number",
				"Password must contain at least one special character",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantViolations, PasswordStrength(tt.password, policy))
		})
	}
}

func TestPasswordStrength_RelaxedPolicy(t *testing.T) {
	policy := Policy{MinLength: 6}

	assert.Empty(t, PasswordStrength("simple", policy))
	assert.Equal(t,
		[]string{"Password must be at least 6 characters long"},
		PasswordStrength("abc", policy))
}

func TestRegistration(t *testing.T) {
	policy := DefaultPolicy()

	tests := []struct {
		name           string
		accountName    string
		email          string
		password       string
		wantViolations []string
	}{
		{
			name:           "valid input",
			accountName:    "Alice",
			email:          "alice@example.com",
			password:       "Str0ng!pass",
			wantViolations: nil,
		},
		{
			name:        "everything missing",
			accountName: "",
			email:       "",
			password:    "",
			wantViolations: []string{
				"Name is required",
				"Email is required",
				"Password is required",
			},
		},
		{
			name:        "whitespace only name",
			accountName: "   ",
			email:       "alice@example.com",
			password:    "Str0ng!pass",
			wantViolations: []string{
				"Name is required",
			},
		},
		{
			name:        "bad email format",
			accountName: "Alice",
			email:       "not-an-email",
			password:    "Str0ng!pass",
			wantViolations: []string{
				"Email format is invalid",
			},
		},
		{
			name:        "weak password violations included",
			accountName: "Alice",
			email:       "alice@example.com",
			password:    "weakpass",
			wantViolations: []string{
				"Password must contain at least one uppercase letter",
				"Password must contain at least one number",
				"Password must contain at least one special character",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantViolations, Registration(tt.accountName, tt.email, tt.password, policy))
		})
	}
}
