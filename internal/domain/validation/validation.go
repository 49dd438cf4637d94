package validation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// emailPattern accepts any non-whitespace local part and a dotted domain.
// Full RFC 5322 validation is out of scope; storage-level uniqueness is the
// real guard against bad data.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Policy describes the password strength requirements
type Policy struct {
	MinLength      int  `json:"minLength" yaml:"minLength"`
	RequireUpper   bool `json:"requireUpper" yaml:"requireUpper"`
	RequireLower   bool `json:"requireLower" yaml:"requireLower"`
	RequireDigit   bool `json:"requireDigit" yaml:"requireDigit"`
	RequireSpecial bool `json:"requireSpecial" yaml:"requireSpecial"`
}

// DefaultPolicy is the password policy applied everywhere a password is set
func DefaultPolicy() Policy {
	return Policy{
		MinLength:      8,
		RequireUpper:   true,
		RequireLower:   true,
		RequireDigit:   true,
		RequireSpecial: true,
	}
}

// IsValidEmail reports whether the email has a plausible shape
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Registration checks the registration fields and returns every violated
// rule, not just the first one.
func Registration(name, email, password string, policy Policy) []string {
	var violations []string

	if strings.TrimSpace(name) == "" {
		violations = append(violations, "Name is required")
	}

	if strings.TrimSpace(email) == "" {
		violations = append(violations, "Email is required")
	} else if !IsValidEmail(email) {
		violations = append(violations, "Email format is invalid")
	}

	if password == "" {
		violations = append(violations, "Password is required")
	} else {
		violations = append(violations, PasswordStrength(password, policy)...)
	}

	return violations
}

// ProfileName checks the display name on profile updates.
func ProfileName(name string) []string {
	if strings.TrimSpace(name) == "" {
		return []string{"Name is required"}
	}

	return nil
}

// PasswordStrength checks a password against the policy and returns every
// violated rule.
func PasswordStrength(password string, policy Policy) []string {
	var violations []string

	if len(password) < policy.MinLength {
		violations = append(violations,
			fmt.Sprintf("Password must be at least %d characters long", policy.MinLength))
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if policy.RequireUpper && !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if policy.RequireLower && !hasLower {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if policy.RequireDigit && !hasDigit {
		violations = append(violations, "Password must contain at least one number")
	}
	if policy.RequireSpecial && !hasSpecial {
		violations = append(violations, "Password must contain at least one special character")
	}

	return violations
}
