package validator

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Phone numbers: optional leading +, then at least 10 characters drawn from
// digits, spaces and hyphens. Emails: one @, non-space local and domain
// parts, domain contains a dot.
var (
	phoneRegexp = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
	emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// IsValidPhone reports whether s is a syntactically valid phone number.
func IsValidPhone(s string) bool {
	return phoneRegexp.MatchString(s)
}

// IsValidEmail reports whether s is a syntactically valid email address.
func IsValidEmail(s string) bool {
	return emailRegexp.MatchString(s)
}

// New creates a new validator instance with custom validations registered.
// This ensures consistent validation across the application and tests.
func New() *validator.Validate {
	v := validator.New()

	// Register custom "notblank" validator - rejects whitespace-only strings
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true // Not a string, let other validators handle it
		}
		return strings.TrimSpace(str) != ""
	})

	// Register "phone" validator for user phone numbers
	_ = v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return IsValidPhone(str)
	})

	// Register "emailfmt" validator. The built-in "email" tag implements a
	// different grammar; this one matches the documented predicate exactly.
	_ = v.RegisterValidation("emailfmt", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return true
		}
		return IsValidEmail(str)
	})

	return v
}
