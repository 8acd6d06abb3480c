// Package validation provides input validation utilities
package validation

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"streamsite/internal/models"
)

var hexColorRegex = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// Checker accumulates field violations so a single response can list all of them.
type Checker struct {
	fields []models.FieldError
}

// New returns an empty Checker.
func New() *Checker {
	return &Checker{}
}

// Fail records a violation for field.
func (c *Checker) Fail(field, message string) *Checker {
	c.fields = append(c.fields, models.FieldError{Field: field, Message: message})
	return c
}

// Failed reports whether field already has a violation.
func (c *Checker) Failed(field string) bool {
	for _, f := range c.fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Required fails when value is blank.
func (c *Checker) Required(field, value string) *Checker {
	if strings.TrimSpace(value) == "" {
		c.Fail(field, "is required")
	}
	return c
}

// MaxLen fails when value is longer than max characters.
func (c *Checker) MaxLen(field, value string, max int) *Checker {
	if utf8.RuneCountInString(value) > max {
		c.Fail(field, fmt.Sprintf("must be at most %d characters", max))
	}
	return c
}

// URL fails when a non-empty value is not an absolute http(s) URL.
func (c *Checker) URL(field, value string) *Checker {
	if value == "" || c.Failed(field) {
		return c
	}
	if !IsHTTPURL(value) {
		c.Fail(field, "must be a valid http or https URL")
	}
	return c
}

// HexColor fails when a non-empty value is not a #rgb or #rrggbb color.
func (c *Checker) HexColor(field, value string) *Checker {
	if value == "" {
		return c
	}
	if !hexColorRegex.MatchString(value) {
		c.Fail(field, "must be a hex color like #4A00E0")
	}
	return c
}

// Fields returns the recorded violations.
func (c *Checker) Fields() []models.FieldError {
	return c.fields
}

// Err returns a validation AppError listing every violation, or nil.
func (c *Checker) Err() error {
	if len(c.fields) == 0 {
		return nil
	}
	return models.NewValidationError("Validation failed", c.fields...)
}

// IsHTTPURL reports whether s parses as an absolute http or https URL with a host.
func IsHTTPURL(s string) bool {
	u, err := url.Parse(strings.TrimSpace(s))
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
