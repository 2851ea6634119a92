// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validate holds the declarative per-field request rules evaluated
// before any store logic runs. Every violated rule is collected, so the
// caller always sees the complete set of problems at once.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"inkpress/internal/apperror"
)

var (
	// emailPattern matches the address syntax accepted at registration.
	emailPattern = regexp.MustCompile(`^\w+([.-]?\w+)*@\w+([.-]?\w+)*(\.\w{2,3})+$`)
	// hexColorPattern matches 3- or 6-digit hex display colors.
	hexColorPattern = regexp.MustCompile(`^#([A-Fa-f0-9]{6}|[A-Fa-f0-9]{3})$`)
)

// Check inspects a field value and returns a violation message, or "" when
// the value passes.
type Check func(value string) string

// Field pairs a named request value with its rules. Optional fields skip
// their checks when the value is empty.
type Field struct {
	Name     string
	Value    string
	Optional bool
	Checks   []Check
}

// Run evaluates every field against its checks and returns all violations.
func Run(fields ...Field) []apperror.FieldError {
	var errs []apperror.FieldError
	for _, f := range fields {
		if f.Optional && strings.TrimSpace(f.Value) == "" {
			continue
		}
		for _, check := range f.Checks {
			if msg := check(f.Value); msg != "" {
				errs = append(errs, apperror.FieldError{Field: f.Name, Message: msg})
			}
		}
	}
	return errs
}

// Length requires a trimmed rune count between min and max inclusive.
func Length(min, max int, what string) Check {
	return func(v string) string {
		n := utf8.RuneCountInString(strings.TrimSpace(v))
		if n < min || n > max {
			return what
		}
		return ""
	}
}

// MinLength requires a trimmed rune count of at least min.
func MinLength(min int, what string) Check {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) < min {
			return what
		}
		return ""
	}
}

// MaxLength requires a trimmed rune count of at most max.
func MaxLength(max int, what string) Check {
	return func(v string) string {
		if utf8.RuneCountInString(strings.TrimSpace(v)) > max {
			return what
		}
		return ""
	}
}

// Email requires valid email syntax.
func Email() Check {
	return func(v string) string {
		if !emailPattern.MatchString(strings.TrimSpace(strings.ToLower(v))) {
			return "please provide a valid email"
		}
		return ""
	}
}

// HexColor requires a #RGB or #RRGGBB display color.
func HexColor() Check {
	return func(v string) string {
		if !hexColorPattern.MatchString(v) {
			return "please provide a valid hex color"
		}
		return ""
	}
}

// Required requires a non-empty trimmed value.
func Required(what string) Check {
	return func(v string) string {
		if strings.TrimSpace(v) == "" {
			return what
		}
		return ""
	}
}

// ObjectID requires a parseable document identifier.
func ObjectID(what string) Check {
	return func(v string) string {
		if _, err := primitive.ObjectIDFromHex(strings.TrimSpace(v)); err != nil {
			return what
		}
		return ""
	}
}

// Register validates a registration request.
func Register(name, email, password string) []apperror.FieldError {
	return Run(
		Field{Name: "name", Value: name, Checks: []Check{Length(2, 50, "name must be between 2 and 50 characters")}},
		Field{Name: "email", Value: email, Checks: []Check{Email()}},
		Field{Name: "password", Value: password, Checks: []Check{MinLength(6, "password must be at least 6 characters long")}},
	)
}

// Login validates a login request.
func Login(email, password string) []apperror.FieldError {
	return Run(
		Field{Name: "email", Value: email, Checks: []Check{Email()}},
		Field{Name: "password", Value: password, Checks: []Check{Required("password is required")}},
	)
}

// Post validates a post create request.
func Post(title, content, excerpt, category string) []apperror.FieldError {
	return Run(
		Field{Name: "title", Value: title, Checks: []Check{Length(5, 100, "title must be between 5 and 100 characters")}},
		Field{Name: "content", Value: content, Checks: []Check{MinLength(10, "content must be at least 10 characters long")}},
		Field{Name: "excerpt", Value: excerpt, Optional: true, Checks: []Check{MaxLength(200, "excerpt cannot be more than 200 characters")}},
		Field{Name: "category", Value: category, Checks: []Check{
			Required("category is required"),
			ObjectID("invalid category ID"),
		}},
	)
}

// Category validates a category create request.
func Category(name, description, color string) []apperror.FieldError {
	return Run(
		Field{Name: "name", Value: name, Checks: []Check{Length(2, 50, "category name must be between 2 and 50 characters")}},
		Field{Name: "description", Value: description, Optional: true, Checks: []Check{MaxLength(200, "description cannot be more than 200 characters")}},
		Field{Name: "color", Value: color, Optional: true, Checks: []Check{HexColor()}},
	)
}

// Comment validates a comment request.
func Comment(content string) []apperror.FieldError {
	return Run(
		Field{Name: "content", Value: content, Checks: []Check{Length(1, 500, "comment must be between 1 and 500 characters")}},
	)
}
