// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package apperror defines the application error taxonomy shared by stores,
// middleware, and HTTP handlers. Handlers translate these errors to HTTP
// status codes; stores stay protocol-agnostic.
package apperror

import (
	"errors"
	"fmt"
)

// Sentinel errors for errors.Is checks across package boundaries.
var (
	ErrNotFound       = errors.New("not found")
	ErrValidation     = errors.New("validation failed")
	ErrDuplicate      = errors.New("duplicate")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrHasDependents  = errors.New("has dependents")
	ErrUploadRejected = errors.New("upload rejected")
)

// FieldError describes a single violated validation rule.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error is a typed application error wrapping a sentinel with a
// human-readable message and, for validation failures, the full list of
// violated rules.
type Error struct {
	Err     error
	Message string
	Fields  []FieldError
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that the named resource does not exist.
func NotFound(resource string) *Error {
	return &Error{Err: ErrNotFound, Message: resource + " not found"}
}

// Validation reports one or more violated field rules. All violations are
// carried together so the caller sees the complete set, not just the first.
func Validation(fields []FieldError) *Error {
	return &Error{Err: ErrValidation, Message: "validation failed", Fields: fields}
}

// Duplicate reports a uniqueness violation, e.g. an email or category name
// that is already taken.
func Duplicate(message string) *Error {
	return &Error{Err: ErrDuplicate, Message: message}
}

// Unauthorized reports a missing, invalid, or expired credential.
func Unauthorized(message string) *Error {
	return &Error{Err: ErrUnauthorized, Message: message}
}

// Forbidden reports that the authenticated caller lacks permission.
func Forbidden(message string) *Error {
	return &Error{Err: ErrForbidden, Message: message}
}

// HasDependents reports a delete blocked by dependent records.
func HasDependents(message string) *Error {
	return &Error{Err: ErrHasDependents, Message: message}
}

// UploadRejected reports a file upload that violates size or type limits.
func UploadRejected(message string) *Error {
	return &Error{Err: ErrUploadRejected, Message: message}
}

// Wrap annotates err with context while preserving the error chain.
func Wrap(err error, format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, err)...)
}
