package apperror

import (
	"errors"
	"fmt"
	"testing"
)

// TestSentinelMatching verifies that constructors produce errors matching
// their sentinels through errors.Is, including after further wrapping.
func TestSentinelMatching(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{name: "not found", err: NotFound("post"), sentinel: ErrNotFound},
		{name: "validation", err: Validation(nil), sentinel: ErrValidation},
		{name: "duplicate", err: Duplicate("taken"), sentinel: ErrDuplicate},
		{name: "unauthorized", err: Unauthorized("no token"), sentinel: ErrUnauthorized},
		{name: "forbidden", err: Forbidden("admins only"), sentinel: ErrForbidden},
		{name: "has dependents", err: HasDependents("in use"), sentinel: ErrHasDependents},
		{name: "upload rejected", err: UploadRejected("too big"), sentinel: ErrUploadRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, sentinel) = false, want true", tt.err)
			}
			wrapped := fmt.Errorf("store: %w", tt.err)
			if !errors.Is(wrapped, tt.sentinel) {
				t.Errorf("wrapped error lost sentinel %v", tt.sentinel)
			}
		})
	}
}

// TestValidationCarriesAllFields verifies that a validation error exposes
// every violated rule, not just the first.
func TestValidationCarriesAllFields(t *testing.T) {
	fields := []FieldError{
		{Field: "title", Message: "too short"},
		{Field: "content", Message: "too short"},
		{Field: "category", Message: "required"},
	}
	err := Validation(fields)

	var appErr *Error
	if !errors.As(err, &appErr) {
		t.Fatal("errors.As failed to extract *Error")
	}
	if len(appErr.Fields) != 3 {
		t.Fatalf("got %d field errors, want 3", len(appErr.Fields))
	}
	if appErr.Fields[2].Field != "category" {
		t.Errorf("field order not preserved: got %q", appErr.Fields[2].Field)
	}
}

// TestErrorsAsThroughWrap verifies the typed error survives Wrap.
func TestErrorsAsThroughWrap(t *testing.T) {
	orig := NotFound("category")
	wrapped := Wrap(orig, "resolving category %q", "tech")

	var appErr *Error
	if !errors.As(wrapped, &appErr) {
		t.Fatal("errors.As failed through Wrap")
	}
	if appErr.Message != "category not found" {
		t.Errorf("Message = %q, want %q", appErr.Message, "category not found")
	}
}
