package util

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestDomainErrorConstructors(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		code   string
		status int
	}{
		{"validation", NewValidationError("bad input", nil), "VALIDATION_FAILED", http.StatusBadRequest},
		{"not found", NewNotFound("user", nil), "NOT_FOUND", http.StatusNotFound},
		{"unauthorized", NewUnauthorized("nope"), "UNAUTHORIZED", http.StatusUnauthorized},
		{"forbidden", NewForbidden("nope"), "FORBIDDEN", http.StatusForbidden},
		{"conflict", NewConflict("dup", nil), "CONFLICT", http.StatusConflict},
		{"expired", NewExpired("old token"), "TOKEN_EXPIRED", http.StatusBadRequest},
		{"internal", NewInternalError(errors.New("boom")), "INTERNAL_ERROR", http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var de *DomainError
			if !errors.As(tc.err, &de) {
				t.Fatalf("expected DomainError, got %T", tc.err)
			}
			if de.Code != tc.code {
				t.Errorf("code %q, want %q", de.Code, tc.code)
			}
			if de.HTTPStatus != tc.status {
				t.Errorf("status %d, want %d", de.HTTPStatus, tc.status)
			}
			if !IsCode(tc.err, tc.code) {
				t.Error("IsCode must match the constructor's code")
			}
		})
	}
}

func TestIsCode(t *testing.T) {
	if IsCode(errors.New("plain"), "NOT_FOUND") {
		t.Error("plain errors carry no code")
	}
	if IsCode(nil, "NOT_FOUND") {
		t.Error("nil carries no code")
	}
	wrapped := fmt.Errorf("context: %w", NewForbidden("nope"))
	if !IsCode(wrapped, "FORBIDDEN") {
		t.Error("IsCode must unwrap")
	}
}

func TestToDomainError(t *testing.T) {
	t.Run("passes through domain errors", func(t *testing.T) {
		original := NewConflict("dup", nil)
		if got := ToDomainError(original); got.Code != "CONFLICT" {
			t.Errorf("code %q, want CONFLICT", got.Code)
		}
	})

	t.Run("maps sql.ErrNoRows to not found", func(t *testing.T) {
		if got := ToDomainError(sql.ErrNoRows); got.Code != "NOT_FOUND" {
			t.Errorf("code %q, want NOT_FOUND", got.Code)
		}
	})

	t.Run("wraps unknown errors as internal", func(t *testing.T) {
		got := ToDomainError(errors.New("boom"))
		if got.Code != "INTERNAL_ERROR" {
			t.Errorf("code %q, want INTERNAL_ERROR", got.Code)
		}
		if got.HTTPStatus != http.StatusInternalServerError {
			t.Errorf("status %d, want 500", got.HTTPStatus)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if got := ToDomainError(nil); got != nil {
			t.Errorf("expected nil, got %v", got)
		}
	})
}
