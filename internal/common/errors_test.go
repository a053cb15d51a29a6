package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestHTTPStatusFromError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code string
	}{
		{"nil", nil, http.StatusOK, "internal_error"},
		{"not found", fmt.Errorf("load task: %w", ErrNotFound), http.StatusNotFound, "not_found"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "forbidden"},
		{"validation sentinel", ErrValidation, http.StatusUnprocessableEntity, "validation_error"},
		{"validation type", NewValidationError("title", "is required"), http.StatusUnprocessableEntity, "validation_error"},
		{"bad request", ErrBadRequest, http.StatusBadRequest, "bad_request"},
		{"conflict", fmt.Errorf("username already registered: %w", ErrConflict), http.StatusConflict, "conflict"},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HTTPStatusFromError(tt.err); got != tt.want {
				t.Fatalf("status = %d, want %d", got, tt.want)
			}
			if tt.err != nil {
				if got := ErrorCode(tt.err); got != tt.code {
					t.Fatalf("code = %q, want %q", got, tt.code)
				}
			}
		})
	}
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "title", Message: "is required"},
		{Field: "description", Message: "must be at most 1000 characters"},
	}}
	want := "validation failed: title: is required; description: must be at most 1000 characters"
	if err.Error() != want {
		t.Fatalf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(fmt.Errorf("create task: %w", err), ErrValidation) {
		t.Fatal("expected wrapped ValidationError to match ErrValidation")
	}
}

func TestRespondWithAppError(t *testing.T) {
	t.Run("internal detail is hidden", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/tasks/", nil)
		RespondWithAppError(w, r, errors.New(`pq: relation "tasks" does not exist`))

		if w.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", w.Code)
		}
		if strings.Contains(w.Body.String(), "relation") {
			t.Fatalf("body leaks internal error: %s", w.Body.String())
		}
		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if resp.Code != "internal_error" || resp.Error != "Internal server error" {
			t.Fatalf("unexpected body: %+v", resp)
		}
	})

	t.Run("validation details", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/tasks/", nil)
		RespondWithAppError(w, r, fmt.Errorf("create task: %w", NewValidationError("title", "is required")))

		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("status = %d, want 422", w.Code)
		}
		var resp ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if len(resp.Details) != 1 || resp.Details[0].Field != "title" {
			t.Fatalf("details = %+v", resp.Details)
		}
	})

	t.Run("unauthorized challenge", func(t *testing.T) {
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		RespondWithAppError(w, r, fmt.Errorf("token expired: %w", ErrUnauthorized))

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("status = %d, want 401", w.Code)
		}
		if got := w.Header().Get("WWW-Authenticate"); got != "Bearer" {
			t.Fatalf("WWW-Authenticate = %q", got)
		}
		if strings.Contains(w.Body.String(), "expired") {
			t.Fatalf("body reveals failure reason: %s", w.Body.String())
		}
	})
}
