package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestHandleAppErrorStatusMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", NotFoundf("office %d", 9), http.StatusNotFound, ErrCodeNotFound},
		{"conflict", Conflictf("office name %q already exists", "HQ"), http.StatusConflict, ErrCodeConflict},
		{"row version", fmt.Errorf("update: %w", ErrRowVersionConflict), http.StatusConflict, ErrCodeRowVersionConflict},
		{"validation", NewValidationError("name", "Field 'name' is required", "required"), http.StatusBadRequest, ErrCodeValidation},
		{"app error", &AppError{StatusCode: http.StatusTeapot, Code: "teapot", Message: "short and stout"}, http.StatusTeapot, "teapot"},
		{"credentials", ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, ErrCodeInternal},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleAppError(rec, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("expected status %d, got %d", tc.status, rec.Code)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode body: %v", err)
			}
			if body.Code != tc.code {
				t.Fatalf("expected code %q, got %q", tc.code, body.Code)
			}
		})
	}
}

func TestNotFoundfWrapsSentinel(t *testing.T) {
	err := NotFoundf("asset %d", 42)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound in chain, got %v", err)
	}
	if err.Error() != "asset 42: not_found" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
