package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/validation"
)

// TestParseJSON tests the parseJSON helper.
// This is an internal test (package handlers, not handlers_test) because
// parseJSON is unexported.
func TestParseJSON(t *testing.T) {
	type body struct {
		Name string `json:"name"`
	}

	t.Run("decodes a valid body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Anne"}`))
		got, err := parseJSON[body](req)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if got.Name != "Anne" {
			t.Errorf("Expected Anne, got %q", got.Name)
		}
	})

	t.Run("rejects unknown fields", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Anne","age":3}`))
		if _, err := parseJSON[body](req); err == nil {
			t.Error("Expected error for unknown field")
		}
	})

	t.Run("rejects an empty body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
		if _, err := parseJSON[body](req); err == nil {
			t.Error("Expected error for empty body")
		}
	})
}

func TestRespondServiceError(t *testing.T) {
	failure := errors.New("failed to do the thing")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", &validation.Error{Fields: map[string]string{"x": "bad"}}, http.StatusBadRequest},
		{"asset not found", fmt.Errorf("lookup: %w", apperrors.ErrAssetNotFound), http.StatusNotFound},
		{"customer not found", apperrors.ErrCustomerNotFound, http.StatusNotFound},
		{"unknown owner", apperrors.ErrOwnerNotFound, http.StatusBadRequest},
		{"bad fraction", apperrors.ErrInvalidFraction, http.StatusBadRequest},
		{"inconsistent shares", fmt.Errorf("%w: bare 0.5", apperrors.ErrOwnershipInconsistent), http.StatusUnprocessableEntity},
		{"unauthenticated", apperrors.ErrUnauthenticated, http.StatusUnauthorized},
		{"feature disabled", apperrors.ErrFeatureDisabled, http.StatusForbidden},
		{"anything else", errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondServiceError(w, tt.err, failure)
			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, w.Code)
			}
		})
	}

	t.Run("generic failure carries the failure message", func(t *testing.T) {
		w := httptest.NewRecorder()
		respondServiceError(w, errors.New("boom"), failure)

		var body map[string]any
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&body)
		if body["error"] != failure.Error() {
			t.Errorf("Expected %q, got %v", failure.Error(), body["error"])
		}
	})
}

func TestRespondBackendError(t *testing.T) {
	failure := errors.New("failed to update customer")

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"email exists", errors.New("graphql: EMAIL_ALREADY_EXISTS: taken"), http.StatusConflict},
		{"email locked", apperrors.NewBackendError(apperrors.KindEmailUpdateForbidden, "portal"), http.StatusForbidden},
		{"not found falls through", apperrors.ErrCustomerNotFound, http.StatusNotFound},
		{"unknown", errors.New("timeout"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			respondBackendError(w, tt.err, failure)
			if w.Code != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}
