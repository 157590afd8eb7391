// Package middleware provides HTTP middleware for request validation and processing.
package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/validation"
)

// ValidateUUIDMiddleware validates that the uuid URL parameter is present and is a valid UUID.
// Returns 400 Bad Request if the ID is missing or invalid.
//
// Example usage in router:
//
//	r.Route("/{uuid}", func(r chi.Router) {
//	    r.Use(middleware.ValidateUUIDMiddleware)
//	    r.Get("/", handler.AssetDetail)
//	    r.Delete("/", handler.DeleteAsset)
//	})
func ValidateUUIDMiddleware(next http.Handler) http.Handler {
	return ValidateUUIDParams("uuid")(next)
}

// ValidateUUIDParams validates each named URL parameter the same way.
func ValidateUUIDParams(names ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, name := range names {
				id := chi.URLParam(r, name)

				if id == "" {
					response.RespondError(w, http.StatusBadRequest, "valid UUID is required", name)
					return
				}

				if err := validation.ValidateUUID(id); err != nil {
					response.RespondError(w, http.StatusBadRequest, "invalid UUID format", err.Error())
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}
