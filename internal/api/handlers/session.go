package handlers

import (
	"net/http"

	"github.com/ndewijer/wealth-manager-backend/internal/api/middleware"
	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
)

// Session returns the authenticated manager.
//
// Endpoint: GET /api/session
// Response: 200 OK with model.Session
// Error: 401 Unauthorized when the request carries no valid token
func Session(w http.ResponseWriter, r *http.Request) {
	session, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		response.RespondError(w, http.StatusUnauthorized, apperrors.ErrUnauthenticated.Error(), "")
		return
	}
	response.RespondJSON(w, http.StatusOK, session)
}
