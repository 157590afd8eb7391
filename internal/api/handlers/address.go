package handlers

import (
	"net/http"
	"strconv"

	"github.com/ndewijer/wealth-manager-backend/internal/address"
	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
)

// AddressHandler serves postal address suggestions.
type AddressHandler struct {
	client *address.Client
}

// NewAddressHandler creates a new AddressHandler
func NewAddressHandler(client *address.Client) *AddressHandler {
	return &AddressHandler{client: client}
}

// Search returns address suggestions for q. Lookup failures and queries
// shorter than three characters answer an empty list.
//
// Endpoint: GET /api/address?q=&limit=
// Response: 200 OK with []address.Suggestion
func (h *AddressHandler) Search(w http.ResponseWriter, r *http.Request) {
	limit := address.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 20 {
			response.RespondError(w, http.StatusBadRequest, "validation failed", map[string]string{"limit": "must be between 1 and 20"})
			return
		}
		limit = n
	}

	response.RespondJSON(w, http.StatusOK, h.client.Search(r.Context(), r.URL.Query().Get("q"), limit))
}
