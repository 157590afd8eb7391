package handlers

import (
	"net/http"

	"github.com/ndewijer/wealth-manager-backend/internal/api/request"
	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

// SearchHandler serves the cross-customer asset search.
type SearchHandler struct {
	searchService *service.SearchService
}

// NewSearchHandler creates a new SearchHandler
func NewSearchHandler(searchService *service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchService: searchService,
	}
}

// SearchAssets returns one page of flattened asset and investment rows.
//
// Endpoint: GET /api/search/assets
// Query: see request.SearchQuery
// Response: 200 OK with pagination.PageResponse[model.SearchRow]
// Error: 400 Bad Request on invalid query parameters
func (h *SearchHandler) SearchAssets(w http.ResponseWriter, r *http.Request) {
	filter, err := request.ParseSearchQuery(r.URL.Query())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSearchAssets)
		return
	}

	page, err := h.searchService.Search(r.Context(), filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSearchAssets)
		return
	}

	response.RespondJSON(w, http.StatusOK, page)
}
