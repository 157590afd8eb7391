package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
)

// AssetHandler handles HTTP requests for asset endpoints.
type AssetHandler struct {
	assetService *service.AssetService
}

// NewAssetHandler creates a new AssetHandler
func NewAssetHandler(assetService *service.AssetService) *AssetHandler {
	return &AssetHandler{
		assetService: assetService,
	}
}

// AssetDetail returns the display-ready detail of an asset.
//
// Endpoint: GET /api/asset/{uuid}
// Response: 200 OK with model.AssetDetailView
// Error: 400 Bad Request if the asset ID is invalid (validated by middleware)
// Error: 404 Not Found if the asset does not exist
func (h *AssetHandler) AssetDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.assetService.AssetDetail(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveAsset)
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}

// DeleteAsset deletes an asset.
//
// Endpoint: DELETE /api/asset/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the asset does not exist
func (h *AssetHandler) DeleteAsset(w http.ResponseWriter, r *http.Request) {
	if err := h.assetService.DeleteAsset(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToDeleteAsset)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
