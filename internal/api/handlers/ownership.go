package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/wealth-manager-backend/internal/api/request"
	"github.com/ndewijer/wealth-manager-backend/internal/api/response"
	"github.com/ndewijer/wealth-manager-backend/internal/apperrors"
	"github.com/ndewijer/wealth-manager-backend/internal/model"
	"github.com/ndewijer/wealth-manager-backend/internal/service"
	"github.com/ndewijer/wealth-manager-backend/internal/validation"
)

// OwnershipHandler serves the ownership form of an asset.
type OwnershipHandler struct {
	ownershipService *service.OwnershipService
}

// NewOwnershipHandler creates a new OwnershipHandler
func NewOwnershipHandler(ownershipService *service.OwnershipService) *OwnershipHandler {
	return &OwnershipHandler{
		ownershipService: ownershipService,
	}
}

// Ownership returns the form rows: current owners, then eligible entities
// at 0%.
//
// Endpoint: GET /api/asset/{uuid}/ownership
// Response: 200 OK with []model.OwnershipRow
// Error: 404 Not Found if the asset does not exist
func (h *OwnershipHandler) Ownership(w http.ResponseWriter, r *http.Request) {
	rows, err := h.ownershipService.LoadOwnership(r.Context(), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveOwnership)
		return
	}

	response.RespondJSON(w, http.StatusOK, rows)
}

// SaveOwnership replaces the owner list of an asset.
//
// Endpoint: PUT /api/asset/{uuid}/ownership
// Request: request.SaveOwnershipRequest
// Response: 200 OK with model.OwnershipResult
// Error: 400 Bad Request on an invalid body or an unknown owner
// Error: 422 Unprocessable Entity when shares are inconsistent and enforced
func (h *OwnershipHandler) SaveOwnership(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.SaveOwnershipRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	if err := validation.Struct(req); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveOwnership)
		return
	}

	edit := service.OwnershipEdit{ToggleAll: req.ToggleAll, Rows: make([]model.OwnershipRow, len(req.Rows))}
	for i, row := range req.Rows {
		edit.Rows[i] = model.OwnershipRow{OwnerID: row.OwnerID, Ownership: *row.Ownership}
		if row.Mode != nil {
			mode := model.OwnershipMode(*row.Mode)
			edit.Rows[i].Mode = &mode
		}
	}

	result, err := h.ownershipService.SaveOwnership(r.Context(), chi.URLParam(r, "uuid"), edit)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToSaveOwnership)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
